package repository

import (
	"context"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
)

// MessagingRepository defines persistence operations for messages and the
// derived conversation ledger.
//
// Concurrency contract: CreateMessage and TouchConversationInbound must be
// single atomic operations against the backing store (insert-if-absent and
// upsert-and-increment respectively), never read-then-write, so concurrent
// ingestion units touching the same conversation cannot lose writes.
type MessagingRepository interface {
	// CreateMessage inserts m if no record with the same dedupe key exists.
	// On a duplicate it returns the previously stored record untouched and
	// created=false; replays are never an error.
	CreateMessage(ctx context.Context, m messaging.Message) (stored *messaging.Message, created bool, err error)

	// GetMessage fetches a message by internal id. Returns (nil, nil) when absent.
	GetMessage(ctx context.Context, id string) (*messaging.Message, error)

	// ListMessagesByConversation returns all messages for the conversation
	// ordered by timestamp ascending.
	ListMessagesByConversation(ctx context.Context, conversationID string) ([]messaging.Message, error)

	// UpdateMessageStatus overwrites the status of the message matched by
	// providerMsgID, or by contextMsgID when providerMsgID is empty, and
	// returns the updated record. Returns (nil, nil) when nothing matches;
	// a miss is a soft outcome, not an error.
	UpdateMessageStatus(ctx context.Context, providerMsgID, contextMsgID string, status messaging.Status) (*messaging.Message, error)

	// TouchConversationInbound atomically increments the unread counter,
	// creating the conversation with unread=1 and displayName when absent.
	// The display name is first-write-wins and never overwritten.
	TouchConversationInbound(ctx context.Context, conversationID, displayName string) error

	// TouchConversationOutbound ensures the conversation exists (unread=0
	// when created) without touching the unread counter.
	TouchConversationOutbound(ctx context.Context, conversationID, displayName string) error

	// ResetUnread sets the unread counter to zero unconditionally.
	ResetUnread(ctx context.Context, conversationID string) error

	// ListConversationSummaries returns every conversation joined with its
	// most recent message, ordered by that message's timestamp descending;
	// conversations with no messages sort last.
	ListConversationSummaries(ctx context.Context) ([]messaging.ConversationSummary, error)
}
