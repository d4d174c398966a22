package messaging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction tells whether a message entered the system from the provider
// or was originated locally.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Status is the delivery state reported for a message. Transitions are not
// a state machine: the reconciler overwrites whatever the provider sends.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
	StatusUnknown   Status = "unknown"
)

// Kind is the content type of a message.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Message is an immutable log entry in a conversation. Only Status may
// change after creation; everything else is written once.
type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"wa_id" db:"conversation_id"`
	SenderName     string    `json:"name" db:"sender_name"`
	Direction      Direction `json:"direction" db:"direction"`
	CreatedAt      time.Time `json:"timestamp" db:"created_at"`
	Status         Status    `json:"status" db:"status"`
	Kind           Kind      `json:"type" db:"kind"`
	Body           string    `json:"text" db:"body"`
	MediaURL       *string   `json:"mediaUrl,omitempty" db:"media_url"`
	MediaMime      *string   `json:"mediaMime,omitempty" db:"media_mime"`
	Caption        *string   `json:"caption,omitempty" db:"caption"`
	ReplyTo        *string   `json:"replyTo,omitempty" db:"reply_to"`

	// Correlation keys assigned by the provider. Used only to match status
	// events back onto stored messages; either may be empty.
	ProviderMsgID string `json:"msg_id,omitempty" db:"provider_msg_id"`
	ContextMsgID  string `json:"meta_msg_id,omitempty" db:"context_msg_id"`

	// DedupeKey makes replayed provider payloads idempotent at the store.
	DedupeKey string `json:"-" db:"dedupe_key"`
}

// NewMessage validates and normalizes a message before persistence.
// It assigns the internal id, defaults, and the dedupe key.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" {
		return nil, errors.New("wa_id is required")
	}

	if m.Direction != DirectionIn && m.Direction != DirectionOut {
		return nil, fmt.Errorf("invalid direction %q", m.Direction)
	}

	if m.Kind == "" {
		m.Kind = KindText
	}
	switch m.Kind {
	case KindText:
		m.Body = strings.TrimSpace(m.Body)
		if m.Body == "" {
			return nil, errors.New("text required for text type")
		}
	case KindImage:
		if m.MediaURL == nil || *m.MediaURL == "" {
			return nil, errors.New("mediaUrl required for image type")
		}
	default:
		return nil, fmt.Errorf("invalid message type %q", m.Kind)
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.Status == "" {
		m.Status = StatusSent
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.DedupeKey = dedupeKey(m)

	return &m, nil
}

// dedupeKey selects the idempotency key for insert-if-absent: the provider
// message id when present, otherwise a composite that makes reprocessing of
// the same payload file a no-op even when the provider supplied no id.
func dedupeKey(m Message) string {
	if m.ProviderMsgID != "" {
		return m.ProviderMsgID
	}
	return fmt.Sprintf("%s|%s|%d", m.ConversationID, m.Body, m.CreatedAt.UnixNano())
}
