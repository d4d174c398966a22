package adapter

import (
	"context"
	"sort"
	"sync"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// MemoryMessagingRepository is an in-memory implementation of the messaging
// repository. It backs the test suite and local development without Postgres.
// A single mutex around each operation gives the same atomicity the SQL
// adapter gets from ON CONFLICT clauses.
type MemoryMessagingRepository struct {
	mu            sync.Mutex
	byDedupeKey   map[string]*messaging.Message
	byID          map[string]*messaging.Message
	order         []string // message ids in insertion order
	conversations map[string]*messaging.Conversation
}

func NewMemoryMessagingRepository() *MemoryMessagingRepository {
	return &MemoryMessagingRepository{
		byDedupeKey:   make(map[string]*messaging.Message),
		byID:          make(map[string]*messaging.Message),
		conversations: make(map[string]*messaging.Conversation),
	}
}

// Ensure interface is satisfied
var _ repository.MessagingRepository = (*MemoryMessagingRepository)(nil)

func (r *MemoryMessagingRepository) CreateMessage(_ context.Context, m messaging.Message) (*messaging.Message, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byDedupeKey[m.DedupeKey]; ok {
		out := *existing
		return &out, false, nil
	}

	stored := m
	r.byDedupeKey[m.DedupeKey] = &stored
	r.byID[m.ID] = &stored
	r.order = append(r.order, m.ID)

	out := stored
	return &out, true, nil
}

func (r *MemoryMessagingRepository) GetMessage(_ context.Context, id string) (*messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := *m
	return &out, nil
}

func (r *MemoryMessagingRepository) ListMessagesByConversation(_ context.Context, conversationID string) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []messaging.Message
	for _, id := range r.order {
		if m := r.byID[id]; m.ConversationID == conversationID {
			msgs = append(msgs, *m)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *MemoryMessagingRepository) UpdateMessageStatus(_ context.Context, providerMsgID, contextMsgID string, status messaging.Status) (*messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Earliest created_at wins among matches, mirroring the SQL adapter.
	var target *messaging.Message
	for _, id := range r.order {
		m := r.byID[id]
		matched := false
		if providerMsgID != "" {
			matched = m.ProviderMsgID == providerMsgID
		} else if contextMsgID != "" {
			matched = m.ContextMsgID == contextMsgID
		}
		if matched && (target == nil || m.CreatedAt.Before(target.CreatedAt)) {
			target = m
		}
	}
	if target == nil {
		return nil, nil
	}
	target.Status = status
	out := *target
	return &out, nil
}

func (r *MemoryMessagingRepository) TouchConversationInbound(_ context.Context, conversationID, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.conversations[conversationID]; ok {
		c.UnreadCount++
		return nil
	}
	r.conversations[conversationID] = &messaging.Conversation{
		ConversationID: conversationID,
		DisplayName:    displayName,
		UnreadCount:    1,
	}
	return nil
}

func (r *MemoryMessagingRepository) TouchConversationOutbound(_ context.Context, conversationID, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[conversationID]; ok {
		return nil
	}
	r.conversations[conversationID] = &messaging.Conversation{
		ConversationID: conversationID,
		DisplayName:    displayName,
	}
	return nil
}

func (r *MemoryMessagingRepository) ResetUnread(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conversations[conversationID]; ok {
		c.UnreadCount = 0
	}
	return nil
}

func (r *MemoryMessagingRepository) ListConversationSummaries(_ context.Context) ([]messaging.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]messaging.ConversationSummary, 0, len(r.conversations))
	for _, c := range r.conversations {
		s := messaging.ConversationSummary{
			ConversationID: c.ConversationID,
			DisplayName:    c.DisplayName,
			UnreadCount:    c.UnreadCount,
		}
		for _, id := range r.order {
			m := r.byID[id]
			if m.ConversationID != c.ConversationID {
				continue
			}
			if s.LastMessage == nil || !m.CreatedAt.Before(s.LastMessage.CreatedAt) {
				copied := *m
				s.LastMessage = &copied
			}
		}
		summaries = append(summaries, s)
	}

	// Most recent message first; conversations with no messages sort last.
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessage, summaries[j].LastMessage
		switch {
		case a == nil && b == nil:
			return summaries[i].ConversationID < summaries[j].ConversationID
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return summaries, nil
}
