package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Event names on the realtime channel.
const (
	EventMessageCreated = "message-created"
	EventMessageUpdated = "message-updated"
	EventTyping         = "typing"
)

// Event is one delta frame on the realtime channel.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// TypingPayload is the body of a typing event. It carries no server-side
// state; receivers apply their own short expiry since no "stopped typing"
// event is guaranteed.
type TypingPayload struct {
	ConversationID string `json:"conversation_id"`
	Sender         string `json:"sender,omitempty"`
}

// Subscriber is a scoped handle on the hub: it receives every event published
// after Subscribe until Close. Missed events are never replayed; late joiners
// reconcile through the list endpoints instead.
type Subscriber struct {
	ID     string
	Handle string

	hub *Hub
	ch  chan Event
}

// Events returns the channel the hub delivers on. It is closed by Close.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close unsubscribes and releases the event channel.
func (s *Subscriber) Close() {
	s.hub.unsubscribe(s.ID)
}

// Hub fans out deltas to every connected subscriber. Delivery is best-effort
// and at-most-once: a subscriber whose buffer is full has that event dropped,
// with no retry and no acknowledgment.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	closed      bool

	// onDrop, when set, observes dropped deliveries (wired to metrics).
	onDrop func()
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]*Subscriber)}
}

// OnDrop registers a callback invoked once per dropped delivery.
func (h *Hub) OnDrop(fn func()) {
	h.mu.Lock()
	h.onDrop = fn
	h.mu.Unlock()
}

// Subscribe registers a new subscriber. handle identifies the peer for
// typing-relay exclusion; it does not need to be unique.
func (h *Hub) Subscribe(handle string) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.NewString(),
		Handle: handle,
		hub:    h,
		ch:     make(chan Event, 64),
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub
	}
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

// Publish delivers the event to all current subscribers and reports how many
// accepted it.
func (h *Hub) Publish(eventType string, payload any) int {
	return h.fanOut(Event{Type: eventType, Payload: payload}, "")
}

// RelayTyping broadcasts a typing signal to every subscriber except the
// sender. Pure relay: nothing is stored.
func (h *Hub) RelayTyping(conversationID, senderHandle string) int {
	ev := Event{Type: EventTyping, Payload: TypingPayload{ConversationID: conversationID, Sender: senderHandle}}
	return h.fanOut(ev, senderHandle)
}

// Close drops all subscribers and closes their channels.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*Subscriber)
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
	}
}

func (h *Hub) fanOut(ev Event, excludeHandle string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subscribers {
		if excludeHandle != "" && sub.Handle == excludeHandle {
			continue
		}
		select {
		case sub.ch <- ev:
			delivered++
		default:
			// Slow subscriber: drop this delta rather than block the writer.
			if h.onDrop != nil {
				h.onDrop()
			}
		}
	}
	return delivered
}

func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}
