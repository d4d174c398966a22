package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPublishReachesAllCurrentSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a := hub.Subscribe("a")
	b := hub.Subscribe("b")

	delivered := hub.Publish(EventMessageCreated, "payload")
	require.Equal(t, 2, delivered)

	// A late joiner never sees the earlier event.
	c := hub.Subscribe("c")
	require.Empty(t, drain(c.Events()))

	require.Len(t, drain(a.Events()), 1)
	require.Len(t, drain(b.Events()), 1)
}

func TestSubscriberCloseStopsDelivery(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a := hub.Subscribe("a")
	b := hub.Subscribe("b")
	a.Close()

	require.Equal(t, 1, hub.Publish(EventMessageUpdated, "x"))
	require.Len(t, drain(b.Events()), 1)

	_, open := <-a.Events()
	require.False(t, open)
}

func TestRelayTypingSkipsSender(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sender := hub.Subscribe("sender")
	other := hub.Subscribe("other")

	require.Equal(t, 1, hub.RelayTyping("111", "sender"))

	require.Empty(t, drain(sender.Events()))
	got := drain(other.Events())
	require.Len(t, got, 1)
	require.Equal(t, EventTyping, got[0].Type)
	require.Equal(t, TypingPayload{ConversationID: "111", Sender: "sender"}, got[0].Payload)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	dropped := 0
	hub.OnDrop(func() { dropped++ })
	sub := hub.Subscribe("slow")

	// Fill the buffer and then some; the overflow is dropped, never blocks.
	for i := 0; i < 70; i++ {
		hub.Publish(EventMessageCreated, i)
	}
	require.Equal(t, 6, dropped)
	require.Len(t, drain(sub.Events()), 64)
}
