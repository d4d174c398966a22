package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

// publishRecorder captures hub publishes for assertions across the package's
// use case tests.
type publishRecorder struct {
	events []recordedEvent
}

type recordedEvent struct {
	Type    string
	Payload any
}

func (r *publishRecorder) Publish(eventType string, payload any) int {
	r.events = append(r.events, recordedEvent{Type: eventType, Payload: payload})
	return 1
}

func (r *publishRecorder) ofType(eventType string) []recordedEvent {
	var out []recordedEvent
	for _, ev := range r.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestCreateMessageUnreadFlow(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	hub := &publishRecorder{}
	create := NewCreateMessageUseCase(repo, hub)
	markRead := NewMarkReadUseCase(repo)
	listChats := NewListChatsUseCase(repo)
	ctx := context.Background()

	unread := func() int {
		t.Helper()
		summaries, err := listChats.Execute(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		return summaries[0].UnreadCount
	}

	_, created, err := create.Execute(ctx, CreateMessageInput{
		ConversationID: "919999999999",
		SenderName:     "Ravi",
		Direction:      messaging.DirectionIn,
		Body:           "first",
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 1, unread())

	_, _, err = create.Execute(ctx, CreateMessageInput{
		ConversationID: "919999999999",
		Direction:      messaging.DirectionIn,
		Body:           "second",
	})
	require.NoError(t, err)
	require.Equal(t, 2, unread())

	require.NoError(t, markRead.Execute(ctx, MarkReadInput{ConversationID: "919999999999"}))
	require.Equal(t, 0, unread())

	// Outbound traffic never moves the counter.
	_, _, err = create.Execute(ctx, CreateMessageInput{
		ConversationID: "919999999999",
		Body:           "reply",
	})
	require.NoError(t, err)
	require.Equal(t, 0, unread())
}

func TestCreateMessageValidationRejects(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	create := NewCreateMessageUseCase(repo, &publishRecorder{})
	ctx := context.Background()

	_, _, err := create.Execute(ctx, CreateMessageInput{Body: "no conversation"})
	require.Error(t, err)

	_, _, err = create.Execute(ctx, CreateMessageInput{ConversationID: "111", Kind: messaging.KindText})
	require.Error(t, err)

	_, _, err = create.Execute(ctx, CreateMessageInput{ConversationID: "111", Kind: messaging.KindImage})
	require.Error(t, err)

	// Nothing was stored or published along the way.
	summaries, err := NewListChatsUseCase(repo).Execute(ctx)
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestCreateMessageReplaySuppressesSideEffects(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	hub := &publishRecorder{}
	create := NewCreateMessageUseCase(repo, hub)
	ctx := context.Background()

	in := CreateMessageInput{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "hello",
		ProviderMsgID:  "m1",
	}

	first, created, err := create.Execute(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	in.Body = "attempted overwrite"
	second, created, err := create.Execute(ctx, in)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "hello", second.Body)

	// One publish, one unread increment.
	require.Len(t, hub.ofType("message-created"), 1)
	summaries, err := NewListChatsUseCase(repo).Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, summaries[0].UnreadCount)
}
