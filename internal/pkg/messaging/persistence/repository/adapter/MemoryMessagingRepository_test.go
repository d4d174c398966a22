package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
)

func mustMessage(t *testing.T, m messaging.Message) messaging.Message {
	t.Helper()
	msg, err := messaging.NewMessage(m)
	require.NoError(t, err)
	return *msg
}

func TestCreateMessageInsertIfAbsent(t *testing.T) {
	repo := NewMemoryMessagingRepository()
	ctx := context.Background()

	first := mustMessage(t, messaging.Message{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "hello",
		ProviderMsgID:  "m1",
	})
	stored, created, err := repo.CreateMessage(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	// Same provider id with different content: first write wins, nothing overwritten.
	replay := mustMessage(t, messaging.Message{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "different body",
		ProviderMsgID:  "m1",
	})
	dup, created, err := repo.CreateMessage(ctx, replay)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, stored.ID, dup.ID)
	require.Equal(t, "hello", dup.Body)

	msgs, err := repo.ListMessagesByConversation(ctx, "111")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestUpdateMessageStatusLookupOrder(t *testing.T) {
	repo := NewMemoryMessagingRepository()
	ctx := context.Background()

	msg := mustMessage(t, messaging.Message{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "hello",
		ProviderMsgID:  "m1",
		ContextMsgID:   "ctx1",
	})
	_, _, err := repo.CreateMessage(ctx, msg)
	require.NoError(t, err)

	byPrimary, err := repo.UpdateMessageStatus(ctx, "m1", "", messaging.StatusRead)
	require.NoError(t, err)
	require.NotNil(t, byPrimary)
	require.Equal(t, messaging.StatusRead, byPrimary.Status)
	// Only status changed.
	require.Equal(t, msg.Body, byPrimary.Body)
	require.Equal(t, msg.CreatedAt, byPrimary.CreatedAt)

	bySecondary, err := repo.UpdateMessageStatus(ctx, "", "ctx1", messaging.StatusFailed)
	require.NoError(t, err)
	require.NotNil(t, bySecondary)
	require.Equal(t, messaging.StatusFailed, bySecondary.Status)

	missing, err := repo.UpdateMessageStatus(ctx, "nope", "", messaging.StatusRead)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateMessageStatusPicksEarliestCreated(t *testing.T) {
	repo := NewMemoryMessagingRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Later-created message inserted first; both share a context id while
	// keeping distinct dedupe keys (no provider id).
	later := mustMessage(t, messaging.Message{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "later",
		ContextMsgID:   "ctx1",
		CreatedAt:      base.Add(time.Hour),
	})
	_, _, err := repo.CreateMessage(ctx, later)
	require.NoError(t, err)

	earlier := mustMessage(t, messaging.Message{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "earlier",
		ContextMsgID:   "ctx1",
		CreatedAt:      base,
	})
	_, _, err = repo.CreateMessage(ctx, earlier)
	require.NoError(t, err)

	updated, err := repo.UpdateMessageStatus(ctx, "", "ctx1", messaging.StatusRead)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "earlier", updated.Body)

	msgs, err := repo.ListMessagesByConversation(ctx, "111")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, messaging.StatusRead, msgs[0].Status)
	require.Equal(t, later.Status, msgs[1].Status)
}

func TestConversationLedger(t *testing.T) {
	repo := NewMemoryMessagingRepository()
	ctx := context.Background()

	require.NoError(t, repo.TouchConversationInbound(ctx, "111", "Alice"))
	require.NoError(t, repo.TouchConversationInbound(ctx, "111", "Somebody Else"))

	summaries, err := repo.ListConversationSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 2, summaries[0].UnreadCount)
	// Display name is first-write-wins.
	require.Equal(t, "Alice", summaries[0].DisplayName)

	require.NoError(t, repo.ResetUnread(ctx, "111"))
	require.NoError(t, repo.TouchConversationOutbound(ctx, "111", "Alice"))

	summaries, err = repo.ListConversationSummaries(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, summaries[0].UnreadCount)
}

func TestListConversationSummariesOrdering(t *testing.T) {
	repo := NewMemoryMessagingRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// "old" has the earliest message, "fresh" the latest, "empty" none at all.
	for _, tc := range []struct {
		conv string
		at   time.Time
	}{
		{"old", base},
		{"fresh", base.Add(2 * time.Hour)},
		{"mid", base.Add(time.Hour)},
	} {
		m := mustMessage(t, messaging.Message{
			ConversationID: tc.conv,
			Direction:      messaging.DirectionIn,
			Body:           "hi " + tc.conv,
			CreatedAt:      tc.at,
		})
		_, _, err := repo.CreateMessage(ctx, m)
		require.NoError(t, err)
		require.NoError(t, repo.TouchConversationInbound(ctx, tc.conv, ""))
	}
	require.NoError(t, repo.TouchConversationOutbound(ctx, "empty", ""))

	summaries, err := repo.ListConversationSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	require.Equal(t, "fresh", summaries[0].ConversationID)
	require.Equal(t, "mid", summaries[1].ConversationID)
	require.Equal(t, "old", summaries[2].ConversationID)
	require.Equal(t, "empty", summaries[3].ConversationID)
	require.Nil(t, summaries[3].LastMessage)
	require.Equal(t, "hi fresh", summaries[0].LastMessage.Body)
}
