package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

func TestUpdateStatusChangesOnlyStatus(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	hub := &publishRecorder{}
	create := NewCreateMessageUseCase(repo, hub)
	status := NewUpdateStatusUseCase(repo, hub)
	ctx := context.Background()

	stored, _, err := create.Execute(ctx, CreateMessageInput{
		ConversationID: "111",
		SenderName:     "Alice",
		Direction:      messaging.DirectionIn,
		Status:         messaging.StatusDelivered,
		Body:           "hello",
		ProviderMsgID:  "m1",
		ContextMsgID:   "ctx1",
	})
	require.NoError(t, err)

	updated, err := status.Execute(ctx, UpdateStatusInput{ProviderMsgID: "m1", Status: messaging.StatusRead})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, messaging.StatusRead, updated.Status)

	// Everything except status is untouched.
	before, after := *stored, *updated
	before.Status, after.Status = "", ""
	require.Equal(t, before, after)

	require.Len(t, hub.ofType("message-updated"), 1)
}

func TestUpdateStatusNoMatchIsSoft(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	hub := &publishRecorder{}
	status := NewUpdateStatusUseCase(repo, hub)
	ctx := context.Background()

	updated, err := status.Execute(ctx, UpdateStatusInput{ProviderMsgID: "ghost", Status: messaging.StatusRead})
	require.NoError(t, err)
	require.Nil(t, updated)
	require.Empty(t, hub.events)
}

func TestUpdateStatusValidation(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	status := NewUpdateStatusUseCase(repo, &publishRecorder{})
	ctx := context.Background()

	_, err := status.Execute(ctx, UpdateStatusInput{ProviderMsgID: "m1"})
	require.Error(t, err)

	_, err = status.Execute(ctx, UpdateStatusInput{Status: messaging.StatusRead})
	require.Error(t, err)
}

func TestUpdateStatusOverwriteIsNotMonotonic(t *testing.T) {
	repo := repoAdapter.NewMemoryMessagingRepository()
	hub := &publishRecorder{}
	create := NewCreateMessageUseCase(repo, hub)
	status := NewUpdateStatusUseCase(repo, hub)
	ctx := context.Background()

	_, _, err := create.Execute(ctx, CreateMessageInput{
		ConversationID: "111",
		Direction:      messaging.DirectionIn,
		Body:           "hello",
		ProviderMsgID:  "m1",
	})
	require.NoError(t, err)

	_, err = status.Execute(ctx, UpdateStatusInput{ProviderMsgID: "m1", Status: messaging.StatusRead})
	require.NoError(t, err)

	// A late-arriving "sent" replaces "read"; no ordering guard exists.
	updated, err := status.Execute(ctx, UpdateStatusInput{ProviderMsgID: "m1", Status: messaging.StatusSent})
	require.NoError(t, err)
	require.Equal(t, messaging.StatusSent, updated.Status)
}
