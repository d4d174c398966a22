package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/metrics"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/realtime"
	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// CreateMessageInput carries the data needed to record a message, whether it
// arrived from the provider (direction in) or was originated locally
// (direction out, the default).
type CreateMessageInput struct {
	ConversationID string
	SenderName     string
	Direction      messaging.Direction
	Kind           messaging.Kind
	Body           string
	MediaURL       *string
	MediaMime      *string
	Caption        *string
	ReplyTo        *string
	ProviderMsgID  string
	ContextMsgID   string
	Timestamp      time.Time
	Status         messaging.Status
}

// CreateMessageUseCase persists a message idempotently, keeps the
// conversation ledger in step, and publishes the created delta.
// One class per use case (own file).
type CreateMessageUseCase struct {
	Repo repository.MessagingRepository
	Hub  Broadcaster
}

func NewCreateMessageUseCase(repo repository.MessagingRepository, hub Broadcaster) *CreateMessageUseCase {
	return &CreateMessageUseCase{Repo: repo, Hub: hub}
}

// Execute validates, stores and fans out a message. A replayed create (same
// dedupe key) returns the previously stored record with created=false and
// performs no ledger update and no publish.
func (uc *CreateMessageUseCase) Execute(ctx context.Context, in CreateMessageInput) (*messaging.Message, bool, error) {
	if in.Direction == "" {
		in.Direction = messaging.DirectionOut
	}

	msg, err := messaging.NewMessage(messaging.Message{
		ConversationID: in.ConversationID,
		SenderName:     in.SenderName,
		Direction:      in.Direction,
		CreatedAt:      in.Timestamp,
		Status:         in.Status,
		Kind:           in.Kind,
		Body:           in.Body,
		MediaURL:       in.MediaURL,
		MediaMime:      in.MediaMime,
		Caption:        in.Caption,
		ReplyTo:        in.ReplyTo,
		ProviderMsgID:  in.ProviderMsgID,
		ContextMsgID:   in.ContextMsgID,
	})
	if err != nil {
		return nil, false, err
	}

	stored, created, err := uc.Repo.CreateMessage(ctx, *msg)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !created {
		metrics.MessagesDeduplicated.Inc()
		return stored, false, nil
	}

	// Ledger side effect: unread counter moves only for inbound messages.
	if stored.Direction == messaging.DirectionIn {
		err = uc.Repo.TouchConversationInbound(ctx, stored.ConversationID, stored.SenderName)
	} else {
		err = uc.Repo.TouchConversationOutbound(ctx, stored.ConversationID, stored.SenderName)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	metrics.MessagesStored.WithLabelValues(string(stored.Direction), string(stored.Kind)).Inc()
	if uc.Hub != nil {
		uc.Hub.Publish(realtime.EventMessageCreated, stored)
		metrics.DeltasPublished.WithLabelValues(realtime.EventMessageCreated).Inc()
	}
	return stored, true, nil
}
