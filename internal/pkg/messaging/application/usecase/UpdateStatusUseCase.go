package usecase

import (
	"context"
	"fmt"

	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/metrics"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/realtime"
	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// UpdateStatusInput identifies a stored message by one of its provider
// correlation keys and the status label to apply.
type UpdateStatusInput struct {
	ProviderMsgID string
	ContextMsgID  string
	Status        messaging.Status
}

// UpdateStatusUseCase reconciles an asynchronous status event onto a stored
// message. Status is overwritten unconditionally: the provider gives no
// ordering guarantee, so no monotonic guard is applied and a late "sent" can
// replace an earlier "read".
// One class per use case (own file).
type UpdateStatusUseCase struct {
	Repo repository.MessagingRepository
	Hub  Broadcaster
}

func NewUpdateStatusUseCase(repo repository.MessagingRepository, hub Broadcaster) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{Repo: repo, Hub: hub}
}

// Execute applies the status and publishes the updated record. A lookup miss
// is a soft outcome: (nil, nil), no new record, no publish.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, in UpdateStatusInput) (*messaging.Message, error) {
	if in.Status == "" {
		return nil, fmt.Errorf("status is required")
	}
	if in.ProviderMsgID == "" && in.ContextMsgID == "" {
		return nil, fmt.Errorf("id or meta_msg_id is required")
	}

	updated, err := uc.Repo.UpdateMessageStatus(ctx, in.ProviderMsgID, in.ContextMsgID, in.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if updated == nil {
		metrics.StatusesUnmatched.Inc()
		return nil, nil
	}

	metrics.StatusesApplied.Inc()
	if uc.Hub != nil {
		uc.Hub.Publish(realtime.EventMessageUpdated, updated)
		metrics.DeltasPublished.WithLabelValues(realtime.EventMessageUpdated).Inc()
	}
	return updated, nil
}
