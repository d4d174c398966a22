package usecase

import (
	"context"
	"fmt"

	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// MarkReadInput wraps the conversation to acknowledge.
type MarkReadInput struct {
	ConversationID string
}

// MarkReadUseCase zeroes the unread counter. The write is unconditional:
// an inbound message racing with it can legitimately leave the counter
// non-zero immediately afterwards, which is accepted.
// One class per use case (own file).
type MarkReadUseCase struct {
	Repo repository.MessagingRepository
}

func NewMarkReadUseCase(repo repository.MessagingRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	if in.ConversationID == "" {
		return fmt.Errorf("wa_id is required")
	}
	if err := uc.Repo.ResetUnread(ctx, in.ConversationID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
