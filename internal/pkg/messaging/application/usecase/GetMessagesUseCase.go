package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// GetMessagesInput wraps the conversation identifier to fetch its history.
type GetMessagesInput struct {
	ConversationID string
}

// GetMessagesUseCase returns the full message history of a conversation,
// oldest first.
// One class per use case (own file).
type GetMessagesUseCase struct {
	Repo repository.MessagingRepository
}

func NewGetMessagesUseCase(repo repository.MessagingRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]messaging.Message, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("wa_id is required")
	}
	msgs, err := uc.Repo.ListMessagesByConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
