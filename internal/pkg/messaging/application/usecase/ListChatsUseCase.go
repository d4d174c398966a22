package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// ListChatsUseCase returns the conversation summaries for the chat list,
// most recently active first. Previews are read fresh from the store on
// every call, never cached.
// One class per use case (own file).
type ListChatsUseCase struct {
	Repo repository.MessagingRepository
}

func NewListChatsUseCase(repo repository.MessagingRepository) *ListChatsUseCase {
	return &ListChatsUseCase{Repo: repo}
}

func (uc *ListChatsUseCase) Execute(ctx context.Context) ([]messaging.ConversationSummary, error) {
	summaries, err := uc.Repo.ListConversationSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return summaries, nil
}
