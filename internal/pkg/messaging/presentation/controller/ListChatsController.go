package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/usecase"
	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

// ListChatsController returns conversation summaries for the chat list
// (one controller per endpoint).
type ListChatsController struct {
	UC *usecase.ListChatsUseCase
}

func NewListChatsController(pool *pgxpool.Pool) *ListChatsController {
	repo := repoAdapter.NewPgMessagingRepository(pool)
	return &ListChatsController{UC: usecase.NewListChatsUseCase(repo)}
}

func (h *ListChatsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if summaries == nil {
			summaries = []messaging.ConversationSummary{}
		}
		c.JSON(http.StatusOK, summaries)
	}
}
