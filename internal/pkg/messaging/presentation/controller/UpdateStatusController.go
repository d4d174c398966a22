package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/usecase"
	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

// UpdateStatusController reconciles a delivery status onto a stored message
// (one controller per endpoint). A miss is a soft outcome, not an error.
type UpdateStatusController struct {
	UC *usecase.UpdateStatusUseCase
}

func NewUpdateStatusController(pool *pgxpool.Pool, hub usecase.Broadcaster) *UpdateStatusController {
	repo := repoAdapter.NewPgMessagingRepository(pool)
	return &UpdateStatusController{UC: usecase.NewUpdateStatusUseCase(repo, hub)}
}

type updateStatusRequest struct {
	ID        string `json:"id"`
	MetaMsgID string `json:"meta_msg_id"`
	Status    string `json:"status"`
}

func (h *UpdateStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.UC.Execute(ctx, usecase.UpdateStatusInput{
			ProviderMsgID: req.ID,
			ContextMsgID:  req.MetaMsgID,
			Status:        messaging.Status(req.Status),
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "updated": updated})
	}
}
