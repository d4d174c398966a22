package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

// SendMessageController handles message creation (one controller per endpoint).
// Direction defaults to outbound; "in" is accepted for local testing.
type SendMessageController struct {
	UC *usecase.CreateMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool, hub usecase.Broadcaster) *SendMessageController {
	repo := repoAdapter.NewPgMessagingRepository(pool)
	return &SendMessageController{UC: usecase.NewCreateMessageUseCase(repo, hub)}
}

// sendMessageRequest is the DTO for the HTTP request body. Field names match
// the original client wire format.
type sendMessageRequest struct {
	WaID      string  `json:"wa_id" binding:"required"`
	Name      string  `json:"name"`
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	MediaURL  *string `json:"mediaUrl"`
	MediaMime *string `json:"mediaMime"`
	Caption   *string `json:"caption"`
	Direction string  `json:"direction"`
	ReplyTo   *string `json:"replyTo"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		direction := messaging.DirectionOut
		if req.Direction == string(messaging.DirectionIn) {
			direction = messaging.DirectionIn
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, _, err := h.UC.Execute(ctx, usecase.CreateMessageInput{
			ConversationID: req.WaID,
			SenderName:     req.Name,
			Direction:      direction,
			Kind:           messaging.Kind(req.Type),
			Body:           req.Text,
			MediaURL:       req.MediaURL,
			MediaMime:      req.MediaMime,
			Caption:        req.Caption,
			ReplyTo:        req.ReplyTo,
		})
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, msg)
	}
}
