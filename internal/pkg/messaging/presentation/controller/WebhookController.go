package controller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	cport "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/cache/port"
	qport "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/queue/port"
	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/task"
)

// WebhookController handles the provider webhook pair: the GET verification
// handshake and the POST event receiver. Received batches are acknowledged
// immediately and offloaded to the queue; the cache, when available, absorbs
// identical redeliveries before they even reach the queue.
type WebhookController struct {
	Q     qport.Client
	Cache cport.Cache // optional; nil disables the replay guard
}

func NewWebhookController(client qport.Client, cache cport.Cache) *WebhookController {
	return &WebhookController{Q: client, Cache: cache}
}

const seenTTL = 10 * time.Minute

// HandleVerify implements the provider's subscription handshake: echo the
// challenge when mode and token match.
func (h *WebhookController) HandleVerify() gin.HandlerFunc {
	verifyToken := os.Getenv("WEBHOOK_VERIFY_TOKEN")
	if verifyToken == "" {
		verifyToken = "verify_token_demo"
	}
	return func(c *gin.Context) {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && token == verifyToken {
			c.String(http.StatusOK, challenge)
			return
		}
		c.Status(http.StatusForbidden)
	}
}

// HandleReceive accepts a webhook batch, enqueues it and returns 200 so the
// provider stops redelivering.
func (h *WebhookController) HandleReceive() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil || len(raw) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		key := seenKey(raw)
		if !h.claim(ctx, key) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "duplicate": true})
			return
		}

		opts := qport.EnqueueOption{Queue: "webhook", MaxRetry: 20}
		if _, err := h.Q.Enqueue(ctx, qport.Task{Type: task.ProcessWebhookTaskType, Payload: raw}, opts); err != nil {
			h.release(ctx, key)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue webhook"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func seenKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	return "webhook:seen:" + hex.EncodeToString(sum[:])
}

// claim and release are best-effort: cache trouble never blocks ingestion,
// the store's insert-if-absent is the real dedup.
func (h *WebhookController) claim(ctx context.Context, key string) bool {
	if h.Cache == nil {
		return true
	}
	claimed, err := h.Cache.SetNX(ctx, key, "1", seenTTL)
	if err != nil {
		return true
	}
	return claimed
}

// release frees the claim so a retried delivery can pass after a failed
// enqueue.
func (h *WebhookController) release(ctx context.Context, key string) {
	if h.Cache == nil {
		return
	}
	_, _ = h.Cache.Del(ctx, key)
}
