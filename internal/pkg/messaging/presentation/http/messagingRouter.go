package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cport "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/cache/port"
	qport "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/queue/port"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/realtime"
	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/presentation/controller"
)

// RegisterRoutes mounts the messaging endpoints. It constructs per-endpoint
// controllers and binds them directly to routes.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, qclient qport.Client, cache cport.Cache, hub *realtime.Hub) {
	webhookCtl := controller.NewWebhookController(qclient, cache)
	sendMsgCtl := controller.NewSendMessageController(pool, hub)
	getMsgsCtl := controller.NewGetMessagesController(pool)
	listChatsCtl := controller.NewListChatsController(pool)
	markReadCtl := controller.NewMarkReadController(pool)
	statusCtl := controller.NewUpdateStatusController(pool, hub)
	socketCtl := controller.NewChatSocketController(hub)

	// Provider webhook pair: verification handshake + event receiver
	r.GET("/webhook", webhookCtl.HandleVerify())
	r.POST("/webhook", webhookCtl.HandleReceive())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/chats", listChatsCtl.Handle())
	api.PUT("/chats/:waId/read", markReadCtl.Handle())
	api.GET("/messages/:waId", getMsgsCtl.Handle())
	api.POST("/messages", sendMsgCtl.Handle())
	api.PUT("/status", statusCtl.Handle())
	api.GET("/ws", socketCtl.Handle())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
