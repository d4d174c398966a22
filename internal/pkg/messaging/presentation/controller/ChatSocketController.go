package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/realtime"
)

// ChatSocketController handles the websocket endpoint for realtime deltas.
// Each connection gets a hub subscription scoped to its lifetime: events
// published while connected are delivered, nothing before, nothing after.
// Clients reconcile gaps through the list endpoints.
type ChatSocketController struct {
	hub *realtime.Hub
}

func NewChatSocketController(hub *realtime.Hub) *ChatSocketController {
	return &ChatSocketController{hub: hub}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and relays frames until the
// client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.Query("client_id")
		if clientID == "" {
			clientID = uuid.NewString()
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing more to do.
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()

		sub := ctl.hub.Subscribe(clientID)
		defer func() {
			sub.Close()
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		// Bridge hub deliveries onto the socket. Ends when the subscription
		// channel is closed.
		go func() {
			for ev := range sub.Events() {
				if err := conn.SendJSON(ev); err != nil {
					return
				}
			}
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		_ = conn.SendJSON(ackFrame{Type: "connected", ClientID: clientID})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				// Normal closures and read errors end the session alike.
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "typing":
				if frame.ConversationID == "" {
					ctl.replyError(conn, "bad_request", "conversation_id is required")
					continue
				}
				// Pure relay to everyone but the sender; no state kept.
				ctl.hub.RelayTyping(frame.ConversationID, clientID)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	_ = conn.SendJSON(errorFrame{Type: "error", Code: code, Error: message})
}
