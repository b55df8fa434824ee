package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/thereayou/relyexchange/internal/middleware"
	"github.com/thereayou/relyexchange/internal/notify"
)

// WebSocketHandler upgrades authenticated requests into notification streams.
type WebSocketHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *notify.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict origins once the web client domain is fixed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := notify.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
