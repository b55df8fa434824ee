package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	// Clients only send pongs, so inbound frames stay small.
	maxMessageSize = 4 * 1024

	sendBuffer = 256
)

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		Hub:    hub,
	}
}

// ReadPump consumes client frames until the connection drops. Notifications
// are one-way, so anything other than a pong is answered with an error.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var evt Event
		if err := c.Conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket read failed", "client_id", c.ID, "error", err)
			}
			return
		}

		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		if evt.Type != TypePong {
			c.SendError("notifications are read-only")
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendError queues an error frame; it is dropped when the queue is full.
func (c *Client) SendError(errorMsg string) {
	data, err := encode(TypeError, map[string]string{"error": errorMsg})
	if err != nil {
		return
	}
	_ = c.enqueue(data)
}

func (c *Client) enqueue(message []byte) error {
	select {
	case c.Send <- message:
		return nil
	default:
		return ErrClientQueueFull
	}
}
