package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thereayou/relyexchange/internal/metrics"
)

// EventType names a message pushed to clients.
type EventType string

const (
	TypePing  EventType = "ping"
	TypePong  EventType = "pong"
	TypeError EventType = "error"
)

type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

// Hub tracks live connections per user and fans events out to them.
type Hub struct {
	clients map[uuid.UUID]*Client

	// One user may hold several connections.
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger.With("component", "notify.Hub"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
	}
	h.userClients = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	h.logger.Info("client registered", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	h.logger.Info("client unregistered", "client_id", client.ID, "user_id", client.UserID)
}

// Notify queues an event for every connection of userID. Delivery is best
// effort: offline users and full queues drop the event.
func (h *Hub) Notify(userID uuid.UUID, kind string, payload interface{}) {
	data, err := encode(EventType(kind), payload)
	if err != nil {
		h.logger.Error("encode event", "type", kind, "error", err)
		return
	}
	if h.SendToUser(userID, data) > 0 {
		metrics.NotificationsSent.WithLabelValues(kind).Inc()
	}
}

// SendToUser returns the number of connections the message was queued on.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.userClients[userID] {
		if err := client.enqueue(message); err != nil {
			h.logger.Warn("notification dropped", "client_id", client.ID, "error", err)
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) ping() {
	data, err := encode(TypePing, nil)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		_ = client.enqueue(data)
	}
}

func (h *Hub) OnlineUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}

func encode(kind EventType, payload interface{}) ([]byte, error) {
	evt := Event{Type: kind, Timestamp: time.Now()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		evt.Data = data
	}
	return json.Marshal(evt)
}
