package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gochat/pkg/presence"
)

// OnlineUsersEvent is pushed to every open connection each time a user
// connects or disconnects. The payload is the full current online set, not a
// diff, so a peer that misses one broadcast self-corrects on the next.
const OnlineUsersEvent = "getOnlineUsers"

type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub owns the presence registry and every open realtime connection. The
// claimed userId arrives as handshake metadata and is trusted as-is: the
// realtime channel does not re-verify the session token, so presence data
// must not be used for authorization.
type Hub struct {
	registry *presence.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client // connection id -> client
}

func New(registry *presence.Registry, clientOrigin string, logger *slog.Logger) *Hub {
	return &Hub{
		registry: registry,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == clientOrigin
			},
		},
		clients: make(map[string]*Client),
	}
}

// ServeWS upgrades the connection and drives its whole lifecycle: register
// and broadcast on open, unregister and broadcast on close. A handshake
// without a userId still gets broadcasts but never registers, so it can
// never misrepresent anyone as online.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade", "error", err)
		return
	}

	client := &Client{
		UserID: userID,
		ID:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.addClient(client)
	if userID != "" {
		h.registry.Register(userID, client.ID)
		h.logger.Info("user connected", "user", userID, "conn", client.ID)
		h.broadcastOnline()
	}

	go client.writePump()
	client.readPump()

	h.removeClient(client)
	if userID != "" {
		offline := h.registry.Unregister(userID, client.ID)
		h.logger.Info("user disconnected", "user", userID, "conn", client.ID, "offline", offline)
		h.broadcastOnline()
	}
}

// SendTo pushes an event to userID's primary connection. Fire-and-forget:
// false means the user had no reachable connection and the event is dropped.
func (h *Hub) SendTo(userID, event string, payload any) bool {
	connID, ok := h.registry.Primary(userID)
	if !ok {
		return false
	}

	data, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("event marshal", "event", event, "error", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return false
	}
	return h.push(client, data)
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// removeClient deletes the client and closes its send channel under the same
// lock broadcasts read under, so no send can race the close.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
}

func (h *Hub) broadcastOnline() {
	data, err := json.Marshal(Event{Event: OnlineUsersEvent, Payload: h.registry.Snapshot()})
	if err != nil {
		h.logger.Error("online snapshot marshal", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		h.push(client, data)
	}
}

// push is non-blocking: a peer whose send buffer is full is considered dead
// and its transport is closed; delivery is never retried.
func (h *Hub) push(c *Client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		h.logger.Warn("dropping unresponsive peer", "user", c.UserID, "conn", c.ID)
		go c.conn.Close()
		return false
	}
}
