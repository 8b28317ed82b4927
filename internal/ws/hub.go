package ws

import (
	"encoding/json"
	"sync"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var Connections = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ecogrow_ws_connections",
	Help: "Open notification websocket connections",
})

func init() {
	prometheus.MustRegister(Connections)
}

// Hub tracks live connections per user and fans notifications out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	Connections.Inc()
	logger.Debug("ws client registered", "user_id", c.UserID)
}

// Unregister removes c and closes its send channel. Calling it twice is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := set[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.Send)
	h.mu.Unlock()

	Connections.Dec()
	logger.Debug("ws client unregistered", "user_id", c.UserID)
}

// Count returns the number of live connections for userID.
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify queues n for every connection of userID. A client whose buffer is
// full misses the message; nothing is persisted.
func (h *Hub) Notify(userID string, n domain.Notification) {
	msg, err := json.Marshal(Envelope{Type: MsgNotification, Payload: n})
	if err != nil {
		logger.Error("ws: marshal notification", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws: send buffer full, dropping notification", "user_id", userID, "type", n.Type)
		}
	}
}
