package ws

import (
	"sync"

	"chiblets_lite/internal/logger"
)

// Hub fans game events out to every live connection of a user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "user_id", c.UserID, "connections", len(set))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Connections is the number of open sockets of userID.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish queues an event for userID. Slow clients drop events instead of
// blocking the caller.
func (h *Hub) Publish(userID int64, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients[userID]
	if len(set) == 0 {
		return
	}
	msg, err := encode(event, payload)
	if err != nil {
		logger.Error("ws encode failed", "event", event, "error", err)
		return
	}
	for c := range set {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping event", "user_id", userID, "event", event)
		}
	}
}
