// Package realtime carries best-effort live delivery of notifications. The
// durable record lives in the notification store; nothing here is allowed to
// fail a scheduling mutation.
package realtime

import (
	"sync"
)

// Client represents a single live connection belonging to one recipient. A
// recipient may hold several concurrent connections (multiple tabs, devices).
type Client struct {
	Key  string // recipient key, the account email
	Send chan []byte
}

// Hub tracks live connections per recipient key. All operations are
// thread-safe via sync.RWMutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // recipient key -> set of clients
	total   int
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

// Register adds a client under its recipient key.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Key] == nil {
		h.clients[client.Key] = make(map[*Client]struct{})
	}
	h.clients[client.Key][client] = struct{}{}
	h.total++
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.Key]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}

	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.Key)
	}
	h.total--
	close(client.Send)
}

// Deliver hands the payload to every connection of the recipient. A recipient
// with no connections is not an error; a client whose buffer is full is
// skipped rather than blocked on. Returns how many connections accepted the
// payload.
func (h *Hub) Deliver(recipientKey string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients[recipientKey] {
		select {
		case client.Send <- payload:
			delivered++
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
	return delivered
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// RecipientCount returns the number of connections held by one recipient.
func (h *Hub) RecipientCount(recipientKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[recipientKey])
}
