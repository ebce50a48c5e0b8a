// File: internal/chat/hub.go
package chat

import (
	"sync"

	"github.com/bookmyseva/backend/internal/logging"
)

// Hub tracks connected clients and their room memberships. Rooms are
// named by identity (guest/user id) and by session storage id; a widget
// connection typically sits in both. Admin observers are the admin
// console connections; broadcasts destined for the console go only to
// them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connID -> client
	rooms   map[string]map[string]*Client // room -> connID -> client
	admins  map[string]*Client            // connID -> admin client

	log logging.Logger
}

func NewHub(log logging.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		admins:  make(map[string]*Client),
		log:     log,
	}
}

// Add registers a connected client. Admin connections also join the
// admin observer set.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ConnID] = c
	if c.IsAdmin {
		h.admins[c.ConnID] = c
	}
	h.log.Info("client connected", "connId", c.ConnID, "admin", c.IsAdmin)
}

// Remove unregisters a client and clears all its room memberships.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
	delete(h.admins, connID)
	for room, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.log.Info("client disconnected", "connId", connID)
}

func (h *Hub) Get(connID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	return c, ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// JoinRoom adds the client to a named room. Empty room names are ignored.
func (h *Hub) JoinRoom(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[c.ConnID] = c
}

// EmitToRoom sends an event to every member of a room. Undeliverable
// sends are logged and skipped.
func (h *Hub) EmitToRoom(room, event string, payload any) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for _, c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if err := c.Emit(event, payload); err != nil {
			h.log.Warn("room emit failed", "room", room, "event", event, "connId", c.ConnID, "error", err)
		}
	}
}

// EmitToAdmins broadcasts an event to the admin observer set only.
func (h *Hub) EmitToAdmins(event string, payload any) {
	h.mu.RLock()
	admins := make([]*Client, 0, len(h.admins))
	for _, c := range h.admins {
		admins = append(admins, c)
	}
	h.mu.RUnlock()

	for _, c := range admins {
		if err := c.Emit(event, payload); err != nil {
			h.log.Warn("admin emit failed", "event", event, "connId", c.ConnID, "error", err)
		}
	}
}

// CloseAll closes every connection. Called on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
	h.admins = make(map[string]*Client)
	h.rooms = make(map[string]map[string]*Client)
}
