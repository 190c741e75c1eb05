package realtime

import (
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	UserID() string
	Send(message []byte) bool
	Close()
}

// Hub maintains the group-chat rooms: an explicit registry keyed by group id
// mapping to the set of connections currently joined to that room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{
			rooms: make(map[string]map[Client]struct{}),
		}
	})
	return hubInstance
}

// Join adds a client to a group room.
func (h *Hub) Join(groupID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[groupID]; !ok {
		h.rooms[groupID] = make(map[Client]struct{})
	}
	h.rooms[groupID][client] = struct{}{}
}

// Leave removes a client from a group room; empty rooms are cleaned up.
func (h *Hub) Leave(groupID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[groupID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, groupID)
		}
	}
}

// LeaveAll removes a client from every room it joined. Called on disconnect.
func (h *Hub) LeaveAll(client Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var left []string
	for groupID, clients := range h.rooms {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			left = append(left, groupID)
			if len(clients) == 0 {
				delete(h.rooms, groupID)
			}
		}
	}
	return left
}

// Broadcast sends a message to every client in a group room, including the
// sender. The server, not the client, decides canonical message order.
func (h *Hub) Broadcast(groupID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[groupID] {
		// a failed write is the handler's problem; it cleans up on its side
		c.Send(message)
	}
}

// BroadcastExcept sends a message to every client in a room except one.
// Used for typing indicators and join/leave notices.
func (h *Hub) BroadcastExcept(groupID string, except Client, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[groupID] {
		if c == except {
			continue
		}
		c.Send(message)
	}
}

// RoomSize returns how many clients are joined to a room.
func (h *Hub) RoomSize(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[groupID])
}
