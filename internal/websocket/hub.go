// Package websocket delivers one-way notification events (post likes)
// to connected users.
package websocket

import (
	"log/slog"
	"sync"

	"github.com/pixelpal/pixelpal-service/internal/types"
)

// Hub maintains the set of active clients, one per user id.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	notify chan *notification
}

type notification struct {
	userIDs []string
	event   *types.Event
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan *notification, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A user reconnecting replaces their old connection.
			if existing, ok := h.clients[client.userID]; ok {
				close(existing.send)
				slog.Info("Replaced existing WebSocket connection", slog.String("user_id", client.userID))
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			slog.Info("WebSocket client connected", slog.String("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			// A replaced connection's read loop still unregisters itself;
			// only remove the entry if it is this exact client, so a stale
			// unregister never touches the replacement.
			if h.clients[client.userID] == client {
				delete(h.clients, client.userID)
				close(client.send)
				slog.Info("WebSocket client disconnected", slog.String("user_id", client.userID))
			}
			h.mu.Unlock()

		case n := <-h.notify:
			h.deliver(n.userIDs, n.event)
		}
	}
}

// RegisterClient registers a new client
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// BroadcastToUsers sends an event to specific users
func (h *Hub) BroadcastToUsers(userIDs []string, event *types.Event) {
	select {
	case h.notify <- &notification{userIDs: userIDs, event: event}:
	default:
		slog.Warn("Notification channel is full, dropping event")
	}
}

// BroadcastToUser sends an event to a specific user
func (h *Hub) BroadcastToUser(userID string, event *types.Event) {
	h.BroadcastToUsers([]string{userID}, event)
}

func (h *Hub) deliver(userIDs []string, event *types.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		client, ok := h.clients[userID]
		if !ok {
			continue
		}
		if err := client.SendEvent(event); err != nil {
			slog.Error("Failed to send event to client",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			// Remove the client if sending fails
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
