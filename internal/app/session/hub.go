/*
Package session manages active websocket connections.

This file defines the Hub struct, the connection registry. It tracks every
Client by connection identifier and implements the outbound channel the
reaction layer sends responses through.
*/
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"gemhub/internal/pkg/logx"
)

// Hub tracks all active clients keyed by connection identifier.
type Hub struct {
	// clients maps connection identifier to the active Client.
	clients map[string]*Client

	// mu protects concurrent access to the clients map.
	mu sync.RWMutex

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		clients: make(map[string]*Client),
		logger:  hubLogger,
	}
}

// Register adds a client to the hub. Called once per connection, before the
// client's pumps start.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID()] = c
	h.mu.Unlock()

	h.logger.Info().Str("connection_id", c.ID()).Msg("Client registered.")
}

// unregister removes a client. A stale entry belonging to a different client
// instance is left alone.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.ID()]; ok && current == c {
		delete(h.clients, c.ID())
		h.logger.Info().Str("connection_id", c.ID()).Msg("Client unregistered.")
	}
}

// Send queues a payload for delivery to the given connection. Delivery is
// fire-and-forget: payloads for unknown connections are dropped, and a full
// send queue drops the payload rather than blocking the caller. Ordering is
// preserved per connection by the client's send queue.
func (h *Hub) Send(connectionID string, payload []byte) {
	h.mu.RLock()
	client, ok := h.clients[connectionID]
	h.mu.RUnlock()

	if !ok {
		h.logger.Warn().Str("connection_id", connectionID).Msg("Send to unknown connection dropped.")
		return
	}

	client.enqueue(payload)
}

// Shutdown closes every active connection and empties the hub.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
	}

	h.logger.Info().Int("closed", len(clients)).Msg("Hub shutdown complete.")
}
