/*
Package session manages active websocket connections.

This file defines the Client struct, representing one active websocket
connection. It runs the gorilla read/write pumps, feeds inbound messages to
the dispatcher, and drains the per-connection send queue that preserves
outbound ordering.
*/
package session

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"gemhub/internal/pkg/ident"
	"gemhub/internal/pkg/logx"
)

const (
	// timeout duration for writing to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the per-connection outbound queue capacity.
	sendQueueSize = 256
)

// Dispatcher is the inbound side the client hands messages to.
type Dispatcher interface {
	// Dispatch processes one raw inbound message from the given connection.
	Dispatch(connectionID string, raw []byte)

	// Disconnect releases all state bound to a closed connection.
	Disconnect(connectionID string)
}

// Client represents one active websocket connection.
type Client struct {
	// id is the server-generated connection identifier.
	id string

	// hub is the connection registry this client belongs to.
	hub *Hub

	// conn is the underlying websocket connection.
	conn *websocket.Conn

	// dispatcher receives every inbound message and the disconnect event.
	dispatcher Dispatcher

	// send is the buffered outbound queue drained by WritePump.
	send chan []byte

	// sendMu serializes enqueue against closeSend so a payload is never sent
	// on a closed queue.
	sendMu sync.Mutex

	// closed marks the send queue as closed.
	closed bool

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client with a fresh connection identifier.
func NewClient(hub *Hub, conn *websocket.Conn, dispatcher Dispatcher) *Client {
	connectionID := ident.NewID().String()

	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("connection_id", connectionID).
		Logger()

	return &Client{
		id:         connectionID,
		hub:        hub,
		conn:       conn,
		dispatcher: dispatcher,
		send:       make(chan []byte, sendQueueSize),
		logger:     clientLogger,
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// ReadPump reads messages from the websocket connection and hands them to the
// dispatcher. It handles heartbeats (Pong) and performs cleanup when the
// connection closes.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.dispatcher.Dispatch(c.id, messageBytes)
	}
}

// cleanupOnDisconnect releases everything bound to the connection when
// ReadPump terminates: hub entry, registry state, send queue, socket.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.unregister(c)
	c.dispatcher.Disconnect(c.id)
	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes messages from the send queue to the websocket connection
// and keeps the heartbeat going.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued payload to the websocket.
// Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue places a payload on the send queue without blocking. A full queue
// drops the payload; a closed queue ignores it.
func (c *Client) enqueue(payload []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- payload:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping message")
	}
}

// closeSend closes the send queue exactly once, letting WritePump finish with
// a close frame.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}
