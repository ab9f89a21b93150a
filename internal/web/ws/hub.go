// Package ws is the WebSocket transport: connection lifecycle, event
// envelope encoding, and the fan-out hub the coordinator pushes through.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/random"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

const (
	connIDLength   = 16
	connIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Envelope is the wire frame for every event in both directions
type Envelope struct {
	Event   model.EventType `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler consumes decoded inbound frames. An error return is reported back
// to the originating connection only; other connections never see it.
type Handler interface {
	HandleEvent(ctx context.Context, connID model.ConnectionID, event model.EventType, payload json.RawMessage) error
	HandleDisconnect(ctx context.Context, connID model.ConnectionID)
}

// Hub tracks live connections and routes events between them and the
// handler. It implements the push interfaces the services expect.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client

	handler  Handler
	reason   func(error) string
	random   random.Random
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a Hub with no handler attached. SetHandler must be called
// before the first connection is served.
func NewHub(rnd random.Random, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnectionID]*Client),
		reason:  Reason,
		random:  rnd,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients are served from anywhere
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws-hub")),
	}
}

// SetHandler attaches the inbound event handler. Separate from construction
// because the handler and the hub reference each other.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeWS upgrades an HTTP request into a tracked WebSocket client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		id:   model.ConnectionID(h.random.String(connIDLength, connIDAlphabet)),
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	h.logger.Info("client connected", slog.String("conn_id", string(client.id)))

	go client.writePump()
	go client.readPump()
}

// ConnectionCount returns the number of live connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo delivers one event to one connection. Unknown connections and full
// send queues drop the event; delivery is best-effort.
func (h *Hub) SendTo(connID model.ConnectionID, event model.EventType, payload any) {
	frame, err := h.encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[connID]; ok {
		h.enqueue(client, frame)
	}
}

// Broadcast delivers one event to every live connection
func (h *Hub) Broadcast(event model.EventType, payload any) {
	frame, err := h.encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		h.enqueue(client, frame)
	}
}

func (h *Hub) encode(event model.EventType, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}

// enqueue pushes a frame onto a client's send queue without blocking. A
// full queue means the client has stopped reading; drop and log. Callers
// must hold h.mu: the send channel is closed under the write lock, so
// holding the read lock here rules out a send on a closed channel.
func (h *Hub) enqueue(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		h.logger.Warn("send queue full, dropping event",
			slog.String("conn_id", string(client.id)))
	}
}

// dispatch decodes an inbound frame and runs it through the handler.
// Handler errors go back to the sender as an error event.
func (h *Hub) dispatch(connID model.ConnectionID, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.SendTo(connID, model.EventError, model.ErrorPayload{Reason: "Malformed message"})
		return
	}

	if err := h.handler.HandleEvent(context.Background(), connID, env.Event, env.Payload); err != nil {
		h.SendTo(connID, model.EventError, model.ErrorPayload{Reason: h.reason(err)})
	}
}

// unregister drops a client from the hub and runs disconnect cleanup.
// Idempotent: the pumps both close the connection, but cleanup runs once.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.id]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	// Closed under the write lock so concurrent sends, which enqueue
	// under the read lock, can never hit a closed channel.
	close(client.send)
	h.mu.Unlock()

	h.logger.Info("client disconnected", slog.String("conn_id", string(client.id)))
	h.handler.HandleDisconnect(context.Background(), client.id)
}
