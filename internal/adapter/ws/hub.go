// Package ws implements the WebSocket hub that pushes content update
// notifications to connected preview sessions. Editors keep a browser
// tab open on the draft site; when the content store publishes, the tab
// is told which paths went stale and reloads.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/pagesmith/pagesmith/internal/domain/tenant"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Event types pushed to preview sessions.
const (
	EventContentUpdated = "content.updated"
)

// ContentUpdatedEvent is broadcast when a dataset's content changes.
// Paths lists the page paths known to be affected; empty means the
// whole dataset should be treated as stale.
type ContentUpdatedEvent struct {
	Dataset string   `json:"dataset"`
	Paths   []string `json:"paths,omitempty"`
}

// conn wraps a single WebSocket connection pinned to one dataset.
type conn struct {
	ws      *websocket.Conn
	cancel  context.CancelFunc
	dataset string
}

// Hub manages active preview connections grouped by dataset.
type Hub struct {
	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*conn]struct{}),
	}
}

// HandleWS upgrades the request to a WebSocket connection bound to the
// request's tenant dataset. The tenant middleware must run first; a
// request with no resolved tenant is rejected.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		http.Error(w, "unknown tenant", http.StatusNotFound)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin enforced by the security middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	c := &conn{ws: ws, cancel: cancel, dataset: tc.Dataset}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	slog.Info("preview session connected", "remote", r.RemoteAddr, "dataset", tc.Dataset)

	// Read loop to detect disconnects and consume pings.
	go func() {
		defer func() {
			h.remove(c)
			_ = ws.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a message to every connected session.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	h.send(ctx, msg, func(*conn) bool { return true })
}

// BroadcastToDataset sends a message only to sessions previewing the
// given dataset.
func (h *Hub) BroadcastToDataset(ctx context.Context, dataset string, msg Message) {
	h.send(ctx, msg, func(c *conn) bool { return c.dataset == dataset })
}

// NotifyContentUpdated marshals and pushes a content update event to the
// affected dataset's sessions.
func (h *Hub) NotifyContentUpdated(ctx context.Context, event ContentUpdatedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal ws event payload", "type", EventContentUpdated, "error", err)
		return
	}
	h.BroadcastToDataset(ctx, event.Dataset, Message{
		Type:    EventContentUpdated,
		Payload: json.RawMessage(data),
	})
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) send(ctx context.Context, msg Message, match func(*conn) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns {
		if !match(c) {
			continue
		}
		if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("websocket write failed", "error", err)
			go h.remove(c)
		}
	}
}

// CloseAll disconnects every session, used during server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		_ = c.ws.Close(websocket.StatusGoingAway, "server shutting down")
		c.cancel()
		delete(h.conns, c)
	}
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c]; ok {
		c.cancel()
		delete(h.conns, c)
		slog.Info("preview session disconnected", "dataset", c.dataset)
	}
}
