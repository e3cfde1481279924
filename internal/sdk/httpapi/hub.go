package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/events"
)

// client is a connected WebSocket client relaying the event bus.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub bridges the SDK's event bus to connected WebSocket clients,
// mirroring the teacher's gateway/ws.Hub broadcast loop narrowed to a
// single unscoped event stream (the core has no session concept to
// partition by).
type Hub struct {
	mu          sync.RWMutex
	clients     map[*client]struct{}
	bus         *events.Bus
	unsubscribe func()
}

func newHub(bus *events.Bus) *Hub {
	h := &Hub{clients: make(map[*client]struct{}), bus: bus}
	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			corelog.For("httpapi").Error("marshal event for ws broadcast", "error", err)
			return
		}
		h.broadcast(data)
	})
	return h
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close stops relaying bus events; connected clients are left to close on
// their own read/write errors.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// ServeWS upgrades the request and relays the event bus to the connection
// until it disconnects. The stream is read-only: incoming client frames
// are drained and discarded, since submission goes through /api/submit.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		corelog.For("httpapi").Error("ws accept", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}
	h.register(c)

	ctx := r.Context()
	go c.writePump(ctx, h)
	c.readPump(ctx, h)
}

func (c *client) readPump(ctx context.Context, h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *client) writePump(ctx context.Context, h *Hub) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
