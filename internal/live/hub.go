// Package live pushes dashboard summaries to browsers over websockets.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fintrack/internal/core"
)

const writeWait = 10 * time.Second

// Message is the envelope written to every client.
type Message struct {
	Type string       `json:"type"`
	Data core.Summary `json:"data"`
}

// SnapshotFunc supplies the summary sent to a client right after it connects.
type SnapshotFunc func(ctx context.Context) (core.Summary, error)

type registration struct {
	conn    *websocket.Conn
	initial []byte
}

// Hub owns the set of connected clients. All writes to client connections
// happen on the Run goroutine.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan registration
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex

	snapshot SnapshotFunc
	upgrader websocket.Upgrader
}

func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan registration),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		snapshot:   snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run serves register, unregister and broadcast requests until ctx ends,
// then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return
		case reg := <-h.register:
			h.mu.Lock()
			h.clients[reg.conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			slog.Debug("Websocket client connected", "clients", n)
			if reg.initial != nil {
				h.send(reg.conn, reg.initial)
			}
		case conn := <-h.unregister:
			h.drop(conn)
		case message := <-h.broadcast:
			h.mu.Lock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.Unlock()
			for _, conn := range conns {
				h.send(conn, message)
			}
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, message []byte) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		slog.Debug("Dropping websocket client", "error", err)
		h.drop(conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Broadcast queues sum for every connected client. It never blocks once
// the hub has stopped.
func (h *Hub) Broadcast(sum core.Summary) {
	data, err := json.Marshal(Message{Type: "summary", Data: sum})
	if err != nil {
		slog.Error("Failed to marshal summary", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the connection. The client
// receives the current summary first; anything it sends is discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "Failed to upgrade to websocket", "error", err)
		return
	}

	var initial []byte
	if h.snapshot != nil {
		sum, err := h.snapshot(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to build initial summary", "error", err)
		} else if initial, err = json.Marshal(Message{Type: "summary", Data: sum}); err != nil {
			initial = nil
		}
	}

	select {
	case h.register <- registration{conn: conn, initial: initial}:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case h.unregister <- conn:
				case <-h.done:
				}
				return
			}
		}
	}()
}
