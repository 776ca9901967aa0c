package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/metrics"
)

const writeWait = 5 * time.Second

// Event is the envelope pushed to every connected client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub is the registry of currently connected realtime clients. It is the
// only shared mutable state outside the database; all access goes through
// the mutex. Delivery is best-effort: no acks, no replay, a client that
// connects after an event never sees it.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> client id, for log lines
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register adds a connection and returns its assigned client id.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[conn] = id
	h.mu.Unlock()
	return id
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast fans an event out to every connected client. It returns
// immediately; writes happen on a separate goroutine so callers (and their
// HTTP responses) never wait on slow subscribers. A failed write drops that
// one connection and never affects the others.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Data: payload})
	if err != nil {
		log.Printf("❌ Failed to marshal %s event: %v", event, err)
		return
	}
	go h.fanout(event, data)
}

func (h *Hub) fanout(event string, data []byte) {
	// Holding the lock for the whole loop also serializes writes per
	// connection, which gorilla requires.
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, id := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("🔌 Dropping realtime client %s: %v", id, err)
			conn.Close()
			delete(h.clients, conn)
			continue
		}
		metrics.BroadcastsSent.Inc()
	}
	log.Printf("📢 Broadcast %s to %d client(s)", event, len(h.clients))
}
