// Package websocket pushes a live activity feed of inventory changes to
// connected clients.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one entry in the activity feed.
type Event struct {
	Type      string      `json:"type"` // e.g. ASSET_CREATED, USER_DELETED
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entityId,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected client. A nil Hub drops events,
// which keeps handlers testable without a socket.
type Hub struct {
	mutex   sync.Mutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	log.Printf("websocket client connected: %s", r.RemoteAddr)

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.mutex.Lock()
	h.clients[c] = true
	h.mutex.Unlock()

	go c.writePump()
	go c.readPump(h)
}

// Broadcast sends the event to all connected clients. Clients that cannot
// keep up are dropped.
func (h *Hub) Broadcast(ev Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("failed to marshal event: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump discards inbound messages; the feed is one-way. It exists to
// notice closed connections.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
