package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event types pushed to back-office clients.
const (
	EventEnquiryCreated   = "enquiry_created"
	EventEnquiryConfirmed = "enquiry_confirmed"
	EventTicketUpdated    = "ticket_updated"
)

// Event is a message sent over WebSocket to the back office.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID   string
	Conn *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts events to all
// of them. Back-office screens subscribe to the whole feed; there is no
// per-user routing.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.Conn.Close()
			}
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if err := client.Conn.WriteJSON(event); err != nil {
					// Drop the client on the next unregister; a failed
					// write usually means the peer is gone.
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for all connected clients. It never blocks
// the caller: when the queue is full the event is dropped, since the
// feed is advisory and every screen re-reads state over HTTP anyway.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
	}
}

// NewClient wraps an accepted connection with a fresh id.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{ID: uuid.NewString(), Conn: conn}
}
