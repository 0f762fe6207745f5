package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains connected dashboard clients and fans events out to all of
// them. Slow clients are dropped rather than allowed to block the loop.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("ws: client connected (%d total)", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("ws: client disconnected (%d total)", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
					log.Printf("ws: client buffer full, dropping")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a payload for delivery to every connected client.
func (h *Hub) Broadcast(data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	h.broadcast <- body
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
