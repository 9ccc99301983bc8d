// Package realtime streams flight status changes to websocket subscribers.
// Clients subscribe per flight; every status transition recorded by the
// flight service is broadcast to that flight's watchers.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	MessageTypeStatusChanged MessageType = "status_changed"
	MessageTypeGateChanged   MessageType = "gate_changed"
)

// Message is one update pushed to subscribers of a flight.
type Message struct {
	Type      MessageType `json:"type"`
	FlightID  int64       `json:"flightId"`
	OldStatus string      `json:"oldStatus,omitempty"`
	NewStatus string      `json:"newStatus,omitempty"`
	Gate      string      `json:"gate,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Hub manages websocket subscriptions per flight.
type Hub struct {
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

// NewHub creates a Hub. Run must be started on it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run drives the hub's register/unregister/broadcast loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.flightID] == nil {
				h.clients[client.flightID] = make(map[*Client]bool)
			}
			h.clients[client.flightID][client] = true
			log.Printf("WebSocket: client subscribed to flight %d (total: %d)", client.flightID, len(h.clients[client.flightID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.flightID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.flightID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("WebSocket: failed to marshal message: %v", err)
				continue
			}

			h.mu.RLock()
			clients := h.clients[message.FlightID]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.mu.Lock()
					delete(h.clients[message.FlightID], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// BroadcastStatusChange notifies a flight's subscribers of a status transition.
func (h *Hub) BroadcastStatusChange(flightID int64, oldStatus, newStatus, reason string) {
	h.broadcast <- &Message{
		Type:      MessageTypeStatusChanged,
		FlightID:  flightID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Reason:    reason,
		Timestamp: time.Now().UnixMilli(),
	}
}

// BroadcastGateChange notifies a flight's subscribers of a gate change.
func (h *Hub) BroadcastGateChange(flightID int64, gate string) {
	h.broadcast <- &Message{
		Type:      MessageTypeGateChanged,
		FlightID:  flightID,
		Gate:      gate,
		Timestamp: time.Now().UnixMilli(),
	}
}

// SubscriberCount returns the number of clients watching a flight.
func (h *Hub) SubscriberCount(flightID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[flightID])
}
