package websocket

import (
	"encoding/json"
	"sync"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
)

// Event is the envelope pushed to connected back-office sessions.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	EventNewOrder     = "new_order"
	EventOrderStatus  = "order_status"
	EventStoreClosure = "store_closure"
)

// Client is one staff browser session.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans order events out to every connected kasir and admin session.
// A user may hold several sessions at once; each gets every event.
type Hub struct {
	clients    map[uint][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("Back-office session connected", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Back-office session disconnected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
					default:
						// Send buffer full; drop the session rather than
						// block the hub loop.
						go h.Unregister(client)
						logger.Warn("Session send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues an event for every connected session. Events are
// best-effort: a full queue drops the event instead of blocking a request.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal hub event", err, map[string]interface{}{
			"event_type": event.Type,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"event_type": event.Type,
		})
	}
}

// NotifyNewOrder pushes a freshly placed order to the back office.
func (h *Hub) NotifyNewOrder(order *model.Order) {
	h.Broadcast(Event{Type: EventNewOrder, Data: order})
}

// NotifyOrderStatus announces a status transition, so kitchen displays
// stay current without polling.
func (h *Hub) NotifyOrderStatus(orderID uint, status model.OrderStatus) {
	h.Broadcast(Event{Type: EventOrderStatus, Data: map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	}})
}

// NotifyStoreClosure announces the closure flag flipping.
func (h *Hub) NotifyStoreClosure(closed bool, message string) {
	h.Broadcast(Event{Type: EventStoreClosure, Data: map[string]interface{}{
		"closed":  closed,
		"message": message,
	}})
}

// ConnectedSessions reports the number of live sessions, for the health
// endpoint.
func (h *Hub) ConnectedSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clientList := range h.clients {
		total += len(clientList)
	}
	return total
}
