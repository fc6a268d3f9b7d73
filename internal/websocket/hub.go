package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ikkim/shopmall-backend/pkg/logger"
)

// Client is one WebSocket session. A user may hold several at once
// (multiple tabs or devices); every session receives every push.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans notification pushes out to connected sessions. Delivery is
// best effort: the durable copy of every notification lives in the
// database, the socket only saves the client a poll.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	direct     chan *directMessage

	mu sync.RWMutex
}

type directMessage struct {
	UserID  uint
	Payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		direct:     make(chan *directMessage, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
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
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.direct:
			h.mu.RLock()
			if clientList, ok := h.clients[message.UserID]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Payload:
					default:
						// Send buffer jammed; drop the session.
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": message.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUser pushes a payload to all of the user's live sessions. An
// offline user is not an error; the worst case is a dropped push.
func (h *Hub) SendToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal push payload", err, nil)
		return err
	}

	select {
	case h.direct <- &directMessage{UserID: userID, Payload: data}:
		return nil
	default:
		logger.Warn("Push channel full, message dropped", map[string]interface{}{
			"user_id": userID,
		})
		return nil
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
