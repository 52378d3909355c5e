package websocket

import (
	"log"

	"github.com/akinyi-dev/chat_backend/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Event is one message fan-out. Recipients are resolved by the caller and
// already exclude the author.
type Event struct {
	Message    *models.Message
	Recipients []uuid.UUID
}

// Hub tracks connected clients by user ID and fans message events out to
// them. All map access happens on the Run goroutine.
type Hub struct {
	clients    map[uuid.UUID]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// MessageCreated implements services.Broadcaster. The send is non-blocking;
// when the queue is full the event is dropped and logged, never bubbled up to
// the message append.
func (h *Hub) MessageCreated(msg *models.Message, recipients []uuid.UUID) {
	select {
	case h.broadcast <- Event{Message: msg, Recipients: recipients}:
	default:
		log.Printf("Broadcast queue full, dropping event for message %s", msg.ID)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UserID)
			h.clients[client.UserID] = client.Conn
		case client := <-h.unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			if conn, ok := h.clients[client.UserID]; ok && conn == client.Conn {
				delete(h.clients, client.UserID)
			}
		case event := <-h.broadcast:
			for _, recipientID := range event.Recipients {
				conn, ok := h.clients[recipientID]
				if !ok {
					continue
				}
				if err := conn.WriteJSON(event.Message); err != nil {
					log.Printf("Error sending message to client %s: %v", recipientID, err)
					conn.Close()
					delete(h.clients, recipientID)
				}
			}
		}
	}
}
