package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected player session
type Client struct {
	conn     *websocket.Conn
	username string
	playerID int
	send     chan []byte
}

// Hub maintains the set of active clients and per-match rooms
type Hub struct {
	clients    map[string]*Client            // username -> Client
	matchRooms map[string]map[string]*Client // matchID -> username -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		matchRooms: make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events. One connection per user; a new
// connection replaces the old one.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, exists := h.clients[client.username]; exists {
				log.Printf("[WS] %s reconnecting - closing old connection", client.username)
				if err := old.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(5*time.Second)); err != nil {
					log.Printf("[WS] Error writing close control to old client %s: %v", old.username, err)
				}
				old.conn.Close()
				select {
				case <-old.send:
				default:
					close(old.send)
				}
			}
			h.clients[client.username] = client
			h.mu.Unlock()
			log.Printf("[WS] %s connected", client.username)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, exists := h.clients[client.username]; exists && current == client {
				delete(h.clients, client.username)
				close(client.send)
			}
			for _, room := range h.matchRooms {
				delete(room, client.username)
			}
			h.mu.Unlock()
			log.Printf("[WS] %s disconnected", client.username)
		}
	}
}

// AddToRoom places connected users into a match room
func (h *Hub) AddToRoom(matchID string, usernames []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.matchRooms[matchID]
	if !exists {
		room = make(map[string]*Client)
		h.matchRooms[matchID] = room
	}
	for _, u := range usernames {
		if client, ok := h.clients[u]; ok {
			room[u] = client
		}
	}
}

// RemoveRoom drops a match room after teardown
func (h *Hub) RemoveRoom(matchID string) {
	h.mu.Lock()
	delete(h.matchRooms, matchID)
	h.mu.Unlock()
}

// IsConnected reports whether the user has a live session
func (h *Hub) IsConnected(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[username]
	return ok
}

// BroadcastToMatch sends a message to everyone in a match room
func (h *Hub) BroadcastToMatch(matchID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.matchRooms[matchID]; exists {
		for _, client := range room {
			select {
			case client.send <- data:
			default:
				log.Printf("[WS] Send buffer full for %s in match %s, dropping message", client.username, matchID)
			}
		}
	}
}

// SendTo delivers an event to the given connections. Implements the ladder
// core's notifier contract.
func (h *Hub) SendTo(connIDs []string, event string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{"type": event, "data": payload})
	if err != nil {
		log.Printf("[WS] Error marshaling %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range connIDs {
		client, exists := h.clients[id]
		if !exists {
			log.Printf("[WS] SendTo no client for %s", id)
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] SendTo dropped %s for %s (buffer full)", event, id)
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed; connection is being replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for %s: %v", c.username, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for %s: %v", c.username, err)
				return
			}
		}
	}
}
