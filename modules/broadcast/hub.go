package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client is one connected dashboard session. A client watches a single
// restaurant; clients with an empty RestaurantID receive everything.
type Client struct {
	ID           string
	CallerID     string
	RestaurantID string
	Conn         *websocket.Conn
}

// Hub manages WebSocket connections and pushes live inventory, alert and
// order updates to restaurant dashboards.
type Hub struct {
	clients     map[string]*Client         // clientID -> Client
	restaurants map[string]map[string]bool // restaurantID -> set of clientIDs
	register    chan *Client
	unregister  chan *Client
	broadcast   chan *pushMessage
	done        chan struct{}
	mu          sync.RWMutex
}

type pushMessage struct {
	RestaurantID string
	Payload      any
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		restaurants: make(map[string]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *pushMessage, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for graceful shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[hub] Shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.restaurants = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if client.RestaurantID != "" {
		if h.restaurants[client.RestaurantID] == nil {
			h.restaurants[client.RestaurantID] = make(map[string]bool)
		}
		h.restaurants[client.RestaurantID][client.ID] = true
	}
	log.Printf("[hub] Client %s watching restaurant %q registered", client.ID, client.RestaurantID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		if client.RestaurantID != "" && h.restaurants[client.RestaurantID] != nil {
			delete(h.restaurants[client.RestaurantID], client.ID)
			if len(h.restaurants[client.RestaurantID]) == 0 {
				delete(h.restaurants, client.RestaurantID)
			}
		}
		log.Printf("[hub] Client %s unregistered", client.ID)
	}
}

func (h *Hub) handleBroadcast(msg *pushMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal push message: %v", err)
		return
	}

	if msg.RestaurantID == "" {
		// No restaurant scope; everyone gets it.
		for _, client := range h.clients {
			h.sendToClient(client, data)
		}
		return
	}

	if clientIDs, ok := h.restaurants[msg.RestaurantID]; ok {
		for clientID := range clientIDs {
			if client, ok := h.clients[clientID]; ok {
				h.sendToClient(client, data)
			}
		}
	}
	// Unscoped watchers see every restaurant's updates.
	for _, client := range h.clients {
		if client.RestaurantID == "" {
			h.sendToClient(client, data)
		}
	}
}

func (h *Hub) sendToClient(client *Client, data []byte) {
	if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[hub] Failed to send to client %s: %v", client.ID, err)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a payload for every client watching the restaurant.
// An empty restaurantID reaches all clients.
func (h *Hub) Broadcast(restaurantID string, payload any) {
	h.broadcast <- &pushMessage{
		RestaurantID: restaurantID,
		Payload:      payload,
	}
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RestaurantClientCount returns the number of clients watching a restaurant.
func (h *Hub) RestaurantClientCount(restaurantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.restaurants[restaurantID]; ok {
		return len(clients)
	}
	return 0
}
