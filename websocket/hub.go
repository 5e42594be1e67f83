package websocket

import (
	"sync"

	"musicvault/logger"
	"musicvault/types"
)

// Hub interface defines the methods for managing WebSocket connections
type Hub interface {
	Run()
	PublishCatalogEvent(event types.CatalogEvent)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
	ClientCount() int
}

// hub maintains the set of active clients and broadcasts catalog events to them
type hub struct {
	// Registered clients
	clients map[*Client]bool

	// Broadcast channel for catalog events
	broadcast chan types.CatalogEvent

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan types.CatalogEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("websocket client connected", logger.Int("clients", h.ClientCount()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug("websocket client disconnected", logger.Int("clients", h.ClientCount()))

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishCatalogEvent queues an event for every connected client. The event
// is dropped when the broadcast buffer is full.
func (h *hub) PublishCatalogEvent(event types.CatalogEvent) {
	select {
	case h.broadcast <- event:
	default:
		logger.Warn("websocket broadcast channel full, dropping event",
			logger.String("type", string(event.Type)),
			logger.String("trackId", event.TrackID))
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients
func (h *hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
