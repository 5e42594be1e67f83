package handlers

import (
	"musicvault/logger"
	"musicvault/websocket"

	"github.com/gin-gonic/gin"
)

// EventHandler streams catalog events to websocket listeners
type EventHandler struct {
	hub websocket.Hub
}

// NewEventHandler creates a new event handler
func NewEventHandler(hub websocket.Hub) *EventHandler {
	return &EventHandler{
		hub: hub,
	}
}

// HandleWebSocketConnection upgrades the request and registers the listener
func (h *EventHandler) HandleWebSocketConnection(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)

	client.StartPumps()
}
