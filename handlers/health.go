package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceVersion = "1.0.0"

// StatusSource reports what /api/status shows
type StatusSource interface {
	Count() int
}

// ListenerCounter reports connected event listeners
type ListenerCounter interface {
	ClientCount() int
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	dataDir   string
	library   StatusSource
	listeners ListenerCounter
}

// NewHealthHandler creates a new health handler. listeners may be nil.
func NewHealthHandler(dataDir string, library StatusSource, listeners ListenerCounter) *HealthHandler {
	return &HealthHandler{
		dataDir:   dataDir,
		library:   library,
		listeners: listeners,
	}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "musicvault",
		"version":   serviceVersion,
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus returns the status of the API
func (h *HealthHandler) APIStatus(c *gin.Context) {
	listeners := 0
	if h.listeners != nil {
		listeners = h.listeners.ClientCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "MusicVault API is running",
		"data_dir":  h.dataDir,
		"tracks":    h.library.Count(),
		"listeners": listeners,
	})
}
