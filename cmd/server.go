package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"musicvault/config"
	"musicvault/handlers"
	"musicvault/logger"
	"musicvault/middleware"
	"musicvault/services"
	"musicvault/websocket"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API used by the desktop frontend, including the websocket stream of catalog events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return StartWebServer(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// StartWebServer serves until ctx is cancelled
func StartWebServer(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	library, err := openLibrary(cfg, hub)
	if err != nil {
		return err
	}

	r := NewRouter(cfg, library, hub)

	logger.Info("musicvault web server starting",
		logger.String("addr", cfg.Addr()),
		logger.String("data_dir", cfg.DataDir),
		logger.Int("tracks", library.Count()))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg *config.Config, library services.LibraryService, hub websocket.Hub) *gin.Engine {
	trackHandler := handlers.NewTrackHandler(library)
	eventHandler := handlers.NewEventHandler(hub)
	healthHandler := handlers.NewHealthHandler(cfg.DataDir, library, hub)

	r := gin.New()

	// Apply middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logging())

	setupRoutes(r, trackHandler, eventHandler, healthHandler)
	return r
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, trackHandler *handlers.TrackHandler, eventHandler *handlers.EventHandler, healthHandler *handlers.HealthHandler) {
	r.GET("/health", healthHandler.HealthCheck)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		tracksGroup := apiGroup.Group("/tracks")
		{
			tracksGroup.POST("", trackHandler.UploadTrack)
			tracksGroup.GET("", trackHandler.ListTracks)
			tracksGroup.GET("/:id", trackHandler.GetTrack)
			tracksGroup.DELETE("/:id", trackHandler.DeleteTrack)
			tracksGroup.PUT("/:id/favorite", trackHandler.SetFavorite)
		}

		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/events", eventHandler.HandleWebSocketConnection)
		}
	}
}
