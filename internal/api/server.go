package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/config"
	"example.com/giradamata/services/admin/internal/api/handlers"
	"example.com/giradamata/services/admin/internal/api/middleware"
	"example.com/giradamata/services/admin/internal/auth"
	"example.com/giradamata/services/admin/internal/service"
)

// Services bundles the domain services the API exposes
type Services struct {
	People        *service.PersonService
	Events        *service.EventService
	Registrations *service.RegistrationService
	History       *service.HistoryService
	Undo          *service.UndoService
	Recovery      *service.RecoveryService
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   Services
	gate       *auth.Gate
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, services Services, gate *auth.Gate) *Server {
	server := &Server{
		config:   cfg,
		services: services,
		gate:     gate,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      server.router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(s.gate)
	router.POST("/login", authHandler.Login)

	peopleHandler := handlers.NewPeopleHandler(s.services.People)
	eventsHandler := handlers.NewEventsHandler(s.services.Events, s.services.Registrations)
	registrationsHandler := handlers.NewRegistrationsHandler(s.services.Registrations)
	historyHandler := handlers.NewHistoryHandler(s.services.History, s.services.Undo)
	recoveryHandler := handlers.NewRecoveryHandler(s.services.Recovery)

	// Everything beyond login sits behind the shared secret
	api := router.Group("/api/v1", middleware.RequireSecret(s.gate))
	{
		api.GET("/people", peopleHandler.List)
		api.POST("/people", peopleHandler.Create)
		api.PUT("/people/:id", peopleHandler.Update)
		api.DELETE("/people/:id", peopleHandler.Delete)

		api.GET("/events", eventsHandler.List)
		api.POST("/events", eventsHandler.Create)
		api.PUT("/events/:id", eventsHandler.Update)
		api.DELETE("/events/:id", eventsHandler.Delete)
		api.GET("/events/:id/registrations", eventsHandler.Registrations)
		api.GET("/events/:id/registration-count", eventsHandler.RegistrationCount)

		api.POST("/registrations", registrationsHandler.Create)
		api.PUT("/registrations/:id", registrationsHandler.Update)
		api.DELETE("/registrations/:id", registrationsHandler.Delete)
		api.POST("/registrations/:id/toggle-exemption", registrationsHandler.ToggleExemption)

		api.GET("/history", historyHandler.List)
		api.GET("/history/search", historyHandler.Search)
		api.POST("/history/:id/undo", historyHandler.Undo)

		api.GET("/recovery/scan", recoveryHandler.Scan)
		api.POST("/recovery/restore", recoveryHandler.Restore)
	}

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
