package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/giradamata/services/admin/config"
	"example.com/giradamata/services/admin/internal/api"
	"example.com/giradamata/services/admin/internal/auth"
	"example.com/giradamata/services/admin/internal/cache"
	"example.com/giradamata/services/admin/internal/database"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/search"
	"example.com/giradamata/services/admin/internal/service"
	"example.com/giradamata/services/admin/internal/tracing"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for the registration admin front end`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	// Configure logging
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}
	if err := models.SetupModels(db); err != nil {
		return err
	}
	store := repository.NewStore(db)

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracer = &tracing.NewRelicTracer{}
	}

	// Initialize Elasticsearch client
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without audit search")
	}

	// Shared-secret gate
	if cfg.Auth.AdminSecret == "" {
		log.Warn().Msg("Admin secret not configured, all confirmations will fail")
	}
	gate := auth.NewGate(cfg.Auth.AdminSecret)

	// Initialize services
	historyService := service.NewHistoryService(store, elasticClient, redisCache, cfg.History.ListLimit)
	services := api.Services{
		People:        service.NewPersonService(store, historyService, tracer),
		Events:        service.NewEventService(store, historyService, redisCache, tracer),
		Registrations: service.NewRegistrationService(store, historyService, redisCache, tracer),
		History:       historyService,
		Undo:          service.NewUndoService(store, gate, historyService, tracer),
		Recovery: service.NewRecoveryService(store, historyService, tracer,
			cfg.History.RecoveryScanWindow, cfg.History.RecoveryConcurrency),
	}

	// Initialize and start the server
	server := api.NewServer(cfg, services, gate)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
