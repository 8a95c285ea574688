package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	httpapi "tracklet-backend/internal/api/http"
	"tracklet-backend/internal/config"
	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/repository/postgres"
	"tracklet-backend/internal/security"
	"tracklet-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before the environment is read")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tracklet backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "time_zone", cfg.Server.TimeZone)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	modules := cfg.EnabledModules()
	for module, on := range modules.Snapshot() {
		logger.Debug("Module state", "module", module, "enabled", on)
	}

	router := httpapi.NewRouter(
		newServices(postgres.NewStore(db), cfg.Location()),
		security.NewTokenManager(cfg.JWT),
		modules,
		cfg.Location(),
	)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

// newServices builds the service layer on top of the store.
func newServices(store *postgres.Store, loc *time.Location) httpapi.Services {
	return httpapi.Services{
		EventTypes:     service.NewCatalogService[domain.EventType]("event-types", store.EventTypes),
		Venues:         service.NewCatalogService[domain.Venue]("venues", store.Venues),
		Planners:       service.NewCatalogService[domain.Planner]("planners", store.Planners),
		FurnitureItems: service.NewCatalogService[domain.FurnitureItem]("furniture-items", store.FurnitureItems),
		RentalAssets:   service.NewCatalogService[domain.RentalAsset]("rental-assets", store.RentalAssets),
		Customers:      service.NewCustomerLookup(store.Customers),
		Owners:         service.NewOwnerLookup(store.Owners),
		Events:         service.NewEventService(store.Events, loc),
		Furniture:      service.NewFurnitureService(store.Assignments, nil),
		Rentals:        service.NewRentalService(store.RentalOrders, store.RentalLines, nil),
	}
}
