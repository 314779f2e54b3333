package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bcnelson/styla-directory/internal/api"
	"github.com/bcnelson/styla-directory/internal/config"
	"github.com/bcnelson/styla-directory/internal/directory"
	"github.com/bcnelson/styla-directory/internal/logging"
	"github.com/bcnelson/styla-directory/internal/service"
	"github.com/bcnelson/styla-directory/internal/storage/sql"
	"github.com/bcnelson/styla-directory/internal/tagstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.WithError(err).Fatal("Failed to create data directory")
			}
		}
	}

	// Initialize storage
	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	defer store.Close()

	tags := tagstore.New(store, log)
	cache := tagstore.NewCache(tags)
	seeder := service.NewSeeder(store, cache, log)
	usage := service.NewUsageService(store, cache, log, cfg.Usage.Debounce, cfg.Usage.AutoReconcile)
	defer usage.Stop()

	ctx := context.Background()
	if cfg.Catalog.SeedOnStart {
		inserted, err := seeder.SeedPredefined(ctx)
		if err != nil {
			log.WithError(err).Fatal("Failed to seed tag catalog")
		}
		log.WithField("inserted", inserted).Info("Tag catalog seeded")
	}
	if cfg.Catalog.PreloadPrimary {
		log.WithField("tags", cache.Preload(ctx)).Info("Primary tags preloaded")
	}

	// Create router
	router := api.NewRouter(api.Deps{
		Store:        store,
		Tags:         tags,
		Cache:        cache,
		Engine:       directory.New(store, tags, log, directory.WithDefaultMaxDistance(cfg.Search.DefaultMaxDistance)),
		Seeder:       seeder,
		Usage:        usage,
		Profiles:     service.NewProfileService(store, log),
		OwnerTags:    service.NewOwnerTagService(store, tags, usage, log),
		TagService:   service.NewTagService(store, tags, cache, log),
		BootstrapKey: cfg.Auth.BootstrapAPIKey,
		Log:          log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Starting Styla directory on http://%s", cfg.Server.Addr())

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return
	}

	log.Info("Server stopped")
}
