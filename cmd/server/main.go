package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chargematch/backend/config"
	httpDelivery "github.com/chargematch/backend/internal/delivery/http"
	"github.com/chargematch/backend/internal/infrastructure/cache"
	"github.com/chargematch/backend/internal/infrastructure/sqlite"
	"github.com/chargematch/backend/internal/observability"
	"github.com/chargematch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ChargeMatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	store, err := sqlite.Open(cfg.Catalog.DBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}
	defer store.Close()

	if n, err := store.CountProducts(context.Background()); err == nil {
		log.Printf("Catalog: %s (%d products, snapshot TTL %s)", cfg.Catalog.DBPath, n, cfg.Catalog.SnapshotTTL)
		if n == 0 {
			log.Printf("WARNING: catalog is empty - run `chargematch catalog import` or `chargematch catalog sync`")
		}
	}

	memoryCache := cache.NewMemoryCache(time.Minute)
	defer memoryCache.Close()

	metrics := observability.NewMetrics()

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		memoryCache,
		store,
		usecase.CatalogServiceConfig{SnapshotTTL: cfg.Catalog.SnapshotTTL},
	)

	matchingService := usecase.NewMatchingService(usecase.MatchConfig{
		Enabled:                  cfg.Matching.Enabled,
		BaseTolerancePercent:     cfg.Matching.BaseTolerancePercent,
		ThreePhaseToleranceFloor: cfg.Matching.ThreePhaseToleranceFloor,
		DefaultLimit:             cfg.Matching.DefaultLimit,
		MaxLimit:                 cfg.Matching.MaxLimit,
		EnableDebugLogging:       cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Matching: enabled=%v, tolerance=%.0f%% (three-phase floor %.0f%%), limit=%d/%d, debug=%v",
		cfg.Matching.Enabled,
		cfg.Matching.BaseTolerancePercent,
		cfg.Matching.ThreePhaseToleranceFloor,
		cfg.Matching.DefaultLimit,
		cfg.Matching.MaxLimit,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matchingService, usecase.NewCatalogAuditor(), catalogService, metrics)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, metrics)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
