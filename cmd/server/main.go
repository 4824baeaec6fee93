package main

import (
	"fmt"
	"log"

	"github.com/ecoscan/backend/config"
	httpDelivery "github.com/ecoscan/backend/internal/delivery/http"
	"github.com/ecoscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/ecoscan/backend/internal/infrastructure/storage"
	"github.com/ecoscan/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting ecoscan backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Type),
		zap.String("lookup_base_url", cfg.OpenFoodFacts.BaseURL),
		zap.Duration("debounce_window", cfg.Scan.DebounceWindow))

	// Initialize infrastructure dependencies
	backend, err := storage.Open(cfg.Storage.Type, cfg.Storage.Path)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	client := openfoodfacts.NewClient(
		cfg.OpenFoodFacts.BaseURL,
		cfg.OpenFoodFacts.UserAgent,
		cfg.OpenFoodFacts.Timeout,
		logger,
	)

	// Initialize usecase layer
	history := usecase.NewHistoryService(backend, cfg.Storage.HistorySlot, logger)
	scans := usecase.NewScanService(client, history, usecase.ScanServiceConfig{
		DebounceWindow: cfg.Scan.DebounceWindow,
	}, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scans, history)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// newLogger builds a production logger, or a human-readable development one
// outside production.
func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
