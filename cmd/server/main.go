package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/leafletlens/client/config"
	httpDelivery "github.com/leafletlens/client/internal/delivery/http"
	"github.com/leafletlens/client/internal/domain"
	"github.com/leafletlens/client/internal/exporter"
	"github.com/leafletlens/client/internal/infrastructure/extraction"
	"github.com/leafletlens/client/internal/notify"
	"github.com/leafletlens/client/internal/presenter"
	"github.com/leafletlens/client/internal/usecase"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting LeafletLens Client v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Extraction service: %s (timeout %s)", cfg.Extraction.BaseURL, cfg.Extraction.Timeout)
	log.Printf("Export directory: %s", cfg.Export.Directory)

	// Infrastructure
	notifier := notify.NewStatusNotifier(cfg.Notify.AutoDismiss)
	client := extraction.NewClient(cfg.Extraction.BaseURL, cfg.Extraction.Timeout)

	// Workflow core
	controller := usecase.NewController(client, notifier)

	p, err := presenter.New()
	if err != nil {
		log.Fatalf("Failed to build presenter: %v", err)
	}
	e := exporter.New(cfg.Export.Directory, notifier)

	controller.Subscribe(func(state domain.WorkflowState) {
		log.Printf("State: %s", state)
	})

	// Prime from a previous session's results; silent when there are none
	controller.LoadExisting(context.Background())

	handler := httpDelivery.NewHandler(controller, p, notifier, e)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
