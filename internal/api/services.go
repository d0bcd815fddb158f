package api

import (
	"context"
	"fmt"
	"log"

	"github.com/ethanbaker/hq-console/internal/connection"
	"github.com/ethanbaker/hq-console/internal/stores/approval"
	"github.com/ethanbaker/hq-console/internal/workflow"
	"github.com/ethanbaker/hq-console/pkg/generation"
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sheet"
	"github.com/ethanbaker/hq-console/pkg/utils"
)

// Services are the long lived components behind the API
type Services struct {
	Settings *connection.Settings
	Monitor  *connection.Monitor
	Store    sheet.Store
	Ledger   approval.StoreInterface
	Catalog  *record.Catalog
	Workflow *workflow.Controller
}

// NewServices wires the store, generation client, ledger and workflow from cfg
func NewServices(ctx context.Context, cfg *utils.Config) (*Services, error) {
	settings := connection.NewSettings(cfg)

	store, err := sheet.NewFromConfig(ctx, cfg, settings)
	if err != nil {
		return nil, err
	}

	backend, err := generation.NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation backend: %w", err)
	}

	reviewer := cfg.GetWithDefault("DEFAULT_REVIEWER", workflow.DefaultReviewer)

	generator, err := generation.New(backend, generation.Options{
		PromptDir: cfg.Get("PROMPT_DIR"),
		Reviewer:  reviewer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	catalog, err := record.LoadCatalog(cfg.Get("CATALOG_PATH"))
	if err != nil {
		return nil, err
	}

	ledger, err := approval.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open approval ledger: %w", err)
	}

	wf, err := workflow.New(workflow.Options{
		Generator:       generator,
		Store:           store,
		Ledger:          ledger,
		Catalog:         catalog,
		Collections:     workflow.CollectionsFromConfig(cfg),
		DefaultReviewer: reviewer,
	})
	if err != nil {
		ledger.Close()
		return nil, err
	}

	monitor := connection.NewMonitor(settings, store, cfg.GetWithDefault("CONNECTION_POLL_SPEC", connection.DefaultPollSpec))

	return &Services{
		Settings: settings,
		Monitor:  monitor,
		Store:    store,
		Ledger:   ledger,
		Catalog:  catalog,
		Workflow: wf,
	}, nil
}

// Close stops the monitor and closes the ledger
func (s *Services) Close() {
	s.Monitor.Stop()
	if err := s.Ledger.Close(); err != nil {
		log.Printf("[API-MAIN]: Failed to close approval ledger: %v", err)
	}
}
