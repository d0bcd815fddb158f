package sheet

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ethanbaker/hq-console/pkg/utils"
)

// Backend names accepted by STORE_BACKEND
const (
	BackendAppsScript = appsScriptSource
	BackendSheetsAPI  = sheetsAPISource
)

// NewFromConfig builds the store selected by STORE_BACKEND. The Apps Script
// backend reads its address from endpoint on every call
func NewFromConfig(ctx context.Context, cfg *utils.Config, endpoint EndpointSource) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.GetWithDefault("STORE_BACKEND", BackendAppsScript)))

	switch backend {
	case BackendAppsScript:
		log.Println("[SHEET]: Using Apps Script backend")
		return NewAppsScriptClient(endpoint), nil

	case BackendSheetsAPI:
		client, err := NewSheetsClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets backend: %w", err)
		}
		log.Println("[SHEET]: Using Google Sheets API backend")
		return client, nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}
