package main

import (
	"os"

	"github.com/ethanbaker/hq-console/internal/api"
	"github.com/ethanbaker/hq-console/pkg/utils"
)

// Start the console API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Start
	api.Start(cfg)
}
