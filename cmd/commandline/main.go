package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ethanbaker/hq-console/pkg/sdk"
	"github.com/ethanbaker/hq-console/pkg/utils"
)

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)
	if err := cfg.Require("API_KEY"); err != nil {
		log.Fatalf("[COMMANDLINE]: %v", err)
	}

	client := sdk.NewClient(cfg.GetWithDefault("API_URL", "http://localhost:"+cfg.GetWithDefault("API_PORT", "8080")), cfg.Get("API_KEY"))

	s := newSession(client, bufio.NewScanner(os.Stdin), os.Stdout)

	// Start interactive session
	if err := s.run(context.Background()); err != nil {
		log.Fatalf("[COMMANDLINE]: %v", err)
	}
}

// run reads commands until exit or end of input
func (s *session) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "HQ console started. Type 'help' for commands, 'exit' to quit.")

	if catalog, err := s.client.GetCatalog(ctx); err == nil {
		s.catalog = catalog
	} else {
		fmt.Fprintf(s.out, "Could not load catalog: %v\n", err)
	}
	s.printStatus(ctx)

	for {
		fmt.Fprint(s.out, "\n> ")

		if !s.in.Scan() {
			break
		}

		if quit := s.handle(ctx, s.in.Text()); quit {
			break
		}
	}

	if err := s.in.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}
