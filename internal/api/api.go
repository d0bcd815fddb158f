package api

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	api_key "github.com/ethanbaker/api/pkg/api_key"
	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/hq-console/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	connection_module "github.com/ethanbaker/hq-console/internal/api/modules/connection"
	console_module "github.com/ethanbaker/hq-console/internal/api/modules/console"
	health_module "github.com/ethanbaker/hq-console/internal/api/modules/health"
)

func Start(cfg *utils.Config) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	ctx := context.Background()

	services, err := NewServices(ctx, cfg)
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to initialize services: ", err)
	}
	defer services.Close()

	engine, err := NewEngine(cfg, services)
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to build engine: ", err)
	}

	// Start polling the connection and load the finder once
	if err := services.Monitor.Start(); err != nil {
		log.Fatal("[API-MAIN]: Failed to start connection monitor: ", err)
	}
	view := services.Workflow.Search(ctx)
	log.Printf("[API-MAIN]: Finder loaded %d records", len(view.Records))

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}

// NewEngine builds the gin engine with every module registered
func NewEngine(cfg *utils.Config, services *Services) (*gin.Engine, error) {
	// Make api key validator
	validator, err := makeApiKeyValidator(cfg)
	if err != nil {
		return nil, err
	}
	auth := api_key.APIKeyHeaderHandler(validator)

	consoleService, err := console_module.NewService(services.Workflow, services.Ledger, services.Catalog)
	if err != nil {
		return nil, err
	}
	connectionService, err := connection_module.NewService(services.Monitor, services.Workflow)
	if err != nil {
		return nil, err
	}

	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	console_module.Init(consoleService)
	console_module.RegisterRoutes(baseGroup, auth)

	connection_module.Init(connectionService)
	connection_module.RegisterRoutes(baseGroup, auth)

	return engine, nil
}

// makeApiKeyValidator checks if the provided API key is valid
func makeApiKeyValidator(cfg *utils.Config) (func(key string) bool, error) {
	// Get api key from config
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not set in environment")
	}

	return func(key string) bool {
		return apiKey == key
	}, nil
}
