package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/my-dora-hotel/ledger-server/internal/api"
	"github.com/my-dora-hotel/ledger-server/internal/config"
	"github.com/my-dora-hotel/ledger-server/internal/draft"
	"github.com/my-dora-hotel/ledger-server/internal/repository"
	"github.com/my-dora-hotel/ledger-server/internal/service"
	"github.com/my-dora-hotel/ledger-server/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Log.Level)

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Draft autosave coordinator coalesces snapshot writes per draft
	coordinator := draft.NewCoordinator(repo, logger, draft.DebounceDelay)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret, coordinator, logger)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
