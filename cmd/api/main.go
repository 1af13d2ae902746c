package main

import (
	"fmt"
	"os"

	"finpilot/internal/config"
	"finpilot/internal/database"
	"finpilot/internal/logger"
	"finpilot/internal/server"
)

// @title           Finpilot API
// @version         1.0
// @description     Finpilot tracks credit cards, installment purchases, subscriptions and monthly cash flow, and advises on planned purchases.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// The logger comes up before config so config loading can log.
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	router := server.New(dbManager.DB(), appConfig, server.Options{})

	if appConfig.JobsAPIKey == "" {
		log.Warn("JOBS_API_KEY is not set; /api/v1/jobs endpoints are disabled")
	}
	log.Infof("Starting Finpilot server on port %s (%s, timezone %s)", appConfig.Port, dbConfig.Driver, appConfig.Timezone)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
