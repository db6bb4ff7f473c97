package main

import (
	"fmt"
	"os"

	"logistics/internal/config"
	"logistics/internal/database"
	"logistics/internal/logger"
	"logistics/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, true)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}

	if err := migrations.RunMigrations(db, cfg.DefaultAdminPassword, log); err != nil {
		log.Error().Err(err).Msg("failed to initialize database")
		os.Exit(1)
	}

	fmt.Println("Database initialized.")
}
