package migrations

import (
	"fmt"

	"logistics/internal/database"
	"logistics/internal/repository"
	"logistics/internal/services"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date and seeds the default admin
// account on first run. Existing data is never dropped.
func RunMigrations(db *gorm.DB, adminPassword string, logger zerolog.Logger) error {
	logger.Info().Msg("running database migrations")

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := createDefaultData(db, adminPassword, logger); err != nil {
		return err
	}

	logger.Info().Msg("database migrations completed")
	return nil
}

func createDefaultData(db *gorm.DB, adminPassword string, logger zerolog.Logger) error {
	userService := services.NewUserService(repository.NewUserRepository(db))

	created, err := userService.CreateDefaultAdmin(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	if created {
		logger.Warn().
			Str("username", services.DefaultAdminUsername).
			Msg("default admin account created, change its password")
	} else {
		logger.Debug().Msg("admin account already exists")
	}
	return nil
}
