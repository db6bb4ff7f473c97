package database

import (
	"fmt"
	"strings"

	"logistics/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL, logLevel string) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(logLevel)),
	}

	dialector, isSQLite := dialectorFor(databaseURL)
	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite {
		// sqlite allows a single writer; one connection also keeps :memory: databases intact
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto migrate all models
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or alters the schema without dropping data.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Warehouse{},
		&models.Route{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.OrderWarehouseHistory{},
	)
}

func dialectorFor(databaseURL string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), false
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), true
	default:
		return sqlite.Open(databaseURL), true
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
