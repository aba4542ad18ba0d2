package config

import (
	"fmt"

	"github.com/gulfsteel/steelstore-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "steelstore.db"
)

var DB *gorm.DB

// ConnectDatabase opens the database described by cfg and stores it for GetDB
func ConnectDatabase(cfg *Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverSQLite:
		path := cfg.DatabaseURL
		if path == "" {
			path = defaultSQLitePath
		}
		dialector = sqlite.Open(path)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Error)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	return nil
}

// Migrate creates or updates every table the API owns
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
