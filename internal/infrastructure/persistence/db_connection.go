package persistence

import (
	"fmt"
	"strings"

	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/persistence/models"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDBConnection opens the database described by settings.
func NewDBConnection(settings config.DatabaseSettings) (*gorm.DB, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Type {
	case config.DatabaseTypePostgres:
		return connectPostgres(settings)
	case config.DatabaseTypeSqlite:
		return connectSQLite(settings)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", settings.Type)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
}

// connectPostgres opens a PostgreSQL connection. A keyword/value DSN gets
// DBName appended after the database has been created when missing; a URL
// DSN already names its database and is used as is.
func connectPostgres(settings config.DatabaseSettings) (*gorm.DB, error) {
	if strings.Contains(settings.DSN, "://") {
		db, err := gorm.Open(postgres.Open(settings.DSN), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, nil
	}

	admin, err := gorm.Open(postgres.Open(settings.DSN), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	var exists int64
	if err := admin.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", settings.DBName).Scan(&exists).Error; err != nil {
		_ = CloseDB(admin)
		return nil, fmt.Errorf("failed to look up database '%s': %w", settings.DBName, err)
	}
	if exists == 0 {
		if err := admin.Exec(fmt.Sprintf("CREATE DATABASE %q", settings.DBName)).Error; err != nil {
			_ = CloseDB(admin)
			return nil, fmt.Errorf("failed to create database '%s': %w", settings.DBName, err)
		}
	}
	if err := CloseDB(admin); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s dbname=%s", settings.DSN, settings.DBName)
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database '%s': %w", settings.DBName, err)
	}
	return db, nil
}

func connectSQLite(settings config.DatabaseSettings) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(settings.DSN), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// Every pooled connection to ":memory:" would otherwise get its own empty database.
	if settings.DSN == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// AutoMigrate creates or updates the notification store schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SentNotificationModel{}, &models.StorageCursorModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Ping()
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
