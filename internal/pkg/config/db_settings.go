package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Supported database types
const (
	DatabaseTypeSqlite   = "sqlite"
	DatabaseTypePostgres = "postgres"
)

// DatabaseSettings points the sent-notification store at sqlite or postgres.
// For sqlite the DSN is a file path or ":memory:".
type DatabaseSettings struct {
	Type   string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
	DBName string `mapstructure:"name" validate:"required_if=Type postgres"`
}

// Validate checks DatabaseSettings.
func (s *DatabaseSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}
	return nil
}
