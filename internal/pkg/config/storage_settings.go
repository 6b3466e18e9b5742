package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// CleanupSettings controls removal of old sent-notification records.
type CleanupSettings struct {
	Enabled    bool          `mapstructure:"enabled"`
	DaysToKeep int           `mapstructure:"days_to_keep" validate:"gte=1"`
	Interval   time.Duration `mapstructure:"interval" validate:"gt=0"`
}

// StorageSettings groups retention options of the sent-notification store.
type StorageSettings struct {
	Cleanup CleanupSettings `mapstructure:"cleanup"`
}

// Retention returns how long sent records are kept.
func (s *StorageSettings) Retention() time.Duration {
	return time.Duration(s.Cleanup.DaysToKeep) * 24 * time.Hour
}

// Validate checks StorageSettings.
func (s *StorageSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}
	return nil
}
