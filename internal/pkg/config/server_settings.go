package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ServerSettings configures the REST API listener.
type ServerSettings struct {
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	GinMode         string        `mapstructure:"gin_mode" validate:"omitempty,oneof=debug release test"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Validate checks ServerSettings.
func (s *ServerSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for ServerSettings: %w", err)
	}
	return nil
}
