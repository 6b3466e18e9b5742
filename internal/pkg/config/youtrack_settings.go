package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// YouTrackSettings holds the YouTrack instance URL and permanent token.
type YouTrackSettings struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Token   string        `mapstructure:"token" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// NormalizedBaseURL returns BaseURL without trailing slashes.
func (s *YouTrackSettings) NormalizedBaseURL() string {
	return strings.TrimRight(s.BaseURL, "/")
}

// Validate checks YouTrackSettings.
func (s *YouTrackSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for YouTrackSettings: %w", err)
	}
	return nil
}
