package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// PaginationSettings throttles delivery when many notifications arrive at once.
type PaginationSettings struct {
	Enabled              bool          `mapstructure:"enabled"`
	PageSize             int           `mapstructure:"page_size" validate:"required_if=Enabled true,gte=0"`
	DelayBetweenMessages time.Duration `mapstructure:"delay_between_messages" validate:"gte=0"`
}

// CircuitBreakerSettings controls how the scheduler reacts to repeated failures.
type CircuitBreakerSettings struct {
	MaxConsecutiveFailures int           `mapstructure:"max_consecutive_failures" validate:"gte=1"`
	AutoPause              bool          `mapstructure:"auto_pause"`
	PauseDuration          time.Duration `mapstructure:"pause_duration" validate:"gte=0"`
	SendSingleAlert        bool          `mapstructure:"send_single_alert"`
}

// SchedulerSettings configures the polling loop.
type SchedulerSettings struct {
	Enabled        bool                   `mapstructure:"enabled"`
	AutoStart      bool                   `mapstructure:"auto_start"`
	FixedDelay     time.Duration          `mapstructure:"fixed_delay" validate:"gt=0"`
	InitialDelay   time.Duration          `mapstructure:"initial_delay" validate:"gte=0"`
	Top            int                    `mapstructure:"top" validate:"gte=1"`
	Pagination     PaginationSettings     `mapstructure:"pagination"`
	CircuitBreaker CircuitBreakerSettings `mapstructure:"circuit_breaker"`
}

// Validate checks SchedulerSettings including its nested groups.
func (s *SchedulerSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for SchedulerSettings: %w", err)
	}
	if s.CircuitBreaker.AutoPause && s.CircuitBreaker.PauseDuration <= 0 {
		return fmt.Errorf("pause duration must be positive when auto pause is enabled")
	}
	return nil
}
