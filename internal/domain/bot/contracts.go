// Package bot holds the contracts of the interactive Telegram side:
// webhook processing, chat commands and scheduler control.
package bot

import (
	"context"
	"time"
)

// HealthSnapshot is a point-in-time view of delivery health.
type HealthSnapshot struct {
	ConsecutiveFailures int    `json:"consecutive_failures"`
	LastSuccess         string `json:"last_success"`
	LastFailure         string `json:"last_failure"`
	LastErrorType       string `json:"last_error_type,omitempty"`
	LastErrorMessage    string `json:"last_error_message,omitempty"`
	Status              string `json:"status"`
}

// SchedulerStatus describes the polling loop.
type SchedulerStatus struct {
	Enabled     bool           `json:"enabled"`
	Running     bool           `json:"running"`
	Paused      bool           `json:"paused"`
	PausedUntil *time.Time     `json:"paused_until,omitempty"`
	Health      HealthSnapshot `json:"health"`
}

// SchedulerControl starts, stops and inspects the polling loop.
// The mutators report whether the state changed.
type SchedulerControl interface {
	Start() bool
	Stop() bool
	Resume() bool
	Status() SchedulerStatus
}

// CommandHandler reacts to a chat message.
type CommandHandler interface {
	HandleMessage(ctx context.Context, text, chatID, userID string) error
}

// WebhookProcessor consumes a raw Telegram update.
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, payload []byte) error
}
