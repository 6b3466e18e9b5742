package app

import (
	"context"
	"fmt"
	"time"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

// Janitor removes sent records older than the retention period.
type Janitor struct {
	storage  notifications.NotificationStorage
	settings config.StorageSettings
	logger   logger.Logger
	now      func() time.Time
}

// NewJanitor creates a Janitor.
func NewJanitor(storage notifications.NotificationStorage, settings config.StorageSettings, logger logger.Logger) (*Janitor, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Janitor{storage: storage, settings: settings, logger: logger, now: time.Now}, nil
}

// Sweep deletes records sent before the retention cutoff.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.settings.Retention())
	deleted, err := j.storage.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sent records before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if deleted > 0 {
		j.logger.Info("old sent records removed", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Run sweeps once right away and then every Interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	if !j.settings.Cleanup.Enabled {
		j.logger.Info("sent record cleanup disabled")
		return nil
	}

	ticker := time.NewTicker(j.settings.Cleanup.Interval)
	defer ticker.Stop()

	for {
		if _, err := j.Sweep(ctx); err != nil {
			j.logger.Error("sent record cleanup failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
