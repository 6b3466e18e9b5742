package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/faults"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/markdown"
)

const (
	schedulerAlertTemplate = "🚨 *Notification Scheduler Alert*\n\n" +
		"❌ *Status\\:* Failed after %d consecutive attempts\n" +
		"🔍 *Error Type\\:* %s\n" +
		"📝 *Details\\:* %s\n\n" +
		"⏸️ The scheduler has been paused to prevent further errors\\.\n" +
		"🔄 It will auto\\-resume after the configured period\\.\n" +
		"💡 Use `/start` to manually resume if needed\\.\n" +
		"📋 Check the application logs for more details\\."

	schedulerRecoveryMessage = "✅ *Notification Scheduler Recovered*\n\n" +
		"The notification scheduler has successfully recovered and is now operating normally\\."
)

// Scheduler periodically forwards new notifications and trips a circuit
// breaker after repeated failures.
type Scheduler struct {
	broadcast notifications.BroadcastService
	messenger notifications.Messenger
	health    *HealthService
	settings  config.SchedulerSettings
	logger    logger.Logger

	mu          sync.Mutex
	running     bool
	paused      bool
	pausedUntil time.Time
	alertSent   bool

	now func() time.Time
}

// NewScheduler creates a Scheduler. It starts out running when AutoStart is set.
func NewScheduler(
	broadcast notifications.BroadcastService,
	messenger notifications.Messenger,
	health *HealthService,
	settings config.SchedulerSettings,
	logger logger.Logger,
) (*Scheduler, error) {
	if broadcast == nil || messenger == nil || health == nil {
		return nil, fmt.Errorf("broadcast service, messenger and health service are required")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		broadcast: broadcast,
		messenger: messenger,
		health:    health,
		settings:  settings,
		logger:    logger,
		running:   settings.AutoStart,
		now:       time.Now,
	}, nil
}

// Start enables polling and lifts a pause. It reports whether anything changed.
// A scheduler disabled in configuration never starts.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.Enabled {
		s.logger.Warn("scheduler is disabled in configuration, ignoring start")
		return false
	}
	changed := !s.running || s.paused
	s.running = true
	s.clearPauseLocked()
	if changed {
		s.logger.Info("scheduler started")
	}
	return changed
}

// Stop disables polling.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	s.running = false
	s.logger.Info("scheduler stopped")
	return true
}

// Resume lifts a pause without touching the running flag.
func (s *Scheduler) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused {
		return false
	}
	s.clearPauseLocked()
	s.logger.Info("scheduler resumed manually")
	return true
}

// Status returns the current state together with the health snapshot.
func (s *Scheduler) Status() bot.SchedulerStatus {
	s.mu.Lock()
	status := bot.SchedulerStatus{
		Enabled: s.settings.Enabled,
		Running: s.running,
		Paused:  s.paused,
	}
	if s.paused && !s.pausedUntil.IsZero() {
		until := s.pausedUntil
		status.PausedUntil = &until
	}
	s.mu.Unlock()

	status.Health = s.health.Snapshot()
	return status
}

// Tick runs one delivery cycle unless the scheduler is stopped or paused.
func (s *Scheduler) Tick(ctx context.Context) error {
	if !s.ready() {
		return nil
	}

	result, err := s.broadcast.SendAllToPM(ctx, s.settings.Top)
	if err != nil {
		s.onFailure(ctx, err)
		return err
	}

	s.onSuccess(ctx)
	s.logger.Debug("scheduled broadcast done", "sent", result.Sent, "new", result.New)
	return nil
}

// Run ticks after InitialDelay and then every FixedDelay, measured from the
// end of the previous tick, until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.settings.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}

	s.logger.Info("scheduler loop started", "initial_delay", s.settings.InitialDelay, "fixed_delay", s.settings.FixedDelay, "running", s.Status().Running)
	timer := time.NewTimer(s.settings.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler loop stopped")
			return nil
		case <-timer.C:
			// Failures are tracked by the circuit breaker.
			_ = s.Tick(ctx)
			timer.Reset(s.settings.FixedDelay)
		}
	}
}

// ready reports whether a tick should run, auto-resuming an expired pause.
func (s *Scheduler) ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	if !s.paused {
		return true
	}
	if !s.pausedUntil.IsZero() && s.now().After(s.pausedUntil) {
		s.clearPauseLocked()
		s.logger.Info("scheduler auto-resumed after pause period")
		return true
	}
	return false
}

func (s *Scheduler) onSuccess(ctx context.Context) {
	wasFailing := s.health.HasRecentFailures()
	s.health.RecordSuccess()

	s.mu.Lock()
	if s.paused {
		s.logger.Info("scheduler recovered from pause")
	}
	s.clearPauseLocked()
	s.mu.Unlock()

	if wasFailing {
		if err := s.messenger.SendToPM(ctx, schedulerRecoveryMessage); err != nil {
			s.logger.Error("failed to send recovery notification", "error", err)
		}
	}
}

func (s *Scheduler) onFailure(ctx context.Context, cause error) {
	failures := s.health.RecordFailure(cause)
	s.logger.Error("scheduled broadcast failed", "attempt", failures, "error", cause)

	breaker := s.settings.CircuitBreaker
	if failures < breaker.MaxConsecutiveFailures {
		return
	}

	s.mu.Lock()
	alert := !s.alertSent || !breaker.SendSingleAlert
	s.alertSent = true
	if breaker.AutoPause && !s.paused {
		s.paused = true
		s.pausedUntil = s.now().Add(breaker.PauseDuration)
		s.logger.Warn("scheduler paused after repeated failures", "until", s.pausedUntil)
	}
	s.mu.Unlock()

	if !alert {
		return
	}
	msg := fmt.Sprintf(schedulerAlertTemplate, failures, markdown.Escape(faults.Classify(cause)), markdown.Escape(cause.Error()))
	if err := s.messenger.SendToPM(ctx, msg); err != nil {
		s.logger.Error("failed to send scheduler alert", "error", err)
	}
}

func (s *Scheduler) clearPauseLocked() {
	s.paused = false
	s.pausedUntil = time.Time{}
	s.alertSent = false
}
