package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/faults"
)

const (
	healthTimeLayout = "2006-01-02 15:04:05"
	// failingThreshold is where the status switches from warning to failing.
	failingThreshold = 3
)

// HealthService tracks the outcome of scheduled deliveries.
type HealthService struct {
	mu                  sync.Mutex
	consecutiveFailures int
	lastSuccess         time.Time
	lastFailure         time.Time
	lastErrorType       string
	lastErrorMessage    string

	now func() time.Time
}

// NewHealthService creates a HealthService with no recorded runs.
func NewHealthService() *HealthService {
	return &HealthService{now: time.Now}
}

// RecordSuccess resets the failure streak.
func (h *HealthService) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.consecutiveFailures = 0
	h.lastSuccess = h.now()
	h.lastErrorType = ""
	h.lastErrorMessage = ""
}

// RecordFailure extends the failure streak and returns its new length.
func (h *HealthService) RecordFailure(err error) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.consecutiveFailures++
	h.lastFailure = h.now()
	h.lastErrorType = faults.Classify(err)
	if err != nil {
		h.lastErrorMessage = err.Error()
	} else {
		h.lastErrorMessage = ""
	}
	return h.consecutiveFailures
}

// ConsecutiveFailures returns the current failure streak.
func (h *HealthService) ConsecutiveFailures() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.consecutiveFailures
}

// HasRecentFailures reports whether the last run failed.
func (h *HealthService) HasRecentFailures() bool {
	return h.ConsecutiveFailures() > 0
}

// LastError returns the category and message of the latest failure.
func (h *HealthService) LastError() (string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErrorType, h.lastErrorMessage
}

// Snapshot returns the current state with a MarkdownV2 status line.
func (h *HealthService) Snapshot() bot.HealthSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	return bot.HealthSnapshot{
		ConsecutiveFailures: h.consecutiveFailures,
		LastSuccess:         formatHealthTime(h.lastSuccess),
		LastFailure:         formatHealthTime(h.lastFailure),
		LastErrorType:       h.lastErrorType,
		LastErrorMessage:    h.lastErrorMessage,
		Status:              healthStatus(h.consecutiveFailures),
	}
}

func healthStatus(failures int) string {
	switch {
	case failures == 0:
		return "✅ Healthy"
	case failures < failingThreshold:
		return fmt.Sprintf("⚠️ Warning \\(%d failure\\(s\\)\\)", failures)
	default:
		return fmt.Sprintf("❌ Failing \\(%d consecutive failures\\)", failures)
	}
}

func formatHealthTime(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Format(healthTimeLayout)
}
