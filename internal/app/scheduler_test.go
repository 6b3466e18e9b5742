//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/testutil"
)

type schedulerTest struct {
	scheduler *Scheduler
	broadcast *MockBroadcastService
	messenger *MockMessenger
	clock     time.Time
}

func newSchedulerTest(t *testing.T, mutate func(*config.SchedulerSettings)) *schedulerTest {
	t.Helper()

	settings := config.SchedulerSettings{
		Enabled:    true,
		AutoStart:  true,
		FixedDelay: time.Minute,
		Top:        20,
		CircuitBreaker: config.CircuitBreakerSettings{
			MaxConsecutiveFailures: 3,
			AutoPause:              true,
			PauseDuration:          time.Hour,
			SendSingleAlert:        true,
		},
	}
	if mutate != nil {
		mutate(&settings)
	}

	st := &schedulerTest{
		broadcast: new(MockBroadcastService),
		messenger: new(MockMessenger),
		clock:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	s, err := NewScheduler(st.broadcast, st.messenger, NewHealthService(), settings, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	s.now = func() time.Time { return st.clock }
	st.scheduler = s
	return st
}

func isAlert(msg string) bool    { return strings.Contains(msg, "Notification Scheduler Alert") }
func isRecovery(msg string) bool { return strings.Contains(msg, "Notification Scheduler Recovered") }

func TestScheduler_TickSkipsWhenStopped(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) { s.AutoStart = false })

	require.NoError(t, st.scheduler.Tick(context.Background()))
	st.broadcast.AssertNotCalled(t, "SendAllToPM", mock.Anything, mock.Anything)
	assert.False(t, st.scheduler.Status().Running)

	assert.True(t, st.scheduler.Start())
	assert.False(t, st.scheduler.Start())
	st.broadcast.On("SendAllToPM", mock.Anything, 20).Return(&notifications.BroadcastResult{}, nil).Once()
	require.NoError(t, st.scheduler.Tick(context.Background()))
	st.broadcast.AssertExpectations(t)

	assert.True(t, st.scheduler.Stop())
	assert.False(t, st.scheduler.Stop())
}

func TestScheduler_CircuitBreaker(t *testing.T) {
	st := newSchedulerTest(t, nil)
	ctx := context.Background()
	cause := errors.New("YouTrack 503: Service Unavailable")

	st.broadcast.On("SendAllToPM", ctx, 20).Return(nil, cause).Times(3)
	var alerts []string
	st.messenger.On("SendToPM", ctx, mock.MatchedBy(isAlert)).Run(func(args mock.Arguments) {
		alerts = append(alerts, args.String(1))
	}).Return(nil).Once()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, st.scheduler.Tick(ctx), cause)
	}

	status := st.scheduler.Status()
	assert.True(t, status.Paused)
	require.NotNil(t, status.PausedUntil)
	assert.Equal(t, st.clock.Add(time.Hour), *status.PausedUntil)
	assert.Equal(t, 3, status.Health.ConsecutiveFailures)

	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0], "Failed after 3 consecutive attempts")
	assert.Contains(t, alerts[0], "YouTrack Connection Error")
	assert.Contains(t, alerts[0], "YouTrack 503: Service Unavailable")

	// paused: no broadcast while the pause lasts
	require.NoError(t, st.scheduler.Tick(ctx))
	st.broadcast.AssertNumberOfCalls(t, "SendAllToPM", 3)

	// pause expired: the next tick runs and recovery is announced
	st.clock = st.clock.Add(time.Hour + time.Second)
	st.broadcast.On("SendAllToPM", ctx, 20).Return(&notifications.BroadcastResult{Sent: 1}, nil).Once()
	st.messenger.On("SendToPM", ctx, mock.MatchedBy(isRecovery)).Return(nil).Once()

	require.NoError(t, st.scheduler.Tick(ctx))
	status = st.scheduler.Status()
	assert.False(t, status.Paused)
	assert.Nil(t, status.PausedUntil)
	assert.Equal(t, "✅ Healthy", status.Health.Status)
	st.messenger.AssertExpectations(t)
}

func TestScheduler_SingleAlertPerPause(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) {
		s.CircuitBreaker.AutoPause = false
	})
	ctx := context.Background()

	st.broadcast.On("SendAllToPM", ctx, 20).Return(nil, errors.New("boom"))
	st.messenger.On("SendToPM", ctx, mock.MatchedBy(isAlert)).Return(nil)

	for i := 0; i < 5; i++ {
		_ = st.scheduler.Tick(ctx)
	}

	st.messenger.AssertNumberOfCalls(t, "SendToPM", 1)
	assert.False(t, st.scheduler.Status().Paused)
}

func TestScheduler_AlertOnEveryFailureWithoutSingleAlert(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) {
		s.CircuitBreaker.AutoPause = false
		s.CircuitBreaker.SendSingleAlert = false
	})
	ctx := context.Background()

	st.broadcast.On("SendAllToPM", ctx, 20).Return(nil, errors.New("boom"))
	st.messenger.On("SendToPM", ctx, mock.MatchedBy(isAlert)).Return(nil)

	for i := 0; i < 5; i++ {
		_ = st.scheduler.Tick(ctx)
	}

	st.messenger.AssertNumberOfCalls(t, "SendToPM", 3)
}

func TestScheduler_StartAndResumeClearPause(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) {
		s.CircuitBreaker.MaxConsecutiveFailures = 1
	})
	ctx := context.Background()

	st.broadcast.On("SendAllToPM", ctx, 20).Return(nil, errors.New("boom"))
	st.messenger.On("SendToPM", ctx, mock.Anything).Return(nil)

	_ = st.scheduler.Tick(ctx)
	require.True(t, st.scheduler.Status().Paused)

	assert.True(t, st.scheduler.Resume())
	assert.False(t, st.scheduler.Resume())
	assert.False(t, st.scheduler.Status().Paused)

	_ = st.scheduler.Tick(ctx)
	require.True(t, st.scheduler.Status().Paused)
	assert.True(t, st.scheduler.Start())
	assert.False(t, st.scheduler.Status().Paused)
	assert.True(t, st.scheduler.Status().Running)
}

func TestScheduler_RunStopsWithContext(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) {
		s.InitialDelay = time.Millisecond
		s.FixedDelay = time.Hour
	})

	ctx, cancel := context.WithCancel(context.Background())
	st.broadcast.On("SendAllToPM", mock.Anything, 20).Return(&notifications.BroadcastResult{}, nil).Run(func(mock.Arguments) {
		cancel()
	}).Once()

	done := make(chan error, 1)
	go func() { done <- st.scheduler.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	st.broadcast.AssertExpectations(t)
}

func TestScheduler_RunDisabled(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) { s.Enabled = false })

	assert.NoError(t, st.scheduler.Run(context.Background()))
	assert.False(t, st.scheduler.Status().Enabled)
}

func TestScheduler_StartWhenDisabled(t *testing.T) {
	st := newSchedulerTest(t, func(s *config.SchedulerSettings) {
		s.Enabled = false
		s.AutoStart = false
	})

	assert.False(t, st.scheduler.Start())

	status := st.scheduler.Status()
	assert.False(t, status.Enabled)
	assert.False(t, status.Running)
}
