//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// MockBroadcastService is a mock implementation of BroadcastService
type MockBroadcastService struct {
	mock.Mock
}

func (m *MockBroadcastService) Fetch(ctx context.Context, top int) ([]*notifications.Notification, error) {
	args := m.Called(ctx, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.Notification), args.Error(1)
}

func (m *MockBroadcastService) Preview(ctx context.Context, top int) ([]*notifications.Preview, error) {
	args := m.Called(ctx, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.Preview), args.Error(1)
}

func (m *MockBroadcastService) SendAllToPM(ctx context.Context, top int) (*notifications.BroadcastResult, error) {
	args := m.Called(ctx, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notifications.BroadcastResult), args.Error(1)
}

// MockSentRecordService is a mock implementation of SentRecordService
type MockSentRecordService struct {
	mock.Mock
}

func (m *MockSentRecordService) List(ctx context.Context, query *notifications.SentRecordQuery) ([]*notifications.SentRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.SentRecord), args.Error(1)
}

func (m *MockSentRecordService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSentRecordService) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSentRecordService) Cursor(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockWebhookProcessor is a mock implementation of WebhookProcessor
type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockSchedulerControl is a mock implementation of SchedulerControl
type MockSchedulerControl struct {
	mock.Mock
}

func (m *MockSchedulerControl) Start() bool {
	return m.Called().Bool(0)
}

func (m *MockSchedulerControl) Stop() bool {
	return m.Called().Bool(0)
}

func (m *MockSchedulerControl) Resume() bool {
	return m.Called().Bool(0)
}

func (m *MockSchedulerControl) Status() bot.SchedulerStatus {
	return m.Called().Get(0).(bot.SchedulerStatus)
}
