//go:build unit
// +build unit

package app

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/issues"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// MockIssueTracker is a mock implementation of IssueTracker
type MockIssueTracker struct {
	mock.Mock
}

func (m *MockIssueTracker) FetchNotifications(ctx context.Context, top int) ([]*notifications.Notification, error) {
	args := m.Called(ctx, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.Notification), args.Error(1)
}

func (m *MockIssueTracker) FetchNotificationsSince(ctx context.Context, cursor string, top int) ([]*notifications.Notification, error) {
	args := m.Called(ctx, cursor, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.Notification), args.Error(1)
}

// MockMessenger is a mock implementation of Messenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendToGroup(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockMessenger) SendToPM(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockMessenger) SendToChat(ctx context.Context, chatID, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

// MockNotificationStorage is a mock implementation of NotificationStorage
type MockNotificationStorage struct {
	mock.Mock
}

func (m *MockNotificationStorage) IsSent(ctx context.Context, notificationID string) (bool, error) {
	args := m.Called(ctx, notificationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationStorage) MarkAsSent(ctx context.Context, records []*notifications.SentRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockNotificationStorage) GetAllSentIDs(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockNotificationStorage) List(ctx context.Context, query *notifications.SentRecordQuery) ([]*notifications.SentRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.SentRecord), args.Error(1)
}

func (m *MockNotificationStorage) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStorage) ClearSentRecords(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStorage) DeleteSentBefore(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStorage) LatestTimestamp(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationStorage) UpdateLatestTimestamp(ctx context.Context, timestamp string) error {
	args := m.Called(ctx, timestamp)
	return args.Error(0)
}

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

// MockIssueCreator is a mock implementation of IssueCreator
type MockIssueCreator struct {
	mock.Mock
}

func (m *MockIssueCreator) CreateIssue(ctx context.Context, summary, projectID string) (*issues.CreatedIssue, error) {
	args := m.Called(ctx, summary, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issues.CreatedIssue), args.Error(1)
}

func (m *MockIssueCreator) AvailableProjects(ctx context.Context) ([]*issues.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*issues.Project), args.Error(1)
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
