//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/testutil"
)

type notifyServiceTest struct {
	service   *notifyService
	tracker   *MockIssueTracker
	messenger *MockMessenger
	storage   *MockNotificationStorage
	sleeps    []time.Duration
}

func newNotifyServiceTest(t *testing.T, pagination config.PaginationSettings) *notifyServiceTest {
	t.Helper()

	nt := &notifyServiceTest{
		tracker:   new(MockIssueTracker),
		messenger: new(MockMessenger),
		storage:   new(MockNotificationStorage),
	}
	svc, err := NewNotifyService(nt.tracker, nt.messenger, nt.storage, pagination, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	nt.service = svc.(*notifyService)
	nt.service.sleep = func(ctx context.Context, d time.Duration) error {
		nt.sleeps = append(nt.sleeps, d)
		return ctx.Err()
	}
	nt.service.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return nt
}

func testNotification(id, issueID, title, updated string) *notifications.Notification {
	return &notifications.Notification{
		ID:       id,
		IssueID:  issueID,
		Title:    title,
		Status:   "Submitted",
		Priority: "Normal",
		Assignee: "Unassigned",
		Updated:  updated,
		Link:     "https://example.com/" + issueID,
	}
}

func sentIDs(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestSendAllToPM_DeduplicatesNotifications(t *testing.T) {
	nt := newNotifyServiceTest(t, config.PaginationSettings{})
	ctx := context.Background()

	nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
		testNotification("516-1", "BUG-1", "Test issue 1", "1000"),
		testNotification("516-2", "BUG-2", "Test issue 2", "2000"),
	}, nil)
	nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs("516-1"), nil)
	nt.messenger.On("SendToPM", ctx, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "BUG\\-2")
	})).Return(nil).Once()
	nt.storage.On("MarkAsSent", mock.Anything, mock.MatchedBy(func(records []*notifications.SentRecord) bool {
		return len(records) == 1 && records[0].NotificationID == "516-2"
	})).Return(nil).Once()
	nt.storage.On("LatestTimestamp", mock.Anything).Return("", nil)
	nt.storage.On("UpdateLatestTimestamp", mock.Anything, "2000").Return(nil)

	result, err := nt.service.SendAllToPM(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.New)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, "2000", result.Cursor)
	_, err = uuid.Parse(result.BatchID)
	assert.NoError(t, err)
	nt.messenger.AssertNumberOfCalls(t, "SendToPM", 1)
	nt.storage.AssertExpectations(t)
}

func TestSendAllToPM_SendsAllWhenNoneSent(t *testing.T) {
	nt := newNotifyServiceTest(t, config.PaginationSettings{})
	ctx := context.Background()

	nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
		testNotification("516-1", "BUG-1", "Issue 1", "1000"),
		testNotification("516-2", "BUG-2", "Issue 2", "2000"),
	}, nil)
	nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs(), nil)
	nt.messenger.On("SendToPM", ctx, mock.Anything).Return(nil)

	var marked []*notifications.SentRecord
	nt.storage.On("MarkAsSent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		marked = args.Get(1).([]*notifications.SentRecord)
	}).Return(nil).Once()
	nt.storage.On("LatestTimestamp", mock.Anything).Return("1500", nil)
	nt.storage.On("UpdateLatestTimestamp", mock.Anything, "2000").Return(nil)

	result, err := nt.service.SendAllToPM(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	nt.messenger.AssertNumberOfCalls(t, "SendToPM", 2)
	require.Len(t, marked, 2)
	for _, r := range marked {
		assert.Equal(t, result.BatchID, r.BatchID)
		assert.NoError(t, r.Validate())
	}
	assert.Empty(t, nt.sleeps)
}

func TestSendAllToPM_SkipsAlreadySent(t *testing.T) {
	tests := []struct {
		name string
		list []*notifications.Notification
		sent map[string]struct{}
	}{
		{
			name: "all already sent",
			list: []*notifications.Notification{
				testNotification("516-1", "BUG-1", "Issue 1", "1000"),
				testNotification("516-2", "BUG-2", "Issue 2", "2000"),
			},
			sent: sentIDs("516-1", "516-2"),
		},
		{
			name: "empty list",
			list: []*notifications.Notification{},
			sent: sentIDs(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nt := newNotifyServiceTest(t, config.PaginationSettings{})
			ctx := context.Background()

			nt.tracker.On("FetchNotifications", ctx, 10).Return(tt.list, nil)
			nt.storage.On("GetAllSentIDs", ctx).Return(tt.sent, nil)

			result, err := nt.service.SendAllToPM(ctx, 10)

			require.NoError(t, err)
			assert.Equal(t, 0, result.Sent)
			assert.Empty(t, result.BatchID)
			nt.messenger.AssertNotCalled(t, "SendToPM", mock.Anything, mock.Anything)
			nt.storage.AssertNotCalled(t, "MarkAsSent", mock.Anything, mock.Anything)
		})
	}
}

func TestSendAllToPM_Pagination(t *testing.T) {
	nt := newNotifyServiceTest(t, config.PaginationSettings{
		Enabled:              true,
		PageSize:             2,
		DelayBetweenMessages: time.Second,
	})
	ctx := context.Background()

	nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
		testNotification("516-1", "BUG-1", "Issue 1", "1000"),
		testNotification("516-2", "BUG-2", "Issue 2", "2000"),
		testNotification("516-3", "BUG-3", "Issue 3", "3000"),
	}, nil)
	nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs(), nil)
	nt.messenger.On("SendToPM", ctx, mock.Anything).Return(nil)
	nt.storage.On("MarkAsSent", mock.Anything, mock.Anything).Return(nil)
	nt.storage.On("LatestTimestamp", mock.Anything).Return("", nil)
	nt.storage.On("UpdateLatestTimestamp", mock.Anything, "3000").Return(nil)

	result, err := nt.service.SendAllToPM(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Sent)
	nt.messenger.AssertNumberOfCalls(t, "SendToPM", 3)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, nt.sleeps)
}

func TestSendAllToPM_PartialFailureMarksDelivered(t *testing.T) {
	nt := newNotifyServiceTest(t, config.PaginationSettings{})
	ctx := context.Background()
	sendErr := errors.New("Telegram API error: HTTP 400 Bad Request")

	nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
		testNotification("516-1", "BUG-1", "Issue 1", "1000"),
		testNotification("516-2", "BUG-2", "Issue 2", "2000"),
	}, nil)
	nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs(), nil)
	nt.messenger.On("SendToPM", ctx, mock.Anything).Return(nil).Once()
	nt.messenger.On("SendToPM", ctx, mock.Anything).Return(sendErr).Once()
	nt.storage.On("MarkAsSent", mock.Anything, mock.MatchedBy(func(records []*notifications.SentRecord) bool {
		return len(records) == 1 && records[0].NotificationID == "516-1"
	})).Return(nil).Once()
	nt.storage.On("LatestTimestamp", mock.Anything).Return("", nil)
	nt.storage.On("UpdateLatestTimestamp", mock.Anything, "1000").Return(nil)

	result, err := nt.service.SendAllToPM(ctx, 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Sent)
	nt.storage.AssertExpectations(t)
}

func TestSendAllToPM_KeepsNewerCursor(t *testing.T) {
	nt := newNotifyServiceTest(t, config.PaginationSettings{})
	ctx := context.Background()

	nt.tracker.On("FetchNotifications", ctx, 5).Return([]*notifications.Notification{
		testNotification("516-1", "BUG-1", "Issue 1", "1000"),
	}, nil)
	nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs(), nil)
	nt.messenger.On("SendToPM", ctx, mock.Anything).Return(nil)
	nt.storage.On("MarkAsSent", mock.Anything, mock.Anything).Return(nil)
	nt.storage.On("LatestTimestamp", mock.Anything).Return("9000", nil)

	result, err := nt.service.SendAllToPM(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, "9000", result.Cursor)
	nt.storage.AssertNotCalled(t, "UpdateLatestTimestamp", mock.Anything, mock.Anything)
}

func TestSendAllToPM_FetchAndStorageErrors(t *testing.T) {
	t.Run("fetch fails", func(t *testing.T) {
		nt := newNotifyServiceTest(t, config.PaginationSettings{})
		ctx := context.Background()
		nt.tracker.On("FetchNotifications", ctx, 10).Return(nil, errors.New("YouTrack 401: Unauthorized"))

		result, err := nt.service.SendAllToPM(ctx, 10)

		assert.Nil(t, result)
		assert.ErrorContains(t, err, "failed to fetch notifications")
		nt.storage.AssertNotCalled(t, "GetAllSentIDs", mock.Anything)
	})

	t.Run("sent ids fail", func(t *testing.T) {
		nt := newNotifyServiceTest(t, config.PaginationSettings{})
		ctx := context.Background()
		nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
			testNotification("516-1", "BUG-1", "Issue 1", "1000"),
		}, nil)
		nt.storage.On("GetAllSentIDs", ctx).Return(nil, errors.New("database is locked"))

		_, err := nt.service.SendAllToPM(ctx, 10)

		assert.ErrorContains(t, err, "failed to load sent notification ids")
		nt.messenger.AssertNotCalled(t, "SendToPM", mock.Anything, mock.Anything)
	})

	t.Run("mark fails", func(t *testing.T) {
		nt := newNotifyServiceTest(t, config.PaginationSettings{})
		ctx := context.Background()
		nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
			testNotification("516-1", "BUG-1", "Issue 1", "1000"),
		}, nil)
		nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs(), nil)
		nt.messenger.On("SendToPM", ctx, mock.Anything).Return(nil)
		nt.storage.On("MarkAsSent", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		result, err := nt.service.SendAllToPM(ctx, 10)

		assert.ErrorContains(t, err, "failed to mark notifications as sent")
		assert.Equal(t, 1, result.Sent)
	})
}

func TestPreview(t *testing.T) {
	nt := newNotifyServiceTest(t, config.PaginationSettings{})
	ctx := context.Background()

	nt.tracker.On("FetchNotifications", ctx, 10).Return([]*notifications.Notification{
		testNotification("516-1", "BUG-1", "Issue 1", "1000"),
		testNotification("516-2", "BUG-2", "Issue 2", "2000"),
	}, nil)
	nt.storage.On("GetAllSentIDs", ctx).Return(sentIDs("516-1"), nil)

	previews, err := nt.service.Preview(ctx, 10)

	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.Equal(t, "516-2", previews[0].NotificationID)
	assert.Equal(t, "BUG-2", previews[0].IssueID)
	assert.Contains(t, previews[0].Message, "*BUG\\-2*")
	nt.messenger.AssertNotCalled(t, "SendToPM", mock.Anything, mock.Anything)
}

func TestNewNotifyService_RequiresDependencies(t *testing.T) {
	_, err := NewNotifyService(nil, new(MockMessenger), new(MockNotificationStorage), config.PaginationSettings{}, testutil.SetupTestLogger(t))
	assert.Error(t, err)
}
