//go:build unit
// +build unit

package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, http.NoBody)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestNotificationHandler_Broadcast(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		defaultTop int
		wantTop    int
		wantStatus int
	}{
		{"default top", "/notifications/broadcast", 20, 20, http.StatusOK},
		{"explicit top", "/notifications/broadcast?top=5", 20, 5, http.StatusOK},
		{"large explicit top", "/notifications/broadcast?top=2000", 20, 2000, http.StatusOK},
		{"large configured default", "/notifications/broadcast", 1500, 1500, http.StatusOK},
		{"zero top", "/notifications/broadcast?top=0", 20, 0, http.StatusBadRequest},
		{"negative top", "/notifications/broadcast?top=-1", 20, 0, http.StatusBadRequest},
		{"non numeric top", "/notifications/broadcast?top=abc", 20, 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBroadcastService := new(MockBroadcastService)
			handler := NewNotificationHandler(mockBroadcastService, new(MockSentRecordService), tt.defaultTop)

			if tt.wantStatus == http.StatusOK {
				mockBroadcastService.On("SendAllToPM", mock.Anything, tt.wantTop).
					Return(&notifications.BroadcastResult{BatchID: "batch-1", Fetched: 3, New: 2, Sent: 2}, nil)
			}

			c, w := newTestContext("POST", tt.target)
			handler.Broadcast(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"sent":2`)
				mockBroadcastService.AssertExpectations(t)
			} else {
				mockBroadcastService.AssertNotCalled(t, "SendAllToPM", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestNotificationHandler_Broadcast_Error(t *testing.T) {
	mockBroadcastService := new(MockBroadcastService)
	handler := NewNotificationHandler(mockBroadcastService, new(MockSentRecordService), 20)
	mockBroadcastService.On("SendAllToPM", mock.Anything, 20).Return(nil, errors.New("YouTrack 401: Unauthorized"))

	c, w := newTestContext("POST", "/notifications/broadcast")
	handler.Broadcast(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "broadcast failed: YouTrack 401: Unauthorized")
}

func TestNotificationHandler_Preview(t *testing.T) {
	mockBroadcastService := new(MockBroadcastService)
	handler := NewNotificationHandler(mockBroadcastService, new(MockSentRecordService), 20)
	mockBroadcastService.On("Preview", mock.Anything, 3).Return([]*notifications.Preview{
		{NotificationID: "516-1", IssueID: "DEMO-1", Message: "*DEMO\\-1*"},
	}, nil)

	c, w := newTestContext("GET", "/notifications/preview?top=3")
	handler.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notification_id":"516-1"`)
	mockBroadcastService.AssertNotCalled(t, "SendAllToPM", mock.Anything, mock.Anything)
}

func TestNotificationHandler_ListSent(t *testing.T) {
	mockSentRecordService := new(MockSentRecordService)
	handler := NewNotificationHandler(new(MockBroadcastService), mockSentRecordService, 20)

	mockSentRecordService.On("List", mock.Anything, &notifications.SentRecordQuery{Limit: 10, Offset: 5}).
		Return([]*notifications.SentRecord{{
			NotificationID: "516-1",
			IssueID:        "DEMO-1",
			BatchID:        "batch-1",
			SentAt:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}}, nil)

	c, w := newTestContext("GET", "/notifications/sent?limit=10&offset=5")
	handler.ListSent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notification_id":"516-1"`)
	assert.Contains(t, w.Body.String(), `"sent_at":"2024-05-01T00:00:00Z"`)
	mockSentRecordService.AssertExpectations(t)
}

func TestNotificationHandler_ListSent_InvalidQuery(t *testing.T) {
	for _, target := range []string{
		"/notifications/sent?limit=abc",
		"/notifications/sent?limit=0",
		"/notifications/sent?limit=5000",
		"/notifications/sent?offset=-1",
	} {
		t.Run(target, func(t *testing.T) {
			mockSentRecordService := new(MockSentRecordService)
			handler := NewNotificationHandler(new(MockBroadcastService), mockSentRecordService, 20)

			c, w := newTestContext("GET", target)
			handler.ListSent(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockSentRecordService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestNotificationHandler_ListSent_Empty(t *testing.T) {
	mockSentRecordService := new(MockSentRecordService)
	handler := NewNotificationHandler(new(MockBroadcastService), mockSentRecordService, 20)
	mockSentRecordService.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	c, w := newTestContext("GET", "/notifications/sent")
	handler.ListSent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestNotificationHandler_ClearSent(t *testing.T) {
	mockSentRecordService := new(MockSentRecordService)
	handler := NewNotificationHandler(new(MockBroadcastService), mockSentRecordService, 20)
	mockSentRecordService.On("Clear", mock.Anything).Return(int64(4), nil).Once()
	mockSentRecordService.On("Clear", mock.Anything).Return(int64(0), errors.New("database is locked")).Once()

	c, w := newTestContext("DELETE", "/notifications/sent")
	handler.ClearSent(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cleared":4}`, w.Body.String())

	c, w = newTestContext("DELETE", "/notifications/sent")
	handler.ClearSent(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
