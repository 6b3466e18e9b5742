//go:build unit
// +build unit

package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/testutil"
)

type mockCommandHandler struct {
	mock.Mock
}

func (m *mockCommandHandler) HandleMessage(ctx context.Context, text, chatID, userID string) error {
	args := m.Called(ctx, text, chatID, userID)
	return args.Error(0)
}

func TestWebhookHandler_ProcessWebhook(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		expectCall bool
		handlerErr error
		wantErr    bool
	}{
		{
			name:       "text message is dispatched",
			payload:    `{"message":{"text":"/status","chat":{"id":99},"from":{"id":5}}}`,
			expectCall: true,
		},
		{
			name:       "handler error is returned",
			payload:    `{"message":{"text":"/status","chat":{"id":99},"from":{"id":5}}}`,
			expectCall: true,
			handlerErr: errors.New("send failed"),
			wantErr:    true,
		},
		{name: "blank text is ignored", payload: `{"message":{"text":"   ","chat":{"id":99}}}`},
		{name: "non message update is ignored", payload: `{"callback_query":{}}`},
		{name: "malformed payload", payload: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands := &mockCommandHandler{}
			if tt.expectCall {
				commands.On("HandleMessage", mock.Anything, "/status", "99", "5").Return(tt.handlerErr)
			}

			handler, err := NewWebhookHandler(commands, testutil.SetupTestLogger(t))
			require.NoError(t, err)

			err = handler.ProcessWebhook(context.Background(), []byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			commands.AssertExpectations(t)
			if !tt.expectCall {
				commands.AssertNotCalled(t, "HandleMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
