//go:build integration
// +build integration

package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/persistence"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/telegram"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/youtrack"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/testutil"
)

// FakeTelegram records every sendMessage call it receives.
type FakeTelegram struct {
	mu       sync.Mutex
	messages []string
}

// Messages returns the texts received so far.
func (f *FakeTelegram) Messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func (f *FakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.messages = append(f.messages, r.PostForm.Get("text"))
	f.mu.Unlock()
	_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
}

// TestServices holds the application services wired to real adapters,
// a real database and fake YouTrack and Telegram servers.
type TestServices struct {
	Broadcast   notifications.BroadcastService
	SentRecords notifications.SentRecordService
	Scheduler   *Scheduler
	Janitor     *Janitor

	Telegram  *FakeTelegram
	DBContext *persistence.TestContext
}

// SetupTestServices wires the services against dbType. notificationsJSON is
// what the fake YouTrack returns from the notifications endpoint.
func SetupTestServices(t *testing.T, dbType string, notificationsJSON []map[string]interface{}) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	youTrack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(notificationsJSON)
	}))
	t.Cleanup(youTrack.Close)

	fakeTelegram := &FakeTelegram{}
	telegramServer := httptest.NewServer(fakeTelegram)
	t.Cleanup(telegramServer.Close)

	cfg := testutil.NewTestAppConfig(youTrack.URL, telegramServer.URL)

	tracker, err := youtrack.NewClient(&cfg.YouTrack, logger)
	require.NoError(t, err, "failed to create YouTrack client")

	messenger, err := telegram.NewClient(&cfg.Telegram, logger)
	require.NoError(t, err, "failed to create Telegram client")

	broadcast, err := NewNotifyService(tracker, messenger, dbContext.Storage, cfg.Scheduler.Pagination, logger)
	require.NoError(t, err)

	sentRecords, err := NewSentRecordService(dbContext.Storage, logger)
	require.NoError(t, err)

	scheduler, err := NewScheduler(broadcast, messenger, NewHealthService(), cfg.Scheduler, logger)
	require.NoError(t, err)

	janitor, err := NewJanitor(dbContext.Storage, cfg.Storage, logger)
	require.NoError(t, err)

	return &TestServices{
		Broadcast:   broadcast,
		SentRecords: sentRecords,
		Scheduler:   scheduler,
		Janitor:     janitor,
		Telegram:    fakeTelegram,
		DBContext:   dbContext,
	}
}
