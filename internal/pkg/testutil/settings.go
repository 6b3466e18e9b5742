package testutil

import (
	"time"

	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
)

// NewTestAppConfig returns a valid configuration pointing at the given
// YouTrack and Telegram endpoints, typically httptest servers.
func NewTestAppConfig(youTrackURL, telegramURL string) *config.AppConfig {
	return &config.AppConfig{
		Server: config.ServerSettings{
			Port:            "8080",
			GinMode:         "test",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: time.Second,
		},
		Logger: config.LoggerSettings{
			LogLevel: config.LogLevelDebug,
			LogType:  config.LogTypeConsole,
		},
		Database: config.DatabaseSettings{
			Type:   config.DatabaseTypeSqlite,
			DSN:    ":memory:",
			DBName: "youtrack_messenger",
		},
		YouTrack: config.YouTrackSettings{
			BaseURL: youTrackURL,
			Token:   "perm:test-token",
			Timeout: 5 * time.Second,
		},
		Telegram: config.TelegramSettings{
			BotToken:    "123:TEST",
			GroupChatID: "-1001",
			PMChatID:    "42",
			APIBaseURL:  telegramURL,
			Timeout:     5 * time.Second,
			MaxRetries:  1,
		},
		Scheduler: config.SchedulerSettings{
			Enabled:      true,
			FixedDelay:   time.Minute,
			InitialDelay: 0,
			Top:          20,
			Pagination: config.PaginationSettings{
				PageSize: 10,
			},
			CircuitBreaker: config.CircuitBreakerSettings{
				MaxConsecutiveFailures: 3,
				AutoPause:              true,
				PauseDuration:          time.Hour,
				SendSingleAlert:        true,
			},
		},
		Storage: config.StorageSettings{
			Cleanup: config.CleanupSettings{
				Enabled:    true,
				DaysToKeep: 30,
				Interval:   24 * time.Hour,
			},
		},
	}
}
