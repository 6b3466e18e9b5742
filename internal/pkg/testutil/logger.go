package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

// SetupTestLogger returns the shared console logger used by tests.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelDebug,
		LogType:  config.LogTypeConsole,
	}

	require.NoError(t, logger.InitLogger(settings))

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log
}
