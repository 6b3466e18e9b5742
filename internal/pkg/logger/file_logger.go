package logger

import (
	"log/slog"

	"github.com/natefinch/lumberjack"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
)

// FileLogger writes JSON records to a size-rotated file.
type FileLogger struct {
	slogLogger
}

// NewFileLogger creates a file logger using the rotation limits of settings.
func NewFileLogger(settings *config.LoggerSettings) Logger {
	writer := &lumberjack.Logger{
		Filename:   settings.FilePath,
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAge,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: parseLevel(settings.LogLevel)})
	return &FileLogger{slogLogger: newSlogLogger(handler)}
}
