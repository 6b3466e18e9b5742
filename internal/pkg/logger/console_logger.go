package logger

import (
	"io"
	"log/slog"
	"os"
)

// ConsoleLogger writes human readable records to stdout.
type ConsoleLogger struct {
	slogLogger
}

// NewConsoleLogger creates a console logger filtering below level.
func NewConsoleLogger(level string) Logger {
	return newConsoleLogger(os.Stdout, level)
}

func newConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &ConsoleLogger{slogLogger: newSlogLogger(handler)}
}
