// Package faults classifies errors raised by the messenger's adapters.
package faults

import (
	"errors"
	"strings"
)

// Error categories reported to the operator.
const (
	TypeIssueTracker = "YouTrack Connection Error"
	TypeStorage      = "Database Error"
	TypeMessenger    = "Telegram API Error"
	TypeSystem       = "System Error"
	TypeUnknown      = "Unknown Error"
)

// Sentinel errors wrapped by the adapters.
var (
	ErrIssueTracker = errors.New("youtrack request failed")
	ErrMessenger    = errors.New("telegram request failed")
	ErrStorage      = errors.New("database operation failed")
)

// Classify maps err to one of the Type constants.
// Wrapped sentinels win; otherwise the message is inspected.
func Classify(err error) string {
	switch {
	case err == nil:
		return TypeUnknown
	case errors.Is(err, ErrIssueTracker):
		return TypeIssueTracker
	case errors.Is(err, ErrStorage):
		return TypeStorage
	case errors.Is(err, ErrMessenger):
		return TypeMessenger
	}

	msg := err.Error()
	switch {
	case msg == "":
		return TypeUnknown
	case strings.Contains(msg, "YouTrack") || strings.Contains(msg, "HTTP"):
		return TypeIssueTracker
	case strings.Contains(msg, "database") || strings.Contains(msg, "SQL") || strings.Contains(msg, "sqlite"):
		return TypeStorage
	case strings.Contains(msg, "Telegram") || strings.Contains(msg, "Bot"):
		return TypeMessenger
	default:
		return TypeSystem
	}
}
