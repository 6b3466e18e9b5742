package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse represents an informational response
type InfoResponse struct {
	Message string `json:"message"`
}

// StatusResponse is returned by the root health endpoint
type StatusResponse struct {
	Status string `json:"status"`
}

// TopRequest carries the top query parameter of the notification endpoints
type TopRequest struct {
	Top int `validate:"gte=1"`
}

// Validate for validating TopRequest struct
func (r *TopRequest) Validate() error {
	return validateRequest(r)
}

// SentRecordResponse represents a delivered notification
type SentRecordResponse struct {
	NotificationID string    `json:"notification_id"`
	IssueID        string    `json:"issue_id,omitempty"`
	Title          string    `json:"title,omitempty"`
	Updated        string    `json:"updated,omitempty"`
	BatchID        string    `json:"batch_id"`
	SentAt         time.Time `json:"sent_at"`
}

// ClearResponse reports how many sent records were removed
type ClearResponse struct {
	Cleared int64 `json:"cleared"`
}

// SchedulerActionResponse reports the outcome of a scheduler control call
type SchedulerActionResponse struct {
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

func newSentRecordResponse(r *notifications.SentRecord) SentRecordResponse {
	return SentRecordResponse{
		NotificationID: r.NotificationID,
		IssueID:        r.IssueID,
		Title:          r.Title,
		Updated:        r.Updated,
		BatchID:        r.BatchID,
		SentAt:         r.SentAt,
	}
}

func validateRequest(s interface{}) error {
	err := validator.New().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %v", messages)
	}
	return fmt.Errorf("validation error: %w", err)
}
