package notifications

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// SentRecord remembers that a notification was delivered.
type SentRecord struct {
	NotificationID string    `validate:"required,max=255"`
	IssueID        string    `validate:"max=255"`
	Title          string    `validate:"max=1024"`
	Updated        string    `validate:"omitempty,numeric"`
	BatchID        string    `validate:"required,uuid4"`
	SentAt         time.Time `validate:"required"`
}

// NewSentRecord builds the record stored after n was delivered in batchID.
func NewSentRecord(n *Notification, batchID string, sentAt time.Time) *SentRecord {
	return &SentRecord{
		NotificationID: n.ID,
		IssueID:        n.IssueID,
		Title:          truncate(n.Title, 1024),
		Updated:        n.Updated,
		BatchID:        batchID,
		SentAt:         sentAt,
	}
}

// Validate for validating SentRecord struct
func (r *SentRecord) Validate() error {
	return validateStruct(r)
}

// SentRecordQuery pages through sent records, newest first.
type SentRecordQuery struct {
	Limit  int `validate:"gte=1,lte=1000"`
	Offset int `validate:"gte=0"`
}

// NewSentRecordQuery creates a query with the default page size.
func NewSentRecordQuery() *SentRecordQuery {
	return &SentRecordQuery{Limit: 100}
}

// Validate for validating SentRecordQuery struct
func (q *SentRecordQuery) Validate() error {
	return validateStruct(q)
}

func validateStruct(s interface{}) error {
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

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
