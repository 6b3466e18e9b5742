package models

import (
	"time"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// SentNotificationModel is one delivered notification.
type SentNotificationModel struct {
	NotificationID string    `gorm:"column:notification_id;primaryKey;type:varchar(255)"`
	IssueID        string    `gorm:"column:issue_id;type:varchar(255)"`
	Title          string    `gorm:"column:title;type:varchar(1024)"`
	Updated        string    `gorm:"column:updated_timestamp;type:varchar(32)"`
	BatchID        string    `gorm:"column:batch_id;index;type:varchar(36)"`
	SentAt         time.Time `gorm:"column:sent_at;not null;index"`
}

// TableName specifies the table name for GORM
func (SentNotificationModel) TableName() string {
	return "sent_notifications"
}

// ToDomain converts the row to a SentRecord.
func (m *SentNotificationModel) ToDomain() *notifications.SentRecord {
	return &notifications.SentRecord{
		NotificationID: m.NotificationID,
		IssueID:        m.IssueID,
		Title:          m.Title,
		Updated:        m.Updated,
		BatchID:        m.BatchID,
		SentAt:         m.SentAt,
	}
}

// FromDomain fills the row from a SentRecord.
func (m *SentNotificationModel) FromDomain(r *notifications.SentRecord) {
	m.NotificationID = r.NotificationID
	m.IssueID = r.IssueID
	m.Title = r.Title
	m.Updated = r.Updated
	m.BatchID = r.BatchID
	m.SentAt = r.SentAt.UTC()
}
