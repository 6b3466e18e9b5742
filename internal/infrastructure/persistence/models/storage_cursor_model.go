package models

import "time"

// LatestTimestampKey names the cursor of the newest delivered notification.
const LatestTimestampKey = "latest_notification_timestamp"

// StorageCursorModel is a small key/value row for fetch cursors.
type StorageCursorModel struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(64)"`
	Value     string    `gorm:"column:value;type:varchar(255);not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (StorageCursorModel) TableName() string {
	return "storage_cursors"
}
