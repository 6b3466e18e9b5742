package notifications

import (
	"context"
	"time"
)

// IssueTracker reads notifications from the issue tracker.
type IssueTracker interface {
	// FetchNotifications returns up to top notifications; top <= 0 means no limit.
	FetchNotifications(ctx context.Context, top int) ([]*Notification, error)
	// FetchNotificationsSince returns notifications updated after cursor (epoch millis).
	FetchNotificationsSince(ctx context.Context, cursor string, top int) ([]*Notification, error)
}

// Messenger delivers MarkdownV2 text to chats.
type Messenger interface {
	SendToGroup(ctx context.Context, text string) error
	SendToPM(ctx context.Context, text string) error
	SendToChat(ctx context.Context, chatID, text string) error
}

// NotificationStorage persists which notifications were already delivered.
type NotificationStorage interface {
	// IsSent reports whether notificationID was delivered before.
	IsSent(ctx context.Context, notificationID string) (bool, error)
	// MarkAsSent stores records, skipping IDs that are already stored.
	MarkAsSent(ctx context.Context, records []*SentRecord) error
	// GetAllSentIDs returns the set of delivered notification IDs.
	GetAllSentIDs(ctx context.Context) (map[string]struct{}, error)
	// List returns sent records newest first.
	List(ctx context.Context, query *SentRecordQuery) ([]*SentRecord, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
	// ClearSentRecords removes every record and returns how many were removed.
	ClearSentRecords(ctx context.Context) (int64, error)
	// DeleteSentBefore removes records sent before t.
	DeleteSentBefore(ctx context.Context, t time.Time) (int64, error)
	// LatestTimestamp returns the stored cursor, or "" when none was stored.
	LatestTimestamp(ctx context.Context) (string, error)
	// UpdateLatestTimestamp stores the cursor.
	UpdateLatestTimestamp(ctx context.Context, timestamp string) error
}

// BroadcastService forwards new notifications to the operator's chat.
type BroadcastService interface {
	// Fetch returns the raw notification list.
	Fetch(ctx context.Context, top int) ([]*Notification, error)
	// Preview formats the notifications that would be sent next without sending them.
	Preview(ctx context.Context, top int) ([]*Preview, error)
	// SendAllToPM delivers every notification not sent before and records it.
	SendAllToPM(ctx context.Context, top int) (*BroadcastResult, error)
}

// SentRecordService exposes the delivery history.
type SentRecordService interface {
	List(ctx context.Context, query *SentRecordQuery) ([]*SentRecord, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) (int64, error)
	Cursor(ctx context.Context) (string, error)
}
