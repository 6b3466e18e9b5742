package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/faults"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/persistence/models"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormNotificationStorage struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormNotificationStorage creates a GORM backed NotificationStorage.
func NewGormNotificationStorage(db *gorm.DB, logger logger.Logger) (notifications.NotificationStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("db must not be nil")
	}
	return &gormNotificationStorage{
		db:     db,
		logger: logger,
	}, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, faults.ErrStorage, err)
}

func (s *gormNotificationStorage) IsSent(ctx context.Context, notificationID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SentNotificationModel{}).
		Where("notification_id = ?", notificationID).
		Count(&count).Error
	if err != nil {
		return false, storageErr("failed to check sent notification", err)
	}
	return count > 0, nil
}

func (s *gormNotificationStorage) MarkAsSent(ctx context.Context, records []*notifications.SentRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		ids = append(ids, r.NotificationID)
	}

	var inserted int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.SentNotificationModel{}).
			Where("notification_id IN ?", ids).
			Pluck("notification_id", &existing).Error; err != nil {
			return err
		}

		known := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			known[id] = struct{}{}
		}

		rows := make([]*models.SentNotificationModel, 0, len(records))
		for _, r := range records {
			if _, ok := known[r.NotificationID]; ok {
				continue
			}
			known[r.NotificationID] = struct{}{}
			m := &models.SentNotificationModel{}
			m.FromDomain(r)
			rows = append(rows, m)
		}
		if len(rows) == 0 {
			return nil
		}
		inserted = len(rows)
		return tx.Create(rows).Error
	})
	if err != nil {
		return storageErr("failed to mark notifications as sent", err)
	}

	if inserted > 0 {
		s.logger.Info("marked notifications as sent", "count", inserted, "batch_id", records[0].BatchID)
	}
	return nil
}

func (s *gormNotificationStorage) GetAllSentIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&models.SentNotificationModel{}).
		Pluck("notification_id", &ids).Error; err != nil {
		return nil, storageErr("failed to load sent notification ids", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *gormNotificationStorage) List(ctx context.Context, query *notifications.SentRecordQuery) ([]*notifications.SentRecord, error) {
	if query == nil {
		query = notifications.NewSentRecordQuery()
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := s.db.WithContext(ctx).
		Model(&models.SentNotificationModel{}).
		Order("sent_at desc").
		Order("notification_id asc").
		Limit(query.Limit)
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	var rows []*models.SentNotificationModel
	if err := dbQuery.Find(&rows).Error; err != nil {
		return nil, storageErr("failed to list sent notifications", err)
	}

	records := make([]*notifications.SentRecord, len(rows))
	for i, row := range rows {
		records[i] = row.ToDomain()
	}
	return records, nil
}

func (s *gormNotificationStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SentNotificationModel{}).Count(&count).Error; err != nil {
		return 0, storageErr("failed to count sent notifications", err)
	}
	return count, nil
}

func (s *gormNotificationStorage) ClearSentRecords(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.SentNotificationModel{})
	if result.Error != nil {
		return 0, storageErr("failed to clear sent notifications", result.Error)
	}

	s.logger.Warn("cleared sent notification records", "count", result.RowsAffected)
	return result.RowsAffected, nil
}

func (s *gormNotificationStorage) DeleteSentBefore(ctx context.Context, t time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("sent_at < ?", t.UTC()).
		Delete(&models.SentNotificationModel{})
	if result.Error != nil {
		return 0, storageErr("failed to delete old sent notifications", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormNotificationStorage) LatestTimestamp(ctx context.Context) (string, error) {
	var cursor models.StorageCursorModel
	err := s.db.WithContext(ctx).Where(&models.StorageCursorModel{Key: models.LatestTimestampKey}).First(&cursor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("failed to read latest timestamp", err)
	}
	return cursor.Value, nil
}

func (s *gormNotificationStorage) UpdateLatestTimestamp(ctx context.Context, timestamp string) error {
	cursor := &models.StorageCursorModel{
		Key:       models.LatestTimestampKey,
		Value:     timestamp,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(cursor).Error
	if err != nil {
		return storageErr("failed to update latest timestamp", err)
	}
	return nil
}
