package app

import (
	"context"
	"fmt"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

type sentRecordService struct {
	storage notifications.NotificationStorage
	logger  logger.Logger
}

// NewSentRecordService creates a SentRecordService over storage.
func NewSentRecordService(storage notifications.NotificationStorage, logger logger.Logger) (notifications.SentRecordService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	return &sentRecordService{storage: storage, logger: logger}, nil
}

func (s *sentRecordService) List(ctx context.Context, query *notifications.SentRecordQuery) ([]*notifications.SentRecord, error) {
	return s.storage.List(ctx, query)
}

func (s *sentRecordService) Count(ctx context.Context) (int64, error) {
	return s.storage.Count(ctx)
}

func (s *sentRecordService) Clear(ctx context.Context) (int64, error) {
	cleared, err := s.storage.ClearSentRecords(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("sent history cleared", "count", cleared)
	return cleared, nil
}

func (s *sentRecordService) Cursor(ctx context.Context) (string, error) {
	return s.storage.LatestTimestamp(ctx)
}
