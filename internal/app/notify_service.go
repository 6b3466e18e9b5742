package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

// notifyService implements notifications.BroadcastService.
type notifyService struct {
	tracker    notifications.IssueTracker
	messenger  notifications.Messenger
	storage    notifications.NotificationStorage
	pagination config.PaginationSettings
	logger     logger.Logger

	// mu serializes SendAllToPM so the REST trigger and the scheduler
	// never deliver the same notification twice.
	mu    sync.Mutex
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewNotifyService creates the BroadcastService.
func NewNotifyService(
	tracker notifications.IssueTracker,
	messenger notifications.Messenger,
	storage notifications.NotificationStorage,
	pagination config.PaginationSettings,
	logger logger.Logger,
) (notifications.BroadcastService, error) {
	if tracker == nil || messenger == nil || storage == nil {
		return nil, fmt.Errorf("tracker, messenger and storage are required")
	}
	return &notifyService{
		tracker:    tracker,
		messenger:  messenger,
		storage:    storage,
		pagination: pagination,
		logger:     logger,
		sleep:      sleepContext,
		now:        time.Now,
	}, nil
}

// Fetch returns up to top notifications from the tracker.
func (s *notifyService) Fetch(ctx context.Context, top int) ([]*notifications.Notification, error) {
	list, err := s.tracker.FetchNotifications(ctx, top)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return list, nil
}

// Preview formats the notifications SendAllToPM would deliver next.
func (s *notifyService) Preview(ctx context.Context, top int) ([]*notifications.Preview, error) {
	_, fresh, err := s.unsent(ctx, top)
	if err != nil {
		return nil, err
	}

	previews := make([]*notifications.Preview, 0, len(fresh))
	for _, n := range fresh {
		previews = append(previews, &notifications.Preview{
			NotificationID: n.ID,
			IssueID:        n.IssueID,
			Message:        FormatNotification(n),
		})
	}
	return previews, nil
}

// SendAllToPM delivers every notification not sent before to the PM chat
// and records the delivered ones under a fresh batch ID. When delivery
// stops halfway the delivered part is still recorded before the error
// is returned.
func (s *notifyService) SendAllToPM(ctx context.Context, top int) (*notifications.BroadcastResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("broadcast started", "top", top)

	all, fresh, err := s.unsent(ctx, top)
	if err != nil {
		return nil, err
	}

	result := &notifications.BroadcastResult{Fetched: len(all), New: len(fresh)}
	if len(fresh) == 0 {
		s.logger.Info("no new notifications to send", "fetched", len(all))
		return result, nil
	}

	result.BatchID = uuid.NewString()
	delivered, sendErr := s.deliver(ctx, fresh)
	result.Sent = len(delivered)

	if len(delivered) > 0 {
		// Recording must survive a cancelled ctx, otherwise delivered
		// messages would be sent again on the next run.
		recordCtx := context.WithoutCancel(ctx)
		if err := s.record(recordCtx, result.BatchID, delivered); err != nil {
			return result, errors.Join(sendErr, err)
		}
		result.Cursor = s.advanceCursor(recordCtx, delivered)
	}

	if sendErr != nil {
		s.logger.Error("broadcast interrupted", "sent", result.Sent, "new", result.New, "error", sendErr)
		return result, sendErr
	}

	s.logger.Info("broadcast finished", "batch_id", result.BatchID, "sent", result.Sent, "fetched", result.Fetched)
	return result, nil
}

// unsent fetches notifications and drops the ones already delivered, keeping order.
func (s *notifyService) unsent(ctx context.Context, top int) (all, fresh []*notifications.Notification, err error) {
	all, err = s.Fetch(ctx, top)
	if err != nil {
		return nil, nil, err
	}

	sentIDs, err := s.storage.GetAllSentIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sent notification ids: %w", err)
	}

	fresh = make([]*notifications.Notification, 0, len(all))
	for _, n := range all {
		if _, sent := sentIDs[n.ID]; !sent {
			fresh = append(fresh, n)
		}
	}
	s.logger.Debug("deduplicated notifications", "fetched", len(all), "already_sent", len(sentIDs), "new", len(fresh))
	return all, fresh, nil
}

// deliver sends list in order. With pagination enabled it walks pages of
// PageSize and waits DelayBetweenMessages after each message.
func (s *notifyService) deliver(ctx context.Context, list []*notifications.Notification) ([]*notifications.Notification, error) {
	pageSize := len(list)
	var delay time.Duration
	if s.pagination.Enabled {
		pageSize = max(s.pagination.PageSize, 1)
		delay = s.pagination.DelayBetweenMessages
	}

	delivered := make([]*notifications.Notification, 0, len(list))
	for start := 0; start < len(list); start += pageSize {
		end := min(start+pageSize, len(list))
		if s.pagination.Enabled {
			s.logger.Debug("sending page", "page", start/pageSize+1, "size", end-start)
		}

		for _, n := range list[start:end] {
			if err := s.messenger.SendToPM(ctx, FormatNotification(n)); err != nil {
				return delivered, fmt.Errorf("failed to send notification %s: %w", n.ID, err)
			}
			delivered = append(delivered, n)

			if delay > 0 {
				if err := s.sleep(ctx, delay); err != nil {
					return delivered, err
				}
			}
		}
	}
	return delivered, nil
}

func (s *notifyService) record(ctx context.Context, batchID string, delivered []*notifications.Notification) error {
	sentAt := s.now().UTC()
	records := make([]*notifications.SentRecord, 0, len(delivered))
	for _, n := range delivered {
		records = append(records, notifications.NewSentRecord(n, batchID, sentAt))
	}
	if err := s.storage.MarkAsSent(ctx, records); err != nil {
		return fmt.Errorf("failed to mark notifications as sent: %w", err)
	}
	return nil
}

// advanceCursor moves the stored cursor forward to the newest delivered
// notification. Cursor problems are logged only; dedup relies on IDs.
func (s *notifyService) advanceCursor(ctx context.Context, delivered []*notifications.Notification) string {
	latest := notifications.LatestUpdated(delivered)
	if latest == "" {
		return ""
	}

	current, err := s.storage.LatestTimestamp(ctx)
	if err != nil {
		s.logger.Warn("failed to read cursor", "error", err)
		return ""
	}
	if newer(current, latest) {
		return current
	}
	if err := s.storage.UpdateLatestTimestamp(ctx, latest); err != nil {
		s.logger.Warn("failed to update cursor", "error", err)
		return current
	}
	return latest
}

// newer reports whether cursor a is later than or equal to b.
func newer(a, b string) bool {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	return errA == nil && errB == nil && x >= y
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
