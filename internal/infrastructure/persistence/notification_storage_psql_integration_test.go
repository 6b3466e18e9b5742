//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
)

func TestNotificationStoragePostgres_RoundTrip(t *testing.T) {
	tc := SetupTestDB(t, config.DatabaseTypePostgres)
	ctx := context.Background()
	batch := uuid.NewString()

	require.NoError(t, tc.Storage.MarkAsSent(ctx, []*notifications.SentRecord{
		NewTestRecord(t, "516-1", batch, time.Now()),
		NewTestRecord(t, "516-2", batch, time.Now()),
	}))
	require.NoError(t, tc.Storage.MarkAsSent(ctx, []*notifications.SentRecord{
		NewTestRecord(t, "516-2", "", time.Now()),
	}))

	ids, err := tc.Storage.GetAllSentIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	records, err := tc.Storage.List(ctx, notifications.NewSentRecordQuery())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, batch, records[0].BatchID)

	require.NoError(t, tc.Storage.UpdateLatestTimestamp(ctx, "42"))
	require.NoError(t, tc.Storage.UpdateLatestTimestamp(ctx, "43"))
	cursor, err := tc.Storage.LatestTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, "43", cursor)

	cleared, err := tc.Storage.ClearSentRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}
