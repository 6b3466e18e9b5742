//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/testutil"
)

// TestContext holds the test database and the storage under test.
type TestContext struct {
	DB      *gorm.DB
	Storage notifications.NotificationStorage
}

// SetupTestDB opens a migrated database of dbType and registers cleanup.
// Postgres runs in a throwaway container.
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	switch dbType {
	case config.DatabaseTypeSqlite:
		settings = config.DatabaseSettings{Type: config.DatabaseTypeSqlite, DSN: ":memory:"}
	case config.DatabaseTypePostgres:
		settings = startPostgres(t)
	default:
		t.Fatalf("unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "failed to create database connection")
	t.Cleanup(func() {
		_ = CloseDB(db)
	})

	require.NoError(t, AutoMigrate(db))

	storage, err := NewGormNotificationStorage(db, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	return &TestContext{DB: db, Storage: storage}
}

func startPostgres(t *testing.T) config.DatabaseSettings {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("youtrack_messenger"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return config.DatabaseSettings{
		Type:   config.DatabaseTypePostgres,
		DSN:    dsn,
		DBName: "youtrack_messenger",
	}
}

// NewTestRecord builds a valid SentRecord for id.
func NewTestRecord(t *testing.T, id, batchID string, sentAt time.Time) *notifications.SentRecord {
	t.Helper()

	if batchID == "" {
		batchID = uuid.NewString()
	}
	return &notifications.SentRecord{
		NotificationID: id,
		IssueID:        "DEMO-" + id,
		Title:          "Notification " + id,
		Updated:        "1700000000000",
		BatchID:        batchID,
		SentAt:         sentAt,
	}
}
