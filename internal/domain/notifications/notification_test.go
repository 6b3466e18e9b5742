//go:build unit
// +build unit

package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_DisplayID(t *testing.T) {
	assert.Equal(t, "DEMO-1", (&Notification{ID: "516-1", IssueID: "DEMO-1"}).DisplayID())
	assert.Equal(t, "516-1", (&Notification{ID: "516-1", IssueID: "  "}).DisplayID())
}

func TestLatestUpdated(t *testing.T) {
	list := []*Notification{
		{ID: "1", Updated: "1700000000000"},
		{ID: "2", Updated: "not-a-number"},
		{ID: "3", Updated: "1700000005000"},
		{ID: "4"},
	}
	assert.Equal(t, "1700000005000", LatestUpdated(list))
	assert.Equal(t, "", LatestUpdated([]*Notification{{ID: "x"}}))
	assert.Equal(t, "", LatestUpdated(nil))
}

func TestUpdatedAfter(t *testing.T) {
	list := []*Notification{
		{ID: "old", Updated: "100"},
		{ID: "same", Updated: "200"},
		{ID: "new", Updated: "300"},
		{ID: "unknown"},
	}

	tests := []struct {
		name   string
		cursor string
		want   []string
	}{
		{name: "empty cursor keeps all", cursor: "", want: []string{"old", "same", "new", "unknown"}},
		{name: "invalid cursor keeps all", cursor: "yesterday", want: []string{"old", "same", "new", "unknown"}},
		{name: "strictly after", cursor: "200", want: []string{"new", "unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, n := range UpdatedAfter(list, tt.cursor) {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSentRecord_Validate(t *testing.T) {
	n := &Notification{ID: "516-1", IssueID: "DEMO-1", Title: strings.Repeat("x", 2000), Updated: "1700000000000"}
	record := NewSentRecord(n, uuid.NewString(), time.Now())

	require.NoError(t, record.Validate())
	assert.Len(t, record.Title, 1024)

	record.BatchID = "batch"
	err := record.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: BatchID, Tag: uuid4")

	missing := &SentRecord{BatchID: uuid.NewString(), SentAt: time.Now()}
	err = missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: NotificationID, Tag: required")
}

func TestSentRecordQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *SentRecordQuery
		wantErr bool
	}{
		{name: "default", query: NewSentRecordQuery()},
		{name: "zero limit", query: &SentRecordQuery{}, wantErr: true},
		{name: "limit too large", query: &SentRecordQuery{Limit: 1001}, wantErr: true},
		{name: "negative offset", query: &SentRecordQuery{Limit: 10, Offset: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
