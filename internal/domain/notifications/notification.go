package notifications

import (
	"strconv"
	"strings"
)

// Notification is a decoded YouTrack user notification.
type Notification struct {
	ID       string
	Title    string
	Content  string
	Status   string
	Updated  string
	Read     bool
	IssueID  string
	Assignee string
	Priority string
	Header   string
	Comment  string
	Link     string
	Tags     []string
}

// DisplayID prefers the issue ID and falls back to the notification ID.
func (n *Notification) DisplayID() string {
	if strings.TrimSpace(n.IssueID) != "" {
		return n.IssueID
	}
	return n.ID
}

// UpdatedMillis parses Updated as epoch milliseconds.
func (n *Notification) UpdatedMillis() (int64, bool) {
	if n.Updated == "" {
		return 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(n.Updated), 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// LatestUpdated returns the largest Updated value among list, or "" when none parses.
func LatestUpdated(list []*Notification) string {
	var (
		latest int64
		found  bool
	)
	for _, n := range list {
		if ms, ok := n.UpdatedMillis(); ok && (!found || ms > latest) {
			latest, found = ms, true
		}
	}
	if !found {
		return ""
	}
	return strconv.FormatInt(latest, 10)
}

// UpdatedAfter keeps the notifications updated strictly after cursor.
// An empty or unparsable cursor keeps everything. Entries without a
// timestamp are kept so they are not lost to the cursor.
func UpdatedAfter(list []*Notification, cursor string) []*Notification {
	since, err := strconv.ParseInt(strings.TrimSpace(cursor), 10, 64)
	if cursor == "" || err != nil {
		return list
	}

	out := make([]*Notification, 0, len(list))
	for _, n := range list {
		ms, ok := n.UpdatedMillis()
		if !ok || ms > since {
			out = append(out, n)
		}
	}
	return out
}
