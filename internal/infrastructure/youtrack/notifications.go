package youtrack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

const notificationFields = "id,content,metadata,read,updated"

type notificationDTO struct {
	ID       string          `json:"id"`
	Content  string          `json:"content"`
	Metadata string          `json:"metadata"`
	Read     bool            `json:"read"`
	Updated  json.RawMessage `json:"updated"`
}

type namedValue struct {
	Name string `json:"name"`
}

type metadataDTO struct {
	Header json.RawMessage `json:"header"`
	Issue  struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
		Fields  []struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	} `json:"issue"`
	Change struct {
		Events []struct {
			Category    string       `json:"category"`
			AddedValues []namedValue `json:"addedValues"`
		} `json:"events"`
	} `json:"change"`
	Reason struct {
		TagReasons []namedValue `json:"tagReasons"`
	} `json:"reason"`
}

// FetchNotifications returns the current user's notifications across all
// users the token may see. top <= 0 leaves the page size to the server.
func (c *Client) FetchNotifications(ctx context.Context, top int) ([]*notifications.Notification, error) {
	query := url.Values{}
	query.Set("fields", notificationFields)
	query.Set("all", "true")
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}

	var dtos []notificationDTO
	if err := c.do(ctx, http.MethodGet, "/api/users/notifications", query, nil, &dtos, false); err != nil {
		return nil, err
	}

	list := make([]*notifications.Notification, 0, len(dtos))
	for i := range dtos {
		list = append(list, c.toNotification(&dtos[i]))
	}
	c.logger.Debug("fetched YouTrack notifications", "count", len(list), "top", top)
	return list, nil
}

// FetchNotificationsSince is FetchNotifications restricted to entries
// updated after cursor.
func (c *Client) FetchNotificationsSince(ctx context.Context, cursor string, top int) ([]*notifications.Notification, error) {
	list, err := c.FetchNotifications(ctx, top)
	if err != nil {
		return nil, err
	}
	return notifications.UpdatedAfter(list, cursor), nil
}

func (c *Client) toNotification(dto *notificationDTO) *notifications.Notification {
	n := &notifications.Notification{
		ID:      dto.ID,
		Content: decodeIfGzipBase64(dto.Content),
		Read:    dto.Read,
		Updated: scalarText(dto.Updated),
	}

	raw := decodeIfGzipBase64(dto.Metadata)
	if raw == "" {
		n.Link = c.IssueLink("")
		return n
	}

	var meta metadataDTO
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		c.logger.Warn("ignoring unreadable notification metadata", "notification_id", dto.ID, "error", err)
		n.Link = c.IssueLink("")
		return n
	}

	n.IssueID = meta.Issue.ID
	n.Title = meta.Issue.Summary
	n.Header = scalarText(meta.Header)
	for _, f := range meta.Issue.Fields {
		switch strings.ToLower(f.Name) {
		case "state":
			n.Status = firstSet(n.Status, scalarText(f.Value))
		case "assignee":
			n.Assignee = firstSet(n.Assignee, scalarText(f.Value))
		case "priority":
			n.Priority = firstSet(n.Priority, scalarText(f.Value))
		}
	}
	n.Tags = addedTags(&meta)
	n.Comment = commentText(&meta)
	n.Link = c.IssueLink(n.IssueID)
	return n
}

func firstSet(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}

func addedTags(meta *metadataDTO) []string {
	tags := []string{}
	for _, ev := range meta.Change.Events {
		if ev.Category != "TAGS" {
			continue
		}
		for _, v := range ev.AddedValues {
			tags = append(tags, v.Name)
		}
	}
	if len(tags) > 0 {
		return tags
	}
	for _, r := range meta.Reason.TagReasons {
		tags = append(tags, r.Name)
	}
	return tags
}

func commentText(meta *metadataDTO) string {
	for _, ev := range meta.Change.Events {
		if ev.Category == "COMMENT" && len(ev.AddedValues) > 0 {
			return ev.AddedValues[0].Name
		}
	}
	return ""
}
