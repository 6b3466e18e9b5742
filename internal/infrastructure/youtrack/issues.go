package youtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/faults"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/issues"
)

type createIssueRequest struct {
	Summary string `json:"summary"`
	Project struct {
		ID string `json:"id"`
	} `json:"project"`
}

type issueDTO struct {
	ID         string `json:"id"`
	IDReadable string `json:"idReadable"`
}

type projectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// CreateIssue files a new issue with summary in projectID.
func (c *Client) CreateIssue(ctx context.Context, summary, projectID string) (*issues.CreatedIssue, error) {
	payload := createIssueRequest{Summary: summary}
	payload.Project.ID = projectID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode issue: %w", err)
	}

	query := url.Values{}
	query.Set("fields", "id,idReadable")

	var created issueDTO
	if err := c.do(ctx, http.MethodPost, "/api/issues", query, bytes.NewReader(body), &created, true); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("failed to get issue ID from response: %w", faults.ErrIssueTracker)
	}

	c.logger.Info("created YouTrack issue", "issue_id", created.ID, "id_readable", created.IDReadable, "project_id", projectID)
	return &issues.CreatedIssue{ID: created.ID, ReadableID: created.IDReadable}, nil
}

// AvailableProjects lists the projects visible to the token.
// Entries without an ID are skipped and a missing name falls back to the ID.
func (c *Client) AvailableProjects(ctx context.Context) ([]*issues.Project, error) {
	query := url.Values{}
	query.Set("fields", "id,name,shortName")

	var dtos []projectDTO
	if err := c.do(ctx, http.MethodGet, "/api/admin/projects", query, nil, &dtos, false); err != nil {
		return nil, err
	}

	projects := make([]*issues.Project, 0, len(dtos))
	for _, p := range dtos {
		if p.ID == "" {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		projects = append(projects, &issues.Project{ID: p.ID, Name: name, ShortName: p.ShortName})
	}
	return projects, nil
}
