package issues

import "context"

// IssueCreator files issues and lists the projects they can go to.
type IssueCreator interface {
	CreateIssue(ctx context.Context, summary, projectID string) (*CreatedIssue, error)
	AvailableProjects(ctx context.Context) ([]*Project, error)
}
