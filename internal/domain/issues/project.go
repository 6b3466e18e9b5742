package issues

import "fmt"

// Project is a YouTrack project an issue can be filed in.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
}

// String renders "name (id)".
func (p Project) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}

// FindProject returns the project with id, if present.
func FindProject(projects []*Project, id string) (*Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CreatedIssue identifies an issue returned by the tracker.
type CreatedIssue struct {
	ID         string `json:"id"`
	ReadableID string `json:"id_readable,omitempty"`
}

// DisplayID prefers the human readable ID such as DEMO-12.
func (c *CreatedIssue) DisplayID() string {
	if c.ReadableID != "" {
		return c.ReadableID
	}
	return c.ID
}
