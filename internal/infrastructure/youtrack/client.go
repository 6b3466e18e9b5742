// Package youtrack talks to the YouTrack REST API: it reads user
// notifications, creates issues and lists projects.
package youtrack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/faults"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

const maxErrorBody = 512

// APIError is a non-2xx answer from YouTrack.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("YouTrack %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// Unwrap lets callers match faults.ErrIssueTracker.
func (e *APIError) Unwrap() error {
	return faults.ErrIssueTracker
}

// Client is a YouTrack REST client authenticated with a permanent token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  logger.Logger
}

// NewClient creates a Client from settings.
func NewClient(settings *config.YouTrackSettings, logger logger.Logger) (*Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: settings.NormalizedBaseURL(),
		token:   settings.Token,
		http:    &http.Client{Timeout: settings.Timeout},
		logger:  logger,
	}, nil
}

// BaseURL returns the normalized instance URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IssueLink returns the browser URL of issueID.
func (c *Client) IssueLink(issueID string) string {
	return c.baseURL + "/issue/" + issueID
}

// do sends a request to path and decodes a JSON answer into out.
// withBody adds the response body to APIError messages.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out interface{}, withBody bool) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + encodeQuery(query)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build YouTrack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("YouTrack %s %s failed: %w: %w", method, path, faults.ErrIssueTracker, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close YouTrack response body", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if withBody {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			apiErr.Body = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode YouTrack response: %w: %w", faults.ErrIssueTracker, err)
	}
	return nil
}

// encodeQuery is url.Values.Encode without escaping '$' and ',' so
// parameters like $top and field lists read the way YouTrack documents them.
func encodeQuery(v url.Values) string {
	return strings.NewReplacer("%24", "$", "%2C", ",").Replace(v.Encode())
}
