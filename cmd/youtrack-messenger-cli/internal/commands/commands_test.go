//go:build unit
// +build unit

package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRootCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	rootCmd := &cobra.Command{Use: "youtrack-messenger-cli", SilenceUsage: true, SilenceErrors: true}
	AddPersistentFlags(rootCmd)
	require.NoError(t, InitNotificationCommands(rootCmd))
	require.NoError(t, InitIssueCommands(rootCmd))
	require.NoError(t, InitWebhookCommands(rootCmd))
	require.NoError(t, InitSentCommands(rootCmd))

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	return rootCmd, out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd, out := newRootCmd(t)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProjectsCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/projects", r.URL.Path)
		assert.Equal(t, "Bearer perm:test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"0-1","name":"Demo","shortName":"DEMO"}]`))
	}))
	defer server.Close()

	t.Setenv("YT_BASE_URL", server.URL)
	t.Setenv("YT_TOKEN", "perm:test")

	out, err := execute(t, "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "0-1\tDEMO\tDemo")
}

func TestCreateCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/issues", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"2-7","idReadable":"DEMO-7"}`))
	}))
	defer server.Close()

	t.Setenv("YT_BASE_URL", server.URL)
	t.Setenv("YT_TOKEN", "perm:test")

	out, err := execute(t, "create", "Broken", "login", "--project", "0-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created DEMO-7: "+server.URL+"/issue/DEMO-7")
}

func TestCreateCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing project", []string{"create", "Broken login"}, "project"},
		{"blank summary", []string{"create", "  ", "--project", "0-1"}, "summary must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSentCommands(t *testing.T) {
	t.Setenv("MESSENGER_DATABASE_DSN", filepath.Join(t.TempDir(), "cli.db"))

	out, err := execute(t, "sent", "count")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent notifications: 0")

	out, err = execute(t, "sent", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 0 sent notifications")

	_, err = execute(t, "sent", "list", "--limit", "5000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: Limit, Tag: lte")
}

func TestLoadEnvironment_ExplicitMissingConfig(t *testing.T) {
	_, err := execute(t, "projects", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
