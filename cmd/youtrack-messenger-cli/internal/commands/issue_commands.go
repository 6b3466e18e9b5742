package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// IssueCommandHandler files issues and lists projects.
type IssueCommandHandler struct{}

// ProjectsCmd prints the projects issues can be created in
func (commandHandler *IssueCommandHandler) ProjectsCmd(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	client, err := env.youTrack()
	if err != nil {
		return err
	}

	projects, err := client.AvailableProjects(cmd.Context())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects found")
		return nil
	}
	for _, p := range projects {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.ShortName, p.Name)
	}
	return nil
}

// CreateCmd creates an issue whose summary is the joined arguments
func (commandHandler *IssueCommandHandler) CreateCmd(cmd *cobra.Command, args []string) error {
	projectID, err := cmd.Flags().GetString("project")
	if err != nil {
		return fmt.Errorf("invalid project flag: %w", err)
	}
	summary := strings.TrimSpace(strings.Join(args, " "))
	if summary == "" {
		return fmt.Errorf("summary must not be empty")
	}

	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	client, err := env.youTrack()
	if err != nil {
		return err
	}

	created, err := client.CreateIssue(cmd.Context(), summary, projectID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", created.DisplayID(), client.IssueLink(created.DisplayID()))
	return nil
}

// InitIssueCommands registers projects and create.
func InitIssueCommands(rootCmd *cobra.Command) error {
	handler := &IssueCommandHandler{}

	var projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "List YouTrack projects",
		RunE:  handler.ProjectsCmd,
	}
	rootCmd.AddCommand(projectsCmd)

	var createCmd = &cobra.Command{
		Use:   "create <summary>",
		Short: "Create a YouTrack issue",
		Args:  cobra.MinimumNArgs(1),
		RunE:  handler.CreateCmd,
	}
	createCmd.Flags().String("project", "", "Project ID, see the projects command")
	if err := createCmd.MarkFlagRequired("project"); err != nil {
		return fmt.Errorf("failed to mark project flag required: %w", err)
	}
	rootCmd.AddCommand(createCmd)

	return nil
}
