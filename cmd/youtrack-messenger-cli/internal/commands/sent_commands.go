package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zxxqaq/YouTrack-Messenger/internal/app"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// SentCommandHandler inspects and resets the sent-notification store.
type SentCommandHandler struct{}

func (commandHandler *SentCommandHandler) records(cmd *cobra.Command) (notifications.SentRecordService, func(), error) {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return nil, nil, err
	}
	storage, closeStorage, err := env.storage()
	if err != nil {
		return nil, nil, err
	}
	service, err := app.NewSentRecordService(storage, env.logger)
	if err != nil {
		closeStorage()
		return nil, nil, err
	}
	return service, closeStorage, nil
}

// CountCmd prints the number of stored records and the cursor
func (commandHandler *SentCommandHandler) CountCmd(cmd *cobra.Command, _ []string) error {
	service, closeStorage, err := commandHandler.records(cmd)
	if err != nil {
		return err
	}
	defer closeStorage()

	count, err := service.Count(cmd.Context())
	if err != nil {
		return err
	}
	cursor, err := service.Cursor(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent notifications: %d\nCursor: %s\n", count, cursor)
	return nil
}

// ListCmd prints the most recent records
func (commandHandler *SentCommandHandler) ListCmd(cmd *cobra.Command, _ []string) error {
	query := notifications.NewSentRecordQuery()
	var err error
	if query.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return fmt.Errorf("invalid limit flag: %w", err)
	}
	if query.Offset, err = cmd.Flags().GetInt("offset"); err != nil {
		return fmt.Errorf("invalid offset flag: %w", err)
	}
	if err := query.Validate(); err != nil {
		return err
	}

	service, closeStorage, err := commandHandler.records(cmd)
	if err != nil {
		return err
	}
	defer closeStorage()

	records, err := service.List(cmd.Context(), query)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", r.SentAt.Format(time.RFC3339), r.NotificationID, r.IssueID, r.Title)
	}
	return nil
}

// ClearCmd deletes every record so all notifications are sent again
func (commandHandler *SentCommandHandler) ClearCmd(cmd *cobra.Command, _ []string) error {
	service, closeStorage, err := commandHandler.records(cmd)
	if err != nil {
		return err
	}
	defer closeStorage()

	cleared, err := service.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d sent notifications\n", cleared)
	return nil
}

// InitSentCommands registers the sent command group.
func InitSentCommands(rootCmd *cobra.Command) error {
	handler := &SentCommandHandler{}

	var sentCmd = &cobra.Command{
		Use:   "sent",
		Short: "Inspect or reset the sent-notification history",
	}

	sentCmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Show how many notifications were sent",
		RunE:  handler.CountCmd,
	})

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List sent notifications, newest first",
		RunE:  handler.ListCmd,
	}
	listCmd.Flags().Int("limit", 20, "Maximum number of records")
	listCmd.Flags().Int("offset", 0, "Records to skip")
	sentCmd.AddCommand(listCmd)

	sentCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the sent history",
		RunE:  handler.ClearCmd,
	})

	rootCmd.AddCommand(sentCmd)
	return nil
}
