package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zxxqaq/YouTrack-Messenger/internal/app"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// NotificationCommandHandler reads and forwards YouTrack notifications.
type NotificationCommandHandler struct{}

// FetchCmd prints the decoded notifications
func (commandHandler *NotificationCommandHandler) FetchCmd(cmd *cobra.Command, _ []string) error {
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("invalid top flag: %w", err)
	}
	since, err := cmd.Flags().GetString("since")
	if err != nil {
		return fmt.Errorf("invalid since flag: %w", err)
	}

	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	client, err := env.youTrack()
	if err != nil {
		return err
	}

	var list []*notifications.Notification
	if since != "" {
		list, err = client.FetchNotificationsSince(cmd.Context(), since, top)
	} else {
		list, err = client.FetchNotifications(cmd.Context(), top)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched %d notifications\n", len(list))
	for _, n := range list {
		fmt.Fprintf(out, "\nID: %s\nIssue: %s\nTitle: %s\nStatus: %s\nContent: %s\nUpdated: %s\nRead: %t\n",
			n.ID, n.IssueID, n.Title, n.Status, n.Content, n.Updated, n.Read)
	}
	return nil
}

// PreviewCmd prints the messages the next run would send
func (commandHandler *NotificationCommandHandler) PreviewCmd(cmd *cobra.Command, _ []string) error {
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("invalid top flag: %w", err)
	}

	service, closeStorage, env, err := newBroadcastService(cmd)
	if err != nil {
		return err
	}
	defer closeStorage()

	previews, err := service.Preview(cmd.Context(), top)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range previews {
		fmt.Fprintf(out, "--- %s (%s)\n%s\n", p.NotificationID, p.IssueID, p.Message)
	}
	env.logger.Info("preview finished", "unsent", len(previews))
	return nil
}

// PollCmd forwards new notifications right away and then every interval
// until interrupted. With --dry-run nothing is sent or recorded.
func (commandHandler *NotificationCommandHandler) PollCmd(cmd *cobra.Command, _ []string) error {
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("invalid top flag: %w", err)
	}
	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil {
		return fmt.Errorf("invalid interval flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("invalid dry-run flag: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	service, closeStorage, env, err := newBroadcastService(cmd)
	if err != nil {
		return err
	}
	defer closeStorage()

	poll := func(ctx context.Context) {
		if dryRun {
			previews, err := service.Preview(ctx, top)
			if err != nil {
				env.logger.Error("poll failed", "error", err)
				return
			}
			for _, p := range previews {
				env.logger.Info("dry run", "notification_id", p.NotificationID, "message", p.Message)
			}
			return
		}

		result, err := service.SendAllToPM(ctx, top)
		if err != nil {
			env.logger.Error("poll failed", "error", err)
			return
		}
		env.logger.Info("poll finished", "sent", result.Sent, "fetched", result.Fetched)
	}

	ctx := cmd.Context()
	poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			env.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			poll(ctx)
		}
	}
}

func newBroadcastService(cmd *cobra.Command) (notifications.BroadcastService, func(), *environment, error) {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	tracker, err := env.youTrack()
	if err != nil {
		return nil, nil, nil, err
	}
	messenger, err := env.telegram()
	if err != nil {
		return nil, nil, nil, err
	}
	storage, closeStorage, err := env.storage()
	if err != nil {
		return nil, nil, nil, err
	}

	service, err := app.NewNotifyService(tracker, messenger, storage, env.cfg.Scheduler.Pagination, env.logger)
	if err != nil {
		closeStorage()
		return nil, nil, nil, err
	}
	return service, closeStorage, env, nil
}

// InitNotificationCommands registers fetch, preview and poll.
func InitNotificationCommands(rootCmd *cobra.Command) error {
	handler := &NotificationCommandHandler{}

	var fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Print YouTrack notifications",
		RunE:  handler.FetchCmd,
	}
	fetchCmd.Flags().Int("top", 20, "Maximum number of notifications to fetch")
	fetchCmd.Flags().String("since", "", "Only show notifications updated after this epoch millis cursor")
	rootCmd.AddCommand(fetchCmd)

	var previewCmd = &cobra.Command{
		Use:   "preview",
		Short: "Print the Telegram messages of notifications not sent yet",
		RunE:  handler.PreviewCmd,
	}
	previewCmd.Flags().Int("top", 20, "Maximum number of notifications to fetch")
	rootCmd.AddCommand(previewCmd)

	var pollCmd = &cobra.Command{
		Use:   "poll",
		Short: "Forward new notifications now and then periodically",
		RunE:  handler.PollCmd,
	}
	pollCmd.Flags().Int("top", 20, "Maximum number of notifications to fetch")
	pollCmd.Flags().Duration("interval", 10*time.Minute, "Time between polls")
	pollCmd.Flags().Bool("dry-run", false, "Log the formatted messages instead of sending them")
	rootCmd.AddCommand(pollCmd)

	return nil
}
