// Package main is the entry point for the youtrack-messenger-cli application.
// It registers the notification, issue, webhook and sent-history command
// groups on the root command and executes it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	commands "github.com/zxxqaq/YouTrack-Messenger/cmd/youtrack-messenger-cli/internal/commands"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	// Credentials may live in a local .env as in existing deployments
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "youtrack-messenger-cli",
		Short: "YouTrack to Telegram notification CLI",
		Long: `youtrack-messenger-cli reads YouTrack notifications and forwards them to Telegram.
It can also create issues, list projects, manage the bot webhook and the sent history.

Credentials are read from the configuration file or from the environment:
- YT_BASE_URL, YT_TOKEN
- TG_BOT_TOKEN, TG_GROUP_CHAT_ID, TG_PM_CHAT_ID`,
		SilenceUsage: true,
	}
	commands.AddPersistentFlags(rootCmd)

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitNotificationCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize notification commands: %w", err)
	}

	if err := commands.InitIssueCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize issue commands: %w", err)
	}

	if err := commands.InitWebhookCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize webhook commands: %w", err)
	}

	if err := commands.InitSentCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize sent commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
