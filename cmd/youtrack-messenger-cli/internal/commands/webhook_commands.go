package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// WebhookCommandHandler registers the bot webhook with Telegram.
type WebhookCommandHandler struct{}

// SetCmd points the bot webhook at the given URL
func (commandHandler *WebhookCommandHandler) SetCmd(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	secret, err := cmd.Flags().GetString("secret")
	if err != nil {
		return fmt.Errorf("invalid secret flag: %w", err)
	}
	if secret == "" {
		secret = env.cfg.Telegram.WebhookSecret
	}

	client, err := env.telegram()
	if err != nil {
		return err
	}
	if err := client.SetWebhook(cmd.Context(), args[0], secret); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Webhook set to %s\n", args[0])
	return nil
}

// DeleteCmd removes the bot webhook
func (commandHandler *WebhookCommandHandler) DeleteCmd(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	client, err := env.telegram()
	if err != nil {
		return err
	}
	if err := client.DeleteWebhook(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Webhook deleted")
	return nil
}

// InitWebhookCommands registers the webhook command group.
func InitWebhookCommands(rootCmd *cobra.Command) error {
	handler := &WebhookCommandHandler{}

	var webhookCmd = &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram bot webhook",
	}

	var setCmd = &cobra.Command{
		Use:   "set <url>",
		Short: "Register the webhook URL, e.g. https://host/api/telegram/webhook",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.SetCmd,
	}
	setCmd.Flags().String("secret", "", "Secret token Telegram sends back in every update")
	webhookCmd.AddCommand(setCmd)

	var deleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook",
		RunE:  handler.DeleteCmd,
	}
	webhookCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(webhookCmd)
	return nil
}
