package telegram

import (
	"context"
	"strings"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

type webhookHandler struct {
	commands bot.CommandHandler
	logger   logger.Logger
}

// NewWebhookHandler creates a WebhookProcessor dispatching text messages to commands.
func NewWebhookHandler(commands bot.CommandHandler, logger logger.Logger) (bot.WebhookProcessor, error) {
	return &webhookHandler{commands: commands, logger: logger}, nil
}

// ProcessWebhook parses payload and forwards non-empty text messages.
func (h *webhookHandler) ProcessWebhook(ctx context.Context, payload []byte) error {
	update, ok, err := ParseUpdate(payload)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(update.Text) == "" {
		h.logger.Debug("ignoring update without text message")
		return nil
	}

	h.logger.Info("received Telegram message", "chat_id", update.ChatID, "user_id", update.UserID)
	return h.commands.HandleMessage(ctx, update.Text, update.ChatID, update.UserID)
}
