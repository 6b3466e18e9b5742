package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/validators"
)

// DefaultTelegramAPIURL is the public Bot API endpoint.
const DefaultTelegramAPIURL = "https://api.telegram.org"

// TelegramSettings configures the bot and its target chats.
type TelegramSettings struct {
	BotToken      string        `mapstructure:"bot_token" validate:"required"`
	GroupChatID   string        `mapstructure:"group_chat_id" validate:"omitempty,chatid"`
	PMChatID      string        `mapstructure:"pm_chat_id" validate:"omitempty,chatid"`
	APIBaseURL    string        `mapstructure:"api_base_url" validate:"required,url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries    uint64        `mapstructure:"max_retries" validate:"lte=10"`
}

// Validate checks TelegramSettings.
func (s *TelegramSettings) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("chatid", validators.ChatIDValidation); err != nil {
		return fmt.Errorf("failed to register chatid validation: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for TelegramSettings: %w", err)
	}
	return nil
}
