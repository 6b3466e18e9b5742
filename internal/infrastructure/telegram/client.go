// Package telegram sends MarkdownV2 messages through the Telegram Bot API
// and parses incoming webhook updates.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/faults"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

// ParseModeMarkdownV2 is sent with every message.
const ParseModeMarkdownV2 = "MarkdownV2"

const maxErrorBody = 1024

// APIError is a non-2xx answer from the Bot API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Telegram API error: HTTP %d %s", e.StatusCode, e.Body)
}

// Unwrap lets callers match faults.ErrMessenger.
func (e *APIError) Unwrap() error {
	return faults.ErrMessenger
}

// retryable reports whether a later attempt may succeed.
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Client is a Bot API client bound to one bot token.
type Client struct {
	apiBaseURL      string
	botToken        string
	groupChatID     string
	pmChatID        string
	maxRetries      uint64
	initialInterval time.Duration
	http            *http.Client
	logger          logger.Logger
}

// NewClient creates a Client from settings.
func NewClient(settings *config.TelegramSettings, logger logger.Logger) (*Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		apiBaseURL:      strings.TrimRight(settings.APIBaseURL, "/"),
		botToken:        settings.BotToken,
		groupChatID:     settings.GroupChatID,
		pmChatID:        settings.PMChatID,
		maxRetries:      settings.MaxRetries,
		initialInterval: 500 * time.Millisecond,
		http:            &http.Client{Timeout: settings.Timeout},
		logger:          logger,
	}, nil
}

// SendToGroup sends text to the configured group chat.
func (c *Client) SendToGroup(ctx context.Context, text string) error {
	if c.groupChatID == "" {
		return fmt.Errorf("telegram group chat id is not configured: %w", faults.ErrMessenger)
	}
	return c.SendToChat(ctx, c.groupChatID, text)
}

// SendToPM sends text to the configured private chat.
func (c *Client) SendToPM(ctx context.Context, text string) error {
	if c.pmChatID == "" {
		return fmt.Errorf("telegram pm chat id is not configured: %w", faults.ErrMessenger)
	}
	return c.SendToChat(ctx, c.pmChatID, text)
}

// SendToChat sends text to chatID.
func (c *Client) SendToChat(ctx context.Context, chatID, text string) error {
	if chatID == "" {
		return fmt.Errorf("telegram chat id is empty: %w", faults.ErrMessenger)
	}

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", ParseModeMarkdownV2)
	form.Set("disable_web_page_preview", "true")
	form.Set("allow_sending_without_reply", "true")

	return c.call(ctx, "sendMessage", form)
}

// SetWebhook registers webhookURL with Telegram. A non-empty secret is
// echoed back by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	form := url.Values{}
	form.Set("url", webhookURL)
	form.Set("allowed_updates", `["message"]`)
	if secret != "" {
		form.Set("secret_token", secret)
	}
	return c.call(ctx, "setWebhook", form)
}

// DeleteWebhook removes the registered webhook.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", url.Values{})
}

// call posts form to method, retrying rate limits, server errors and
// transport failures with exponential backoff.
func (c *Client) call(ctx context.Context, method string, form url.Values) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := c.post(ctx, method, form)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		c.logger.Warn("telegram call failed, retrying", "method", method, "attempt", attempt, "error", err)
		return err
	}, retry)
	if err != nil {
		return err
	}

	c.logger.Debug("telegram call succeeded", "method", method, "attempts", attempt)
	return nil
}

func (c *Client) post(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiBaseURL, c.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build Telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the endpoint, which contains the bot token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("Telegram %s failed: %w: %w", method, faults.ErrMessenger, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close Telegram response body", "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && !parsed.OK {
		return &APIError{StatusCode: resp.StatusCode, Body: parsed.Description}
	}
	return nil
}
