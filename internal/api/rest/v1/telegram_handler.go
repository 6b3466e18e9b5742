package v1

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

// SecretTokenHeader carries the secret registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// MaxUpdateBytes caps the body of an incoming update.
const MaxUpdateBytes = 1 << 20

// TelegramHandler defines the interface for handling Telegram webhook calls
type TelegramHandler interface {
	Webhook(ctx *gin.Context)
	WebhookStatus(ctx *gin.Context)
	Test(ctx *gin.Context)
}

type telegramHandler struct {
	processor bot.WebhookProcessor
	secret    string
	logger    logger.Logger
}

// NewTelegramHandler creates a new TelegramHandler. An empty secret disables
// the secret header check.
func NewTelegramHandler(processor bot.WebhookProcessor, secret string, logger logger.Logger) TelegramHandler {
	return &telegramHandler{processor: processor, secret: secret, logger: logger}
}

// Webhook handles updates pushed by Telegram. Processing errors are logged
// and still answered with 200 so Telegram does not redeliver the update.
func (handler *telegramHandler) Webhook(ctx *gin.Context) {
	if handler.secret != "" {
		got := ctx.GetHeader(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(handler.secret)) != 1 {
			ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid secret token"})
			return
		}
	}

	payload, err := readUpdate(ctx)
	if err != nil {
		handler.logger.Error("failed to read webhook body", "error", err)
		if isTooLarge(err) {
			ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Message: err.Error()})
			return
		}
		ctx.Status(http.StatusOK)
		return
	}

	if err := handler.processor.ProcessWebhook(ctx.Request.Context(), payload); err != nil {
		handler.logger.Error("error processing webhook", "error", err)
	}
	ctx.Status(http.StatusOK)
}

// WebhookStatus confirms the endpoint is reachable
func (handler *telegramHandler) WebhookStatus(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Telegram webhook endpoint is active")
}

// Test processes a hand-crafted update and reports the outcome as text
func (handler *telegramHandler) Test(ctx *gin.Context) {
	payload, err := readUpdate(ctx)
	if isTooLarge(err) {
		ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Message: err.Error()})
		return
	}
	if err == nil {
		err = handler.processor.ProcessWebhook(ctx.Request.Context(), payload)
	}
	if err != nil {
		ctx.String(http.StatusOK, fmt.Sprintf("Error: %v", err))
		return
	}
	ctx.String(http.StatusOK, "Webhook processed successfully")
}

func readUpdate(ctx *gin.Context) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, MaxUpdateBytes))
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
