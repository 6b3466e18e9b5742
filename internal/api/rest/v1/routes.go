package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	broadcastService notifications.BroadcastService,
	sentRecordService notifications.SentRecordService,
	webhookProcessor bot.WebhookProcessor,
	schedulerControl bot.SchedulerControl,
	defaultTop int,
	webhookSecret string,
	logger logger.Logger) {

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	})

	api := r.Group(BasePath) // lookup in version file

	// Notification Routes
	notificationHandler := NewNotificationHandler(broadcastService, sentRecordService, defaultTop)
	api.POST("/notifications/broadcast", notificationHandler.Broadcast)
	api.GET("/notifications/preview", notificationHandler.Preview)
	api.GET("/notifications/sent", notificationHandler.ListSent)
	api.DELETE("/notifications/sent", notificationHandler.ClearSent)

	// Telegram Routes
	telegramHandler := NewTelegramHandler(webhookProcessor, webhookSecret, logger)
	api.POST("/telegram/webhook", telegramHandler.Webhook)
	api.GET("/telegram/webhook", telegramHandler.WebhookStatus)
	api.POST("/telegram/test", telegramHandler.Test)

	// Scheduler Routes
	schedulerHandler := NewSchedulerHandler(schedulerControl)
	api.GET("/scheduler", schedulerHandler.Status)
	api.POST("/scheduler/start", schedulerHandler.Start)
	api.POST("/scheduler/stop", schedulerHandler.Stop)
	api.POST("/scheduler/resume", schedulerHandler.Resume)
}
