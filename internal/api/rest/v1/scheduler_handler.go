package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
)

// SchedulerHandler defines the interface for controlling the polling loop
type SchedulerHandler interface {
	Status(ctx *gin.Context)
	Start(ctx *gin.Context)
	Stop(ctx *gin.Context)
	Resume(ctx *gin.Context)
}

type schedulerHandler struct {
	scheduler bot.SchedulerControl
}

// NewSchedulerHandler creates a new SchedulerHandler
func NewSchedulerHandler(scheduler bot.SchedulerControl) SchedulerHandler {
	return &schedulerHandler{scheduler: scheduler}
}

// Status returns the scheduler state and its health snapshot
// @Summary Scheduler status
// @Tags Scheduler
// @Produce json
// @Success 200 {object} bot.SchedulerStatus
// @Router /scheduler [get]
func (handler *schedulerHandler) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, handler.scheduler.Status())
}

// Start enables polling and lifts any pause. A scheduler disabled in
// configuration answers 409.
func (handler *schedulerHandler) Start(ctx *gin.Context) {
	if !handler.scheduler.Status().Enabled {
		ctx.JSON(http.StatusConflict, ErrorResponse{Message: "scheduler is disabled in configuration"})
		return
	}

	changed := handler.scheduler.Start()
	ctx.JSON(http.StatusOK, actionResponse(changed, "scheduler started", "scheduler already running"))
}

// Stop disables polling
func (handler *schedulerHandler) Stop(ctx *gin.Context) {
	changed := handler.scheduler.Stop()
	ctx.JSON(http.StatusOK, actionResponse(changed, "scheduler stopped", "scheduler already stopped"))
}

// Resume lifts a pause caused by repeated failures
func (handler *schedulerHandler) Resume(ctx *gin.Context) {
	changed := handler.scheduler.Resume()
	ctx.JSON(http.StatusOK, actionResponse(changed, "scheduler resumed", "scheduler was not paused"))
}

func actionResponse(changed bool, done, unchanged string) SchedulerActionResponse {
	if changed {
		return SchedulerActionResponse{Changed: true, Message: done}
	}
	return SchedulerActionResponse{Changed: false, Message: unchanged}
}
