package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
)

// NotificationHandler defines the interface for handling notification delivery
type NotificationHandler interface {
	Broadcast(ctx *gin.Context)
	Preview(ctx *gin.Context)
	ListSent(ctx *gin.Context)
	ClearSent(ctx *gin.Context)
}

type notificationHandler struct {
	broadcastService  notifications.BroadcastService
	sentRecordService notifications.SentRecordService
	defaultTop        int
}

// NewNotificationHandler creates a new NotificationHandler. defaultTop is
// used when a request carries no top parameter.
func NewNotificationHandler(broadcastService notifications.BroadcastService, sentRecordService notifications.SentRecordService, defaultTop int) NotificationHandler {
	return &notificationHandler{
		broadcastService:  broadcastService,
		sentRecordService: sentRecordService,
		defaultTop:        defaultTop,
	}
}

// Broadcast handles the POST request delivering all unsent notifications
// @Summary Send new notifications to the PM chat
// @Tags Notification
// @Produce json
// @Param top query int false "Number of notifications to fetch"
// @Success 200 {object} notifications.BroadcastResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /notifications/broadcast [post]
func (handler *notificationHandler) Broadcast(ctx *gin.Context) {
	top, ok := handler.parseTop(ctx)
	if !ok {
		return
	}

	result, err := handler.broadcastService.SendAllToPM(ctx.Request.Context(), top)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("broadcast failed: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Preview handles the GET request returning the messages the next broadcast would send
// @Summary Preview unsent notifications
// @Tags Notification
// @Produce json
// @Param top query int false "Number of notifications to fetch"
// @Success 200 {array} notifications.Preview
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /notifications/preview [get]
func (handler *notificationHandler) Preview(ctx *gin.Context) {
	top, ok := handler.parseTop(ctx)
	if !ok {
		return
	}

	previews, err := handler.broadcastService.Preview(ctx.Request.Context(), top)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("preview failed: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, previews)
}

// ListSent handles the GET request listing delivered notifications
// @Summary List sent notification records
// @Tags Notification
// @Produce json
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Success 200 {array} SentRecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /notifications/sent [get]
func (handler *notificationHandler) ListSent(ctx *gin.Context) {
	query := notifications.NewSentRecordQuery()

	params := []struct {
		name   string
		target *int
	}{
		{"limit", &query.Limit},
		{"offset", &query.Offset},
	}
	for _, param := range params {
		name, target := param.name, param.target
		raw := ctx.Query(name)
		if len(raw) == 0 {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			var errorResponse ErrorResponse
			errorResponse.Message = fmt.Sprintf("invalid %s: %v", name, raw)
			ctx.JSON(http.StatusBadRequest, errorResponse)
			return
		}
		*target = value
	}

	if err := query.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = err.Error()
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	records, err := handler.sentRecordService.List(ctx.Request.Context(), query)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("list query failed: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	var listResponse = []SentRecordResponse{}
	for _, record := range records {
		listResponse = append(listResponse, newSentRecordResponse(record))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// ClearSent handles the DELETE request wiping the delivery history
// @Summary Clear sent notification records
// @Tags Notification
// @Produce json
// @Success 200 {object} ClearResponse
// @Failure 500 {object} ErrorResponse
// @Router /notifications/sent [delete]
func (handler *notificationHandler) ClearSent(ctx *gin.Context) {
	cleared, err := handler.sentRecordService.Clear(ctx.Request.Context())
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("clear failed: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, ClearResponse{Cleared: cleared})
}

// parseTop reads the top parameter, writing a 400 response when it is invalid.
func (handler *notificationHandler) parseTop(ctx *gin.Context) (int, bool) {
	request := TopRequest{Top: handler.defaultTop}

	if raw := ctx.Query("top"); len(raw) > 0 {
		top, err := strconv.Atoi(raw)
		if err != nil {
			var errorResponse ErrorResponse
			errorResponse.Message = fmt.Sprintf("invalid top: %v", raw)
			ctx.JSON(http.StatusBadRequest, errorResponse)
			return 0, false
		}
		request.Top = top
	}

	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = err.Error()
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return 0, false
	}
	return request.Top, true
}
