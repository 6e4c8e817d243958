package handlers

import (
	"io"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const eventsKeepAlive = 25 * time.Second

// eventHandler streams realtime notices of a church over server-sent events.
type eventHandler struct {
	realtimeService portssvc.RealtimeSvc
	keepAlive       time.Duration
}

func newEventHandler(rs portssvc.RealtimeSvc) *eventHandler {
	return &eventHandler{realtimeService: rs, keepAlive: eventsKeepAlive}
}

func registerEventRoutes(members *gin.RouterGroup, realtimeService portssvc.RealtimeSvc) {
	h := newEventHandler(realtimeService)
	members.GET("/events", h.streamNotices)
}

// streamNotices godoc
// @Summary Stream change notices
// @Description Server-sent events for the church: a "notice" event when a transaction is added or removed, and periodic "ping" events.
// @Tags events
// @Produce text/event-stream
// @Param church_id path string true "Church ID"
// @Success 200 {object} domain.Notice
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 503 {object} map[string]string "Realtime disabled"
// @Security BearerAuth
// @Router /churches/{church_id}/events [get]
func (h *eventHandler) streamNotices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.realtimeService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime notices are disabled"})
		return
	}

	notices, cancel := h.realtimeService.SubscribeNotices(c.Param("church_id"))
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	logger.Info("Notice stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case notice, ok := <-notices:
			if !ok {
				return false
			}
			c.SSEvent("notice", notice)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
	logger.Info("Notice stream closed")
}
