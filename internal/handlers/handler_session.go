package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type sessionHandler struct {
	sessionService portssvc.SessionSvc
}

func newSessionHandler(ss portssvc.SessionSvc) *sessionHandler {
	return &sessionHandler{sessionService: ss}
}

func registerSessionRoutes(church *gin.RouterGroup, sessionService portssvc.SessionSvc) {
	h := newSessionHandler(sessionService)
	church.GET("/session", h.getSession)
}

// getSession godoc
// @Summary Resolve the caller's roles in a church
// @Description Returns the user and the roles held in the church. Anonymous callers and failed lookups get an empty role set.
// @Tags session
// @Produce json
// @Param church_id path string true "Church ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid church ID"
// @Security BearerAuth
// @Router /churches/{church_id}/session [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	identity := middleware.GetIdentityFromContext(c)
	state := h.sessionService.ResolveSession(c.Request.Context(), identity, c.Param("church_id"))
	c.JSON(http.StatusOK, dto.ToSessionResponse(state))
}
