package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxDueAlertDays bounds the due-soon lookahead.
const maxDueAlertDays = 365

// alertHandler serves the overdue and due-soon views and the overdue sweep.
type alertHandler struct {
	overdueService portssvc.OverdueSvc
	reconciler     portssvc.ReconcilerSvc
}

func newAlertHandler(overdueSvc portssvc.OverdueSvc, reconcilerSvc portssvc.ReconcilerSvc) *alertHandler {
	return &alertHandler{
		overdueService: overdueSvc,
		reconciler:     reconcilerSvc,
	}
}

func registerAlertRoutes(members, writers *gin.RouterGroup, overdueService portssvc.OverdueSvc, reconciler portssvc.ReconcilerSvc) {
	h := newAlertHandler(overdueService, reconciler)

	members.GET("/transactions/overdue", h.listOverdue)
	members.GET("/transactions/due-alerts", h.listDueSoon)
	members.GET("/transactions/due-today", h.listDueToday)

	writers.POST("/transactions/reconcile", h.reconcile)
}

// listOverdue godoc
// @Summary List overdue transactions
// @Description Vencido rows and Pendente rows whose due date has passed, oldest first, with the days overdue. The first call of a session also starts the stored-status sweep for the church.
// @Tags alerts
// @Produce json
// @Param church_id path string true "Church ID"
// @Success 200 {array} dto.OverdueTransactionResponse
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/overdue [get]
func (h *alertHandler) listOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	churchID := c.Param("church_id")

	// Read-side derivation already covers stale rows, so the sweep never
	// holds up the response.
	if h.reconciler != nil {
		h.reconciler.EnsureSwept(c.Request.Context(), middleware.GetIdentityFromContext(c), churchID)
	}

	rows, err := h.overdueService.ListOverdue(c.Request.Context(), churchID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list overdue transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToOverdueTransactionResponses(rows))
}

// listDueSoon godoc
// @Summary List transactions due soon
// @Description Pendente rows due between today and today plus the given number of days, soonest first.
// @Tags alerts
// @Produce json
// @Param church_id path string true "Church ID"
// @Param days query int false "Lookahead in days" default(7)
// @Success 200 {array} dto.DueTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/due-alerts [get]
func (h *alertHandler) listDueSoon(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	days := portssvc.DefaultDueAlertDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxDueAlertDays {
			logger.Warn("Invalid days query parameter", slog.String("days", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
			return
		}
		days = parsed
	}

	rows, err := h.overdueService.ListDueSoon(c.Request.Context(), c.Param("church_id"), days)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list due transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToDueTransactionResponses(rows))
}

// listDueToday godoc
// @Summary List transactions due today
// @Description Pendente rows due today, largest amount first.
// @Tags alerts
// @Produce json
// @Param church_id path string true "Church ID"
// @Success 200 {array} dto.DueTransactionResponse
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/due-today [get]
func (h *alertHandler) listDueToday(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.overdueService.ListDueToday(c.Request.Context(), c.Param("church_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions due today")
		return
	}

	c.JSON(http.StatusOK, dto.ToDueTransactionResponses(rows))
}

// reconcile godoc
// @Summary Run the overdue sweep
// @Description Moves every Pendente row past its due date to Vencido and reports how many rows changed.
// @Tags alerts
// @Produce json
// @Param church_id path string true "Church ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/reconcile [post]
func (h *alertHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	updated, err := h.reconciler.Reconcile(c.Request.Context(), c.Param("church_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to update overdue transactions")
		return
	}

	logger.Info("Overdue sweep completed", slog.Int64("updated_count", updated))
	c.JSON(http.StatusOK, dto.ReconcileResponse{UpdatedCount: updated})
}
