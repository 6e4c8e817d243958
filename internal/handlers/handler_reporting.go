package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/period-summary", h.getPeriodSummary)
	}
}

// getPeriodSummary godoc
// @Summary Generate period summary report
// @Description Paid revenue and expense in a period, broken down by category and by ministry
// @Tags reports
// @Produce json
// @Param church_id path string true "Church ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.PeriodSummaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /churches/{church_id}/reports/period-summary [get]
func (h *reportingHandler) getPeriodSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	churchID := c.Param("church_id")

	var params dto.PeriodSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for period summary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD for from and to"})
		return
	}

	// Binding already checked the layout.
	from, _ := domain.ParseDate(params.From)
	to, _ := domain.ParseDate(params.To)
	if from.After(to) {
		logger.Warn("Invalid date range", slog.String("from", params.From), slog.String("to", params.To))
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before or equal to to"})
		return
	}

	logger = logger.With(slog.String("from", params.From), slog.String("to", params.To))
	logger.Info("Received request to generate period summary report")

	summary, err := h.reportingService.PeriodSummary(c.Request.Context(), churchID, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate period summary report")
		return
	}

	logger.Info("Period summary report generated successfully",
		slog.Int("categories", len(summary.ByCategory)),
		slog.Int("ministries", len(summary.ByMinistry)))
	c.JSON(http.StatusOK, dto.ToPeriodSummaryResponse(summary))
}
