package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// FunctionsPrefix is where serverless-style functions are mounted.
const FunctionsPrefix = "/functions"

// functionCORS is open to any origin: the functions authenticate with the
// caller's Google token, not with our session.
var functionCORS = cors.Config{
	AllowAllOrigins: true,
	AllowMethods:    []string{http.MethodPost, http.MethodOptions},
	AllowHeaders:    []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
}

// sheetsHandler proxies the Google Sheets listing.
type sheetsHandler struct {
	sheetsService portssvc.SheetsSvc
}

func newSheetsHandler(ss portssvc.SheetsSvc) *sheetsHandler {
	return &sheetsHandler{sheetsService: ss}
}

// registerFunctionRoutes registers the serverless-style functions. Preflight
// requests are answered by the CORS middleware, which needs a matching
// OPTIONS route to run at all.
func registerFunctionRoutes(r *gin.Engine, sheetsService portssvc.SheetsSvc, sheetsLimiter *limiter.Limiter) {
	h := newSheetsHandler(sheetsService)

	fn := r.Group(FunctionsPrefix, cors.New(functionCORS))
	listSheets := []gin.HandlerFunc{h.listSheets}
	if sheetsLimiter != nil {
		listSheets = append([]gin.HandlerFunc{middleware.RateLimit(sheetsLimiter, "list-sheets", middleware.KeyByClientIP)}, listSheets...)
	}
	fn.POST("/list-sheets", listSheets...)
	fn.OPTIONS("/list-sheets", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

// listSheets godoc
// @Summary List Google spreadsheets
// @Description Lists the spreadsheets visible to the given Google OAuth access token. Every failure is reported with status 500 and the error message.
// @Tags functions
// @Accept json
// @Produce json
// @Param request body dto.ListSheetsRequest true "Google access token"
// @Success 200 {object} dto.ListSheetsResponse
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} dto.FunctionErrorResponse
// @Router /functions/list-sheets [post]
func (h *sheetsHandler) listSheets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ListSheetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for list-sheets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.FunctionErrorResponse{Error: "accessToken is required"})
		return
	}

	sheets, err := h.sheetsService.ListSpreadsheets(c.Request.Context(), req.AccessToken)
	if err != nil {
		logger.Error("Failed to list spreadsheets", slog.String("error", err.Error()))
		msg := err.Error()
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		c.JSON(http.StatusInternalServerError, dto.FunctionErrorResponse{Error: msg})
		return
	}

	logger.Info("Spreadsheets listed", slog.Int("count", len(sheets)))
	c.JSON(http.StatusOK, dto.ListSheetsResponse{Sheets: sheets})
}
