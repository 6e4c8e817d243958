package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// transactionHandler handles HTTP requests related to church transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers reads on the members group and
// mutations on the writers group. Both are rooted at /churches/:church_id.
func registerTransactionRoutes(members, writers *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	reads := members.Group("/transactions")
	{
		reads.GET("", h.listRecentTransactions)
		reads.GET("/filtered", h.listFilteredTransactions)
		reads.GET("/stats", h.getTransactionStats)
		reads.GET("/installment-stats", h.getInstallmentStats)
		reads.GET("/:transaction_id", h.getTransaction)
	}

	writes := writers.Group("/transactions")
	{
		writes.POST("", h.createTransaction)
		writes.PATCH("/:transaction_id", h.updateTransaction)
		writes.POST("/:transaction_id/pay", h.markTransactionPaid)
		writes.DELETE("/:transaction_id", h.deleteTransaction)
	}
}

// transactionIDParam validates the :transaction_id path segment.
func transactionIDParam(c *gin.Context, logger *slog.Logger) (string, bool) {
	transactionID := c.Param("transaction_id")
	if _, err := uuid.Parse(transactionID); err != nil {
		logger.Warn("Invalid transaction ID in path", slog.String("transaction_id", transactionID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return "", false
	}
	return transactionID, true
}

// listRecentTransactions godoc
// @Summary List latest transactions
// @Description Lists the most recently created transactions of a church. Pending rows past their due date are reported as Vencido.
// @Tags transactions
// @Produce json
// @Param church_id path string true "Church ID"
// @Param limit query int false "Maximum rows" default(50)
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions [get]
func (h *transactionHandler) listRecentTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	churchID := c.Param("church_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			logger.Warn("Invalid limit query parameter", slog.String("limit", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	txns, err := h.transactionService.ListRecentTransactions(c.Request.Context(), churchID, limit)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// listFilteredTransactions godoc
// @Summary Filter transactions
// @Description Lists transactions of a church matching the filter screen, newest first, with token pagination. status=Vencido also matches pending rows past their due date.
// @Tags transactions
// @Produce json
// @Param church_id path string true "Church ID"
// @Param status query string false "Pendente, Pago or Vencido"
// @Param type query string false "Receita or Despesa"
// @Param categoryID query string false "Category ID"
// @Param ministryID query string false "Ministry ID"
// @Param dueFrom query string false "Due date lower bound (YYYY-MM-DD)"
// @Param dueTo query string false "Due date upper bound (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/filtered [get]
func (h *transactionHandler) listFilteredTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	churchID := c.Param("church_id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for filtered transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListFilteredTransactions(c.Request.Context(), churchID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list filtered transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTransactionStats godoc
// @Summary Dashboard totals
// @Description Paid revenue and expense of the current month plus pending and overdue totals.
// @Tags transactions
// @Produce json
// @Param church_id path string true "Church ID"
// @Success 200 {object} domain.TransactionStats
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/stats [get]
func (h *transactionHandler) getTransactionStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.transactionService.GetTransactionStats(c.Request.Context(), c.Param("church_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute transaction stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getInstallmentStats godoc
// @Summary Installment progress
// @Description Paid, pending and overdue counts per installment group, with the amount still to settle.
// @Tags transactions
// @Produce json
// @Param church_id path string true "Church ID"
// @Success 200 {array} domain.InstallmentGroupStats
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/installment-stats [get]
func (h *transactionHandler) getInstallmentStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.transactionService.GetInstallmentStats(c.Request.Context(), c.Param("church_id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute installment stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param church_id path string true "Church ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("church_id"), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		respondWithError(c, logger, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Records a revenue or expense. Status defaults to Pendente; Pago without a payment date is paid today.
// @Tags transactions
// @Accept json
// @Produce json
// @Param church_id path string true "Church ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} dto.GuardRedirectResponse
// @Failure 403 {object} dto.GuardRedirectResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	churchID := c.Param("church_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), churchID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Edits the given fields. Leaving Pago clears the payment date.
// @Tags transactions
// @Accept json
// @Produce json
// @Param church_id path string true "Church ID"
// @Param transaction_id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/{transaction_id} [patch]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), c.Param("church_id"), transactionID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// markTransactionPaid godoc
// @Summary Mark a transaction as paid
// @Tags transactions
// @Accept json
// @Produce json
// @Param church_id path string true "Church ID"
// @Param transaction_id path string true "Transaction ID"
// @Param payment body dto.MarkPaidRequest false "Payment date, defaults to today"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/{transaction_id}/pay [post]
func (h *transactionHandler) markTransactionPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// The body is optional.
	var req dto.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for MarkTransactionPaid", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}

	txn, err := h.transactionService.MarkTransactionPaid(c.Request.Context(), c.Param("church_id"), transactionID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to mark transaction as paid")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param church_id path string true "Church ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /churches/{church_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("church_id"), transactionID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		respondWithError(c, logger, err, "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}
