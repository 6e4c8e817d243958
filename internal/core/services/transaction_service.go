package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultRecentLimit   = 50
	maxRecentLimit       = 500
	defaultFilteredLimit = 20
)

// transactionService implements TransactionSvcFacade. Reads go through the
// query cache. A successful write invalidates every transaction-derived key
// of its church right away; writes made elsewhere arrive through the change
// feed.
type transactionService struct {
	BaseService
	txnRepo  portsrepo.TransactionRepositoryFacade
	calendar Calendar
	cache    *cache.QueryCache
}

// TransactionServiceOption configures the transaction service.
type TransactionServiceOption func(*transactionService)

// WithTransactionCache serves reads through the query cache.
func WithTransactionCache(c *cache.QueryCache) TransactionServiceOption {
	return func(s *transactionService) {
		s.cache = c
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, calendar Calendar, opts ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	s := &transactionService{txnRepo: txnRepo, calendar: calendar}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) invalidate(churchID string) {
	if s.cache != nil {
		s.cache.Invalidate(churchID, domain.TransactionQueryKeys...)
	}
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("invalid %s, expected YYYY-MM-DD", field))
	}
	return &d, nil
}

func validateTransaction(t *domain.Transaction) error {
	if strings.TrimSpace(t.Description) == "" {
		return apperrors.NewValidationFailedError("description is required")
	}
	if !t.Type.IsValid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("invalid transaction type %q", t.Type))
	}
	if !t.Status.IsValid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("invalid transaction status %q", t.Status))
	}
	if !t.Amount.IsPositive() {
		return apperrors.NewValidationFailedError("amount must be positive")
	}
	if t.Status != domain.StatusPaid && t.PaymentDate != nil {
		return apperrors.NewValidationFailedError("payment date is only allowed on paid transactions")
	}
	installmentSet := t.InstallmentGroup != nil || t.InstallmentNumber != nil || t.InstallmentTotal != nil
	if installmentSet {
		if t.InstallmentGroup == nil || t.InstallmentNumber == nil || t.InstallmentTotal == nil {
			return apperrors.NewValidationFailedError("installment group, number and total must be given together")
		}
		if *t.InstallmentNumber < 1 || *t.InstallmentNumber > *t.InstallmentTotal {
			return apperrors.NewValidationFailedError("installment number must be between 1 and the installment total")
		}
	}
	return nil
}

// withEffectiveStatus reports stored Pendente rows past due as Vencido.
func withEffectiveStatus(rows []domain.Transaction, today time.Time) []domain.Transaction {
	out := make([]domain.Transaction, len(rows))
	for i, t := range rows {
		t.Status = t.EffectiveStatus(today)
		out[i] = t
	}
	return out
}

// --- Reads ---

func (s *transactionService) GetTransaction(ctx context.Context, churchID, transactionID string) (*domain.Transaction, error) {
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, churchID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	txn.Status = txn.EffectiveStatus(today)
	return txn, nil
}

func (s *transactionService) ListRecentTransactions(ctx context.Context, churchID string, limit int) ([]domain.Transaction, error) {
	if churchID == "" {
		return []domain.Transaction{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyTransactions, dayVariant(today, strconv.Itoa(limit)),
		func(ctx context.Context) ([]domain.Transaction, error) {
			q := domain.NewTransactionQuery(churchID).Sort(domain.FieldCreatedAt, true)
			q.Limit = limit
			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to list transactions: %w", err)
			}
			return withEffectiveStatus(rows, today), nil
		})
}

func (s *transactionService) ListFilteredTransactions(ctx context.Context, churchID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if churchID == "" {
		return &dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}
	q, err := buildFilteredQuery(churchID, params, today)
	if err != nil {
		return nil, err
	}

	token := ""
	if params.NextToken != nil {
		token = *params.NextToken
	}
	variant := dayVariant(today, params.Status, params.Type, params.CategoryID, params.MinistryID,
		params.DueFrom, params.DueTo, strconv.Itoa(q.Limit), token)

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyFilteredTransactions, variant,
		func(ctx context.Context) (*dto.ListTransactionsResponse, error) {
			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to list filtered transactions: %w", err)
			}
			return &dto.ListTransactionsResponse{
				Transactions: dto.ToTransactionResponses(withEffectiveStatus(rows, today)),
				NextToken:    pagination.NextToken(rows, q.Limit),
			}, nil
		})
}

func buildFilteredQuery(churchID string, params dto.ListTransactionsParams, today time.Time) (*domain.TransactionQuery, error) {
	q := domain.NewTransactionQuery(churchID)

	switch domain.TransactionStatus(params.Status) {
	case "":
	case domain.StatusOverdue:
		q.Filter(domain.Or(
			domain.Eq(domain.FieldStatus, domain.StatusOverdue),
			domain.And(
				domain.Eq(domain.FieldStatus, domain.StatusPending),
				domain.Lt(domain.FieldDueDate, today),
			),
		))
	case domain.StatusPending:
		q.Filter(
			domain.Eq(domain.FieldStatus, domain.StatusPending),
			domain.Or(domain.IsNull(domain.FieldDueDate), domain.Gte(domain.FieldDueDate, today)),
		)
	case domain.StatusPaid:
		q.Filter(domain.Eq(domain.FieldStatus, domain.StatusPaid))
	default:
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("invalid status filter %q", params.Status))
	}

	if params.Type != "" {
		t := domain.TransactionType(params.Type)
		if !t.IsValid() {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("invalid type filter %q", params.Type))
		}
		q.Filter(domain.Eq(domain.FieldType, t))
	}
	if params.CategoryID != "" {
		q.Filter(domain.Eq(domain.FieldCategoryID, params.CategoryID))
	}
	if params.MinistryID != "" {
		q.Filter(domain.Eq(domain.FieldMinistryID, params.MinistryID))
	}
	if params.DueFrom != "" {
		from, err := domain.ParseDate(params.DueFrom)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("invalid dueFrom, expected YYYY-MM-DD")
		}
		q.Filter(domain.Gte(domain.FieldDueDate, from))
	}
	if params.DueTo != "" {
		to, err := domain.ParseDate(params.DueTo)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("invalid dueTo, expected YYYY-MM-DD")
		}
		q.Filter(domain.Lte(domain.FieldDueDate, to))
	}
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeCursorToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("invalid nextToken")
		}
		q.After = cursor
	}

	q.Sort(domain.FieldCreatedAt, true)
	q.Limit = params.Limit
	if q.Limit <= 0 {
		q.Limit = defaultFilteredLimit
	}
	return q, nil
}

func (s *transactionService) GetTransactionStats(ctx context.Context, churchID string) (*domain.TransactionStats, error) {
	if churchID == "" {
		return &domain.TransactionStats{}, nil
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyTransactionStats, dayVariant(today),
		func(ctx context.Context) (*domain.TransactionStats, error) {
			q := domain.NewTransactionQuery(churchID).Filter(domain.Or(
				domain.Eq(domain.FieldStatus, domain.StatusPending),
				domain.Eq(domain.FieldStatus, domain.StatusOverdue),
				domain.And(
					domain.Eq(domain.FieldStatus, domain.StatusPaid),
					domain.Gte(domain.FieldPaymentDate, monthStart),
					domain.Lte(domain.FieldPaymentDate, monthEnd),
				),
			))
			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to query transaction stats: %w", err)
			}
			return computeStats(rows, today), nil
		})
}

func computeStats(rows []domain.Transaction, today time.Time) *domain.TransactionStats {
	stats := &domain.TransactionStats{
		MonthRevenue: decimal.Zero,
		MonthExpense: decimal.Zero,
		PendingTotal: decimal.Zero,
		OverdueTotal: decimal.Zero,
	}
	for _, t := range rows {
		switch t.EffectiveStatus(today) {
		case domain.StatusPaid:
			if t.Type == domain.TypeRevenue {
				stats.MonthRevenue = stats.MonthRevenue.Add(t.Amount)
			} else {
				stats.MonthExpense = stats.MonthExpense.Add(t.Amount)
			}
		case domain.StatusOverdue:
			stats.OverdueTotal = stats.OverdueTotal.Add(t.Amount)
			stats.OverdueCount++
		case domain.StatusPending:
			stats.PendingTotal = stats.PendingTotal.Add(t.Amount)
			stats.PendingCount++
			if t.DueDate != nil && domain.NormalizeDate(*t.DueDate).Equal(today) {
				stats.DueTodayCount++
			}
		}
	}
	stats.MonthBalance = stats.MonthRevenue.Sub(stats.MonthExpense)
	return stats
}

func (s *transactionService) GetInstallmentStats(ctx context.Context, churchID string) ([]domain.InstallmentGroupStats, error) {
	if churchID == "" {
		return []domain.InstallmentGroupStats{}, nil
	}
	today, err := s.calendar.Today(ctx, churchID)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, churchID, domain.KeyInstallmentStats, dayVariant(today),
		func(ctx context.Context) ([]domain.InstallmentGroupStats, error) {
			q := domain.NewTransactionQuery(churchID).
				Filter(domain.NotNull(domain.FieldInstallmentGroup)).
				Sort(domain.FieldDueDate, false)
			rows, err := s.txnRepo.QueryTransactions(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("failed to query installment transactions: %w", err)
			}
			return groupInstallments(rows, today), nil
		})
}

func groupInstallments(rows []domain.Transaction, today time.Time) []domain.InstallmentGroupStats {
	index := make(map[string]int)
	groups := make([]domain.InstallmentGroupStats, 0)
	for _, t := range rows {
		if t.InstallmentGroup == nil {
			continue
		}
		i, ok := index[*t.InstallmentGroup]
		if !ok {
			i = len(groups)
			index[*t.InstallmentGroup] = i
			g := domain.InstallmentGroupStats{
				InstallmentGroup: *t.InstallmentGroup,
				Description:      t.Description,
				RemainingAmount:  decimal.Zero,
			}
			if t.InstallmentTotal != nil {
				g.Total = *t.InstallmentTotal
			}
			groups = append(groups, g)
		}
		g := &groups[i]
		switch t.EffectiveStatus(today) {
		case domain.StatusPaid:
			g.Paid++
		case domain.StatusOverdue:
			g.Overdue++
			g.RemainingAmount = g.RemainingAmount.Add(t.Amount)
		default:
			g.Pending++
			g.RemainingAmount = g.RemainingAmount.Add(t.Amount)
		}
	}
	return groups
}

// --- Writes ---

func (s *transactionService) CreateTransaction(ctx context.Context, churchID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if churchID == "" {
		return nil, apperrors.NewValidationFailedError("church ID is required")
	}
	dueDate, err := parseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}
	paymentDate, err := parseOptionalDate("paymentDate", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if req.Status != "" {
		status = domain.TransactionStatus(req.Status)
	}
	if status == domain.StatusPaid && paymentDate == nil {
		today, err := s.calendar.Today(ctx, churchID)
		if err != nil {
			return nil, err
		}
		paymentDate = &today
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		ChurchID:          churchID,
		Description:       strings.TrimSpace(req.Description),
		Amount:            req.Amount,
		DueDate:           dueDate,
		PaymentDate:       paymentDate,
		Status:            status,
		Type:              domain.TransactionType(req.Type),
		CategoryID:        req.CategoryID,
		MinistryID:        req.MinistryID,
		InstallmentGroup:  req.InstallmentGroup,
		InstallmentNumber: req.InstallmentNumber,
		InstallmentTotal:  req.InstallmentTotal,
		Notes:             req.Notes,
		Version:           1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := validateTransaction(&txn); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("church_id", churchID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.invalidate(churchID)

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("church_id", churchID),
		slog.String("type", string(txn.Type)))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, churchID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, churchID, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		txn.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Type != nil {
		txn.Type = domain.TransactionType(*req.Type)
	}
	if req.DueDate != nil {
		if txn.DueDate, err = parseOptionalDate("dueDate", req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		txn.CategoryID = emptyToNil(*req.CategoryID)
	}
	if req.MinistryID != nil {
		txn.MinistryID = emptyToNil(*req.MinistryID)
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	if req.Status != nil {
		txn.Status = domain.TransactionStatus(*req.Status)
		if txn.Status != domain.StatusPaid {
			txn.PaymentDate = nil
		}
	}
	if req.PaymentDate != nil {
		if txn.PaymentDate, err = parseOptionalDate("paymentDate", req.PaymentDate); err != nil {
			return nil, err
		}
	}
	if txn.Status == domain.StatusPaid && txn.PaymentDate == nil {
		today, err := s.calendar.Today(ctx, churchID)
		if err != nil {
			return nil, err
		}
		txn.PaymentDate = &today
	}

	return s.saveUpdate(ctx, txn, userID)
}

func (s *transactionService) MarkTransactionPaid(ctx context.Context, churchID, transactionID string, req dto.MarkPaidRequest, userID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, churchID, transactionID)
	if err != nil {
		return nil, err
	}

	paymentDate, err := parseOptionalDate("paymentDate", req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if paymentDate == nil {
		today, err := s.calendar.Today(ctx, churchID)
		if err != nil {
			return nil, err
		}
		paymentDate = &today
	}
	txn.Status = domain.StatusPaid
	txn.PaymentDate = paymentDate

	return s.saveUpdate(ctx, txn, userID)
}

func (s *transactionService) saveUpdate(ctx context.Context, txn *domain.Transaction, userID string) (*domain.Transaction, error) {
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}
	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewAppError(http.StatusConflict, "transaction was modified concurrently, reload and retry", err)
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	txn.Version++
	s.invalidate(txn.ChurchID)

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)))
	return txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, churchID, transactionID, userID string) error {
	if err := s.txnRepo.DeleteTransaction(ctx, churchID, transactionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}
	s.invalidate(churchID)
	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("church_id", churchID),
		slog.String("deleted_by", userID))
	return nil
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
