package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

const (
	churchID    = "6f1c7a52-3f43-4c55-9c1e-0d9b1b5f2a10"
	otherChurch = "9a0c2b17-8d51-4f0e-a7b3-51d0e6c4f7e2"
)

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := mustDate(s)
	return &d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// --- Calendar ---

type fixedCalendar struct {
	today time.Time
	err   error
}

func (c fixedCalendar) Today(context.Context, string) (time.Time, error) {
	return c.today, c.err
}

// --- Mock TransactionRepository ---

// queryFunc lets a test answer QueryTransactions by evaluating the query.
type queryFunc func(q *domain.TransactionQuery) []domain.Transaction

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) QueryTransactions(ctx context.Context, q *domain.TransactionQuery) ([]domain.Transaction, error) {
	args := m.Called(ctx, q)
	if fn, ok := args.Get(0).(queryFunc); ok {
		return fn(q), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, churchID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, churchID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, churchID, transactionID string) error {
	args := m.Called(ctx, churchID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkOverdueTransactions(ctx context.Context, churchID string, today time.Time) (int64, error) {
	args := m.Called(ctx, churchID, today)
	return args.Get(0).(int64), args.Error(1)
}

// evaluate answers a query the way a store would: tenant scope, predicates,
// ordering with nulls last, limit.
func evaluate(rows []domain.Transaction) queryFunc {
	return func(q *domain.TransactionQuery) []domain.Transaction {
		out := make([]domain.Transaction, 0)
		for _, t := range rows {
			if q.Matches(t) {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.OrderBy {
				c := domain.CompareByField(out[i], out[j], o.Field)
				if o.Desc {
					_, iok := domain.FieldValue(out[i], o.Field)
					_, jok := domain.FieldValue(out[j], o.Field)
					if iok && jok {
						c = -c
					}
				}
				if c != 0 {
					return c < 0
				}
			}
			return false
		})
		if q.Limit > 0 && len(out) > q.Limit {
			out = out[:q.Limit]
		}
		return out
	}
}

// --- Mock RoleRepository ---

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) ListUserRoles(ctx context.Context, userID, churchID string) ([]domain.Role, error) {
	args := m.Called(ctx, userID, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *MockRoleRepository) AssignRole(ctx context.Context, assignment domain.RoleAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

// --- Mock ChurchRepository ---

type MockChurchRepository struct {
	mock.Mock
}

func (m *MockChurchRepository) FindChurchByID(ctx context.Context, churchID string) (*domain.Church, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Church), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTotalsByCategory(ctx context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error) {
	args := m.Called(ctx, churchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupAmount), args.Error(1)
}

func (m *MockReportingRepository) GetTotalsByMinistry(ctx context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error) {
	args := m.Called(ctx, churchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupAmount), args.Error(1)
}

// --- Recording invalidator ---

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []invalidation
}

type invalidation struct {
	churchID string
	keys     []domain.QueryKey
}

func (r *recordingInvalidator) Invalidate(churchID string, keys ...domain.QueryKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invalidation{churchID: churchID, keys: keys})
}

func (r *recordingInvalidator) snapshot() []invalidation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invalidation(nil), r.calls...)
}
