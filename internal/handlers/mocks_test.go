package handlers_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Session service ---

// fakeSessionService resolves roles from a fixed user -> roles table.
type fakeSessionService struct {
	mu    sync.Mutex
	roles map[string][]domain.Role
	calls int
}

func newFakeSessionService() *fakeSessionService {
	return &fakeSessionService{roles: make(map[string][]domain.Role)}
}

func (f *fakeSessionService) grant(userID string, roles ...domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = roles
}

func (f *fakeSessionService) ResolveSession(_ context.Context, identity *domain.Identity, churchID string) domain.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if identity.IsAnonymous() {
		return domain.SessionState{ChurchID: churchID, Roles: domain.NewRoleSet()}
	}
	return domain.SessionState{
		UserID:   identity.UserID,
		ChurchID: churchID,
		Roles:    domain.NewRoleSet(f.roles[identity.UserID]...),
	}
}

func (f *fakeSessionService) StartResolution(ctx context.Context, identity *domain.Identity, churchID string) portssvc.SessionResolution {
	return newResolvedSession(f.ResolveSession(ctx, identity, churchID))
}

func (f *fakeSessionService) resolutions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type resolvedSession struct {
	state domain.SessionState
	done  chan struct{}
}

func newResolvedSession(state domain.SessionState) *resolvedSession {
	done := make(chan struct{})
	close(done)
	return &resolvedSession{state: state, done: done}
}

func (r *resolvedSession) State() domain.SessionState { return r.state }
func (r *resolvedSession) Done() <-chan struct{}      { return r.done }

var _ portssvc.SessionSvc = (*fakeSessionService)(nil)

// --- Transaction service ---

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, churchID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, churchID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListRecentTransactions(ctx context.Context, churchID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, churchID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListFilteredTransactions(ctx context.Context, churchID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, churchID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) GetTransactionStats(ctx context.Context, churchID string) (*domain.TransactionStats, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionStats), args.Error(1)
}

func (m *MockTransactionService) GetInstallmentStats(ctx context.Context, churchID string) ([]domain.InstallmentGroupStats, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstallmentGroupStats), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, churchID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, churchID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, churchID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, churchID, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) MarkTransactionPaid(ctx context.Context, churchID, transactionID string, req dto.MarkPaidRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, churchID, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, churchID, transactionID string, userID string) error {
	args := m.Called(ctx, churchID, transactionID, userID)
	return args.Error(0)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Overdue and reconciler ---

type MockOverdueService struct {
	mock.Mock
}

func (m *MockOverdueService) ListOverdue(ctx context.Context, churchID string) ([]domain.OverdueTransaction, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueTransaction), args.Error(1)
}

func (m *MockOverdueService) ListDueSoon(ctx context.Context, churchID string, days int) ([]domain.DueTransaction, error) {
	args := m.Called(ctx, churchID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DueTransaction), args.Error(1)
}

func (m *MockOverdueService) ListDueToday(ctx context.Context, churchID string) ([]domain.DueTransaction, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DueTransaction), args.Error(1)
}

var _ portssvc.OverdueSvc = (*MockOverdueService)(nil)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) EnsureSwept(ctx context.Context, identity *domain.Identity, churchID string) bool {
	args := m.Called(ctx, identity, churchID)
	return args.Bool(0)
}

func (m *MockReconciler) Reconcile(ctx context.Context, churchID string) (int64, error) {
	args := m.Called(ctx, churchID)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.ReconcilerSvc = (*MockReconciler)(nil)

// --- Reporting, sheets, realtime ---

type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) PeriodSummary(ctx context.Context, churchID string, from, to time.Time) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, churchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

type MockSheetsService struct {
	mock.Mock
}

func (m *MockSheetsService) ListSpreadsheets(ctx context.Context, accessToken string) ([]domain.Spreadsheet, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Spreadsheet), args.Error(1)
}

var _ portssvc.SheetsSvc = (*MockSheetsService)(nil)

type MockRealtimeService struct {
	mock.Mock
}

func (m *MockRealtimeService) Watch(ctx context.Context, churchID string) error {
	args := m.Called(ctx, churchID)
	return args.Error(0)
}

func (m *MockRealtimeService) SubscribeNotices(churchID string) (<-chan domain.Notice, func()) {
	args := m.Called(churchID)
	return args.Get(0).(<-chan domain.Notice), args.Get(1).(func())
}

var _ portssvc.RealtimeSvc = (*MockRealtimeService)(nil)

// closeNotifyingRecorder lets gin's Stream run against a recorder.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyingRecorder() *closeNotifyingRecorder {
	return &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}
