package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/church_finance_app/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	churchA = "11111111-1111-1111-1111-111111111111"
	churchB = "22222222-2222-2222-2222-222222222222"
)

type MemoryRepositoryTestSuite struct {
	suite.Suite
	store *memory.Store
	repos portsrepo.RepositoryProvider
	ctx   context.Context
}

func (suite *MemoryRepositoryTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.store.AddChurch(domain.Church{ChurchID: churchA, Name: "Igreja A", Timezone: domain.DefaultChurchTimezone})
	suite.store.AddChurch(domain.Church{ChurchID: churchB, Name: "Igreja B"})
	suite.repos = memory.NewRepositoryProvider(suite.store)
	suite.ctx = context.Background()
}

func date(s string) *time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func (suite *MemoryRepositoryTestSuite) save(churchID string, status domain.TransactionStatus, due string, amount int64) domain.Transaction {
	t := domain.Transaction{
		TransactionID: uuid.NewString(),
		ChurchID:      churchID,
		Description:   "Lançamento",
		Amount:        decimal.NewFromInt(amount),
		Status:        status,
		Type:          domain.TypeExpense,
		Version:       1,
		AuditFields:   domain.AuditFields{CreatedAt: time.Now().UTC()},
	}
	if due != "" {
		t.DueDate = date(due)
	}
	suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(suite.ctx, t))
	return t
}

func (suite *MemoryRepositoryTestSuite) TestQueryTransactions_TenantScoped() {
	suite.save(churchA, domain.StatusPending, "2024-03-01", 10)
	suite.save(churchB, domain.StatusPending, "2024-03-01", 20)

	rows, err := suite.repos.TransactionRepo.QueryTransactions(suite.ctx, domain.NewTransactionQuery(churchA))

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(churchA, rows[0].ChurchID)

	_, err = suite.repos.TransactionRepo.QueryTransactions(suite.ctx, domain.NewTransactionQuery(""))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MemoryRepositoryTestSuite) TestQueryTransactions_OrderNullsLastAndLimit() {
	suite.save(churchA, domain.StatusPending, "", 1)
	suite.save(churchA, domain.StatusPending, "2024-03-05", 2)
	suite.save(churchA, domain.StatusPending, "2024-03-01", 3)

	q := domain.NewTransactionQuery(churchA).Sort(domain.FieldDueDate, true)
	rows, err := suite.repos.TransactionRepo.QueryTransactions(suite.ctx, q)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)
	suite.Equal("2024-03-05", rows[0].DueDate.Format(domain.DateLayout))
	suite.Nil(rows[2].DueDate)

	q.Limit = 1
	rows, err = suite.repos.TransactionRepo.QueryTransactions(suite.ctx, q)
	suite.Require().NoError(err)
	suite.Len(rows, 1)
}

func (suite *MemoryRepositoryTestSuite) TestUpdateTransaction_OptimisticLocking() {
	t := suite.save(churchA, domain.StatusPending, "2024-03-01", 10)

	t.Description = "Primeira edição"
	suite.Require().NoError(suite.repos.TransactionRepo.UpdateTransaction(suite.ctx, t))

	t.Description = "Edição com versão antiga"
	err := suite.repos.TransactionRepo.UpdateTransaction(suite.ctx, t)
	suite.ErrorIs(err, apperrors.ErrConflict)

	stored, err := suite.repos.TransactionRepo.FindTransactionByID(suite.ctx, churchA, t.TransactionID)
	suite.Require().NoError(err)
	suite.Equal("Primeira edição", stored.Description)
	suite.Equal(int64(2), stored.Version)
}

func (suite *MemoryRepositoryTestSuite) TestFindAndDelete_OtherChurchIsNotFound() {
	t := suite.save(churchA, domain.StatusPending, "", 10)

	_, err := suite.repos.TransactionRepo.FindTransactionByID(suite.ctx, churchB, t.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorIs(suite.repos.TransactionRepo.DeleteTransaction(suite.ctx, churchB, t.TransactionID), apperrors.ErrNotFound)
	suite.NoError(suite.repos.TransactionRepo.DeleteTransaction(suite.ctx, churchA, t.TransactionID))
}

func (suite *MemoryRepositoryTestSuite) TestMarkOverdueTransactions() {
	suite.save(churchA, domain.StatusPending, "2024-03-01", 10)
	suite.save(churchA, domain.StatusPending, "2024-03-10", 10)
	suite.save(churchA, domain.StatusPaid, "2024-03-01", 10)
	suite.save(churchB, domain.StatusPending, "2024-03-01", 10)
	today := *date("2024-03-10")

	count, err := suite.repos.TransactionRepo.MarkOverdueTransactions(suite.ctx, churchA, today)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	count, err = suite.repos.TransactionRepo.MarkOverdueTransactions(suite.ctx, churchA, today)
	suite.Require().NoError(err)
	suite.Zero(count, "sweep is idempotent")

	rows, err := suite.repos.TransactionRepo.QueryTransactions(suite.ctx,
		domain.NewTransactionQuery(churchB).Filter(domain.Eq(domain.FieldStatus, domain.StatusOverdue)))
	suite.Require().NoError(err)
	suite.Empty(rows, "other church untouched")
}

func (suite *MemoryRepositoryTestSuite) TestChangeFeed_DeliversOwnChurchOnly() {
	sub, err := suite.repos.ChangeFeed.Subscribe(suite.ctx, churchA, domain.TransactionsTable,
		[]domain.ChangeEventType{domain.EventInsert, domain.EventDelete})
	suite.Require().NoError(err)
	defer sub.Unsubscribe()

	suite.save(churchB, domain.StatusPending, "", 1)
	t := suite.save(churchA, domain.StatusPending, "", 2)
	t.Description = "Atualizada"
	suite.Require().NoError(suite.repos.TransactionRepo.UpdateTransaction(suite.ctx, t))
	suite.Require().NoError(suite.repos.TransactionRepo.DeleteTransaction(suite.ctx, churchA, t.TransactionID))

	first := <-sub.Events()
	second := <-sub.Events()
	suite.Equal(domain.EventInsert, first.EventType)
	suite.Equal(churchA, first.ChurchID)
	suite.Equal(domain.EventDelete, second.EventType)
	suite.Equal(t.TransactionID, second.TransactionID)

	select {
	case ev := <-sub.Events():
		suite.Failf("unexpected event", "%+v", ev)
	default:
	}
}

func (suite *MemoryRepositoryTestSuite) TestChangeFeed_UnsubscribeClosesEvents() {
	sub, err := suite.repos.ChangeFeed.Subscribe(suite.ctx, churchA, domain.TransactionsTable, domain.AllChangeEvents)
	suite.Require().NoError(err)

	sub.Unsubscribe()
	sub.Unsubscribe()
	suite.save(churchA, domain.StatusPending, "", 1)

	_, open := <-sub.Events()
	suite.False(open)
	suite.NoError(sub.Err())
}

func (suite *MemoryRepositoryTestSuite) TestRoles() {
	userID := uuid.NewString()
	suite.Require().NoError(suite.repos.RoleRepo.AssignRole(suite.ctx, domain.RoleAssignment{UserID: userID, ChurchID: churchA, Role: domain.RoleTreasurer}))
	suite.Require().NoError(suite.repos.RoleRepo.AssignRole(suite.ctx, domain.RoleAssignment{UserID: userID, ChurchID: churchA, Role: domain.RoleTreasurer}))

	roles, err := suite.repos.RoleRepo.ListUserRoles(suite.ctx, userID, churchA)
	suite.Require().NoError(err)
	suite.Equal([]domain.Role{domain.RoleTreasurer}, roles)

	roles, err = suite.repos.RoleRepo.ListUserRoles(suite.ctx, userID, churchB)
	suite.Require().NoError(err)
	suite.Empty(roles)

	err = suite.repos.RoleRepo.AssignRole(suite.ctx, domain.RoleAssignment{UserID: userID, ChurchID: churchA, Role: "bispo"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MemoryRepositoryTestSuite) TestReportingTotals() {
	catID := uuid.NewString()
	suite.store.AddCategory(churchA, catID, "Dízimos")
	paid := func(typ domain.TransactionType, amount int64, on string, category *string) {
		t := domain.Transaction{
			TransactionID: uuid.NewString(), ChurchID: churchA, Description: "x",
			Amount: decimal.NewFromInt(amount), Status: domain.StatusPaid, Type: typ,
			PaymentDate: date(on), CategoryID: category,
		}
		suite.Require().NoError(suite.repos.TransactionRepo.SaveTransaction(suite.ctx, t))
	}
	paid(domain.TypeRevenue, 1000, "2024-03-03", &catID)
	paid(domain.TypeRevenue, 500, "2024-03-20", &catID)
	paid(domain.TypeExpense, 200, "2024-03-05", nil)
	paid(domain.TypeExpense, 999, "2024-04-01", nil)

	rows, err := suite.repos.ReportingRepo.GetTotalsByCategory(suite.ctx, churchA, *date("2024-03-01"), *date("2024-03-31"))

	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("Dízimos", rows[0].Name)
	suite.True(decimal.NewFromInt(1500).Equal(rows[0].Revenue))
	suite.Equal("Sem categoria", rows[1].Name)
	suite.True(decimal.NewFromInt(200).Equal(rows[1].Expense))
}

func (suite *MemoryRepositoryTestSuite) TestFindChurchByID() {
	church, err := suite.repos.ChurchRepo.FindChurchByID(suite.ctx, churchA)
	suite.Require().NoError(err)
	suite.Equal("Igreja A", church.Name)

	_, err = suite.repos.ChurchRepo.FindChurchByID(suite.ctx, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}
