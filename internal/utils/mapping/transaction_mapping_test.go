package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/SscSPs/church_finance_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelTransaction_NullableColumns(t *testing.T) {
	due := time.Date(2024, 3, 10, 15, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	n := 2
	d := domain.Transaction{
		TransactionID:     "txn-1",
		ChurchID:          "church-1",
		Amount:            decimal.NewFromInt(10),
		DueDate:           &due,
		Status:            domain.StatusPending,
		Type:              domain.TypeExpense,
		InstallmentNumber: &n,
	}

	m := ToModelTransaction(d)

	require.True(t, m.DueDate.Valid)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), m.DueDate.Time)
	assert.False(t, m.PaymentDate.Valid)
	assert.False(t, m.CategoryID.Valid)
	assert.Equal(t, int32(2), m.InstallmentNumber.Int32)
	assert.False(t, m.InstallmentTotal.Valid)
	assert.Equal(t, "Pendente", m.Status)
}

func TestToDomainTransaction_NullableColumns(t *testing.T) {
	m := models.Transaction{TransactionID: "txn-1", Status: "Pago", Type: "Receita"}
	m.CategoryID.String, m.CategoryID.Valid = "cat-1", true

	d := ToDomainTransaction(m)

	assert.Nil(t, d.DueDate)
	assert.Nil(t, d.MinistryID)
	require.NotNil(t, d.CategoryID)
	assert.Equal(t, "cat-1", *d.CategoryID)
	assert.Equal(t, domain.StatusPaid, d.Status)
	assert.Equal(t, domain.TypeRevenue, d.Type)
}

func TestToDomainRoles_DropsUnknown(t *testing.T) {
	roles := ToDomainRoles([]models.UserChurchRole{{Role: "admin"}, {Role: "superuser"}, {Role: "pastor"}})
	assert.Equal(t, []domain.Role{domain.RoleAdmin, domain.RolePastor}, roles)
}

func TestAuditFields_SurviveBothDirections(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	audit := domain.AuditFields{CreatedAt: created, CreatedBy: "user-1", LastUpdatedAt: created.Add(time.Hour), LastUpdatedBy: "user-2"}

	m := ToModelTransaction(domain.Transaction{TransactionID: "txn-1", AuditFields: audit})
	assert.Equal(t, "user-2", m.LastUpdatedBy)
	assert.Equal(t, audit, ToDomainTransaction(m).AuditFields)

	church := ToDomainChurch(models.Church{ChurchID: "church-1", AuditFields: m.AuditFields})
	assert.Equal(t, audit, church.AuditFields)
}
