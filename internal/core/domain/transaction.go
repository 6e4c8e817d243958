package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the stored lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "Pendente"
	StatusPaid    TransactionStatus = "Pago"
	StatusOverdue TransactionStatus = "Vencido"
)

// IsValid reports whether s is one of the known statuses.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// TransactionType separates money coming in from money going out.
type TransactionType string

const (
	TypeRevenue TransactionType = "Receita"
	TypeExpense TransactionType = "Despesa"
)

// IsValid reports whether t is one of the known types.
func (t TransactionType) IsValid() bool {
	return t == TypeRevenue || t == TypeExpense
}

// Transaction is a single revenue or expense entry of a church.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	ChurchID          string            `json:"churchID"` // tenant, never empty
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"`
	DueDate           *time.Time        `json:"dueDate,omitempty"`
	PaymentDate       *time.Time        `json:"paymentDate,omitempty"`
	Status            TransactionStatus `json:"status"`
	Type              TransactionType   `json:"type"`
	CategoryID        *string           `json:"categoryID,omitempty"`
	MinistryID        *string           `json:"ministryID,omitempty"`
	InstallmentGroup  *string           `json:"installmentGroup,omitempty"`
	InstallmentNumber *int              `json:"installmentNumber,omitempty"`
	InstallmentTotal  *int              `json:"installmentTotal,omitempty"`
	Notes             string            `json:"notes"`
	Version           int64             `json:"version"`
	AuditFields
}

// IsLogicallyOverdue reports whether the transaction must be shown as overdue
// on the given day. Rows still stored as Pendente with a past due date count
// as overdue even before the reconciliation sweep has transitioned them.
func (t Transaction) IsLogicallyOverdue(today time.Time) bool {
	switch t.Status {
	case StatusOverdue:
		return true
	case StatusPending:
		return t.DueDate != nil && NormalizeDate(*t.DueDate).Before(NormalizeDate(today))
	}
	return false
}

// EffectiveStatus is the status a reader should display on the given day.
func (t Transaction) EffectiveStatus(today time.Time) TransactionStatus {
	if t.IsLogicallyOverdue(today) {
		return StatusOverdue
	}
	return t.Status
}

// OverdueTransaction is a logically overdue transaction annotated with how
// many whole days it is late.
type OverdueTransaction struct {
	Transaction
	DaysOverdue int `json:"daysOverdue"`
}

// NewOverdueTransaction annotates t relative to today. A row that is overdue
// only by stored status but carries no due date, or a future one, reports 0.
func NewOverdueTransaction(t Transaction, today time.Time) OverdueTransaction {
	days := 0
	if t.DueDate != nil {
		days = DaysBetween(*t.DueDate, today)
	}
	if days < 0 {
		days = 0
	}
	return OverdueTransaction{Transaction: t, DaysOverdue: days}
}

// DueTransaction is a pending transaction annotated with the days left until
// it falls due.
type DueTransaction struct {
	Transaction
	DaysRemaining int `json:"daysRemaining"`
}

// NewDueTransaction annotates t relative to today.
func NewDueTransaction(t Transaction, today time.Time) DueTransaction {
	days := 0
	if t.DueDate != nil {
		days = DaysBetween(today, *t.DueDate)
	}
	return DueTransaction{Transaction: t, DaysRemaining: days}
}

// TransactionStats backs the dashboard cards.
type TransactionStats struct {
	MonthRevenue  decimal.Decimal `json:"monthRevenue"`
	MonthExpense  decimal.Decimal `json:"monthExpense"`
	MonthBalance  decimal.Decimal `json:"monthBalance"`
	PendingTotal  decimal.Decimal `json:"pendingTotal"`
	PendingCount  int             `json:"pendingCount"`
	OverdueTotal  decimal.Decimal `json:"overdueTotal"`
	OverdueCount  int             `json:"overdueCount"`
	DueTodayCount int             `json:"dueTodayCount"`
}

// InstallmentGroupStats summarizes one parcelled purchase or pledge.
type InstallmentGroupStats struct {
	InstallmentGroup string          `json:"installmentGroup"`
	Description      string          `json:"description"`
	Total            int             `json:"total"`
	Paid             int             `json:"paid"`
	Pending          int             `json:"pending"`
	Overdue          int             `json:"overdue"`
	RemainingAmount  decimal.Decimal `json:"remainingAmount"`
}
