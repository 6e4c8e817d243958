package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupAmount is a revenue/expense total for one category or ministry.
type GroupAmount struct {
	GroupID string          `json:"groupID"` // empty for unassigned rows
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// PeriodSummary is the report of paid transactions in a date range.
type PeriodSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	ByCategory   []GroupAmount   `json:"byCategory"`
	ByMinistry   []GroupAmount   `json:"byMinistry"`
}
