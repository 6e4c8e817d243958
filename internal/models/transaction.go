package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	ChurchID          string          `db:"church_id"`
	Description       string          `db:"description"`
	Amount            decimal.Decimal `db:"amount"`
	DueDate           sql.NullTime    `db:"due_date"`     // DATE
	PaymentDate       sql.NullTime    `db:"payment_date"` // DATE
	Status            string          `db:"status"`
	Type              string          `db:"type"`
	CategoryID        sql.NullString  `db:"category_id"`
	MinistryID        sql.NullString  `db:"ministry_id"`
	InstallmentGroup  sql.NullString  `db:"installment_group_id"`
	InstallmentNumber sql.NullInt32   `db:"installment_number"`
	InstallmentTotal  sql.NullInt32   `db:"installment_total"`
	Notes             string          `db:"notes"`
	Version           int64           `db:"version"`
	AuditFields
}
