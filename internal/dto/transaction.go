package dto

import (
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the body for creating a transaction.
// Dates use the "2006-01-02" layout.
type CreateTransactionRequest struct {
	Description       string          `json:"description" binding:"required,max=255"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Type              string          `json:"type" binding:"required,txtype"`
	Status            string          `json:"status" binding:"omitempty,txstatus"`
	DueDate           *string         `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	PaymentDate       *string         `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	CategoryID        *string         `json:"categoryID" binding:"omitempty,uuid"`
	MinistryID        *string         `json:"ministryID" binding:"omitempty,uuid"`
	InstallmentGroup  *string         `json:"installmentGroup" binding:"omitempty,uuid"`
	InstallmentNumber *int            `json:"installmentNumber" binding:"omitempty,min=1"`
	InstallmentTotal  *int            `json:"installmentTotal" binding:"omitempty,min=1"`
	Notes             string          `json:"notes" binding:"max=1000"`
}

// UpdateTransactionRequest defines the body for editing a transaction.
// Nil fields are left untouched.
type UpdateTransactionRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type" binding:"omitempty,txtype"`
	Status      *string          `json:"status" binding:"omitempty,txstatus"`
	DueDate     *string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	PaymentDate *string          `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	CategoryID  *string          `json:"categoryID" binding:"omitempty,uuid"`
	MinistryID  *string          `json:"ministryID" binding:"omitempty,uuid"`
	Notes       *string          `json:"notes" binding:"omitempty,max=1000"`
}

// MarkPaidRequest settles a transaction. PaymentDate defaults to the church's today.
type MarkPaidRequest struct {
	PaymentDate *string `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
}

// ListTransactionsParams defines query parameters for the filter screen.
type ListTransactionsParams struct {
	Status     string  `form:"status" binding:"omitempty,txstatus"`
	Type       string  `form:"type" binding:"omitempty,txtype"`
	CategoryID string  `form:"categoryID" binding:"omitempty,uuid"`
	MinistryID string  `form:"ministryID" binding:"omitempty,uuid"`
	DueFrom    string  `form:"dueFrom" binding:"omitempty,datetime=2006-01-02"`
	DueTo      string  `form:"dueTo" binding:"omitempty,datetime=2006-01-02"`
	Limit      int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken  *string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	ChurchID          string          `json:"churchID"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	DueDate           *string         `json:"dueDate,omitempty"`
	PaymentDate       *string         `json:"paymentDate,omitempty"`
	CategoryID        *string         `json:"categoryID,omitempty"`
	MinistryID        *string         `json:"ministryID,omitempty"`
	InstallmentGroup  *string         `json:"installmentGroup,omitempty"`
	InstallmentNumber *int            `json:"installmentNumber,omitempty"`
	InstallmentTotal  *int            `json:"installmentTotal,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// OverdueTransactionResponse is a transaction with its lateness.
type OverdueTransactionResponse struct {
	TransactionResponse
	DaysOverdue int `json:"daysOverdue"`
}

// DueTransactionResponse is a transaction with the days left until due.
type DueTransactionResponse struct {
	TransactionResponse
	DaysRemaining int `json:"daysRemaining"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		ChurchID:          txn.ChurchID,
		Description:       txn.Description,
		Amount:            txn.Amount,
		Type:              string(txn.Type),
		Status:            string(txn.Status),
		DueDate:           formatDate(txn.DueDate),
		PaymentDate:       formatDate(txn.PaymentDate),
		CategoryID:        txn.CategoryID,
		MinistryID:        txn.MinistryID,
		InstallmentGroup:  txn.InstallmentGroup,
		InstallmentNumber: txn.InstallmentNumber,
		InstallmentTotal:  txn.InstallmentTotal,
		Notes:             txn.Notes,
		CreatedAt:         txn.CreatedAt,
		CreatedBy:         txn.CreatedBy,
		LastUpdatedAt:     txn.LastUpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToOverdueTransactionResponses converts annotated overdue rows.
func ToOverdueTransactionResponses(rows []domain.OverdueTransaction) []OverdueTransactionResponse {
	responses := make([]OverdueTransactionResponse, len(rows))
	for i := range rows {
		responses[i] = OverdueTransactionResponse{
			TransactionResponse: ToTransactionResponse(&rows[i].Transaction),
			DaysOverdue:         rows[i].DaysOverdue,
		}
	}
	return responses
}

// ToDueTransactionResponses converts annotated due rows.
func ToDueTransactionResponses(rows []domain.DueTransaction) []DueTransactionResponse {
	responses := make([]DueTransactionResponse, len(rows))
	for i := range rows {
		responses[i] = DueTransactionResponse{
			TransactionResponse: ToTransactionResponse(&rows[i].Transaction),
			DaysRemaining:       rows[i].DaysRemaining,
		}
	}
	return responses
}
