package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/SscSPs/church_finance_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		ChurchID:          d.ChurchID,
		Description:       d.Description,
		Amount:            d.Amount,
		DueDate:           toNullDate(d.DueDate),
		PaymentDate:       toNullDate(d.PaymentDate),
		Status:            string(d.Status),
		Type:              string(d.Type),
		CategoryID:        toNullString(d.CategoryID),
		MinistryID:        toNullString(d.MinistryID),
		InstallmentGroup:  toNullString(d.InstallmentGroup),
		InstallmentNumber: toNullInt32(d.InstallmentNumber),
		InstallmentTotal:  toNullInt32(d.InstallmentTotal),
		Notes:             d.Notes,
		Version:           d.Version,
		AuditFields:       models.AuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		ChurchID:          m.ChurchID,
		Description:       m.Description,
		Amount:            m.Amount,
		DueDate:           fromNullDate(m.DueDate),
		PaymentDate:       fromNullDate(m.PaymentDate),
		Status:            domain.TransactionStatus(m.Status),
		Type:              domain.TransactionType(m.Type),
		CategoryID:        fromNullString(m.CategoryID),
		MinistryID:        fromNullString(m.MinistryID),
		InstallmentGroup:  fromNullString(m.InstallmentGroup),
		InstallmentNumber: fromNullInt32(m.InstallmentNumber),
		InstallmentTotal:  fromNullInt32(m.InstallmentTotal),
		Notes:             m.Notes,
		Version:           m.Version,
		AuditFields:       domain.AuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: domain.NormalizeDate(*t), Valid: true}
}

func fromNullDate(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	d := domain.NormalizeDate(n.Time)
	return &d
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func toNullInt32(i *int) sql.NullInt32 {
	if i == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*i), Valid: true}
}

func fromNullInt32(n sql.NullInt32) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int32)
	return &i
}
