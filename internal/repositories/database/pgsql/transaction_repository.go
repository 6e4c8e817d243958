package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/church_finance_app/internal/models"
	"github.com/SscSPs/church_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const selectTransactionColumns = `
SELECT
	t.transaction_id, t.church_id, t.description, t.amount, t.due_date, t.payment_date,
	t.status, t.type, t.category_id, t.ministry_id,
	t.installment_group_id, t.installment_number, t.installment_total, t.notes, t.version,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM transactions t`

func (r *PgxTransactionRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) QueryTransactions(ctx context.Context, q *domain.TransactionQuery) ([]domain.Transaction, error) {
	query, args, err := buildTransactionSelect(q)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, query, args...)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, churchID, transactionID string) (*domain.Transaction, error) {
	txns, err := r.collect(ctx, selectTransactionColumns+` WHERE t.church_id = $1 AND t.transaction_id = $2`, churchID, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError("transaction not found")
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (
			transaction_id, church_id, description, amount, due_date, payment_date,
			status, type, category_id, ministry_id,
			installment_group_id, installment_number, installment_total, notes, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.ChurchID, m.Description, m.Amount, m.DueDate, m.PaymentDate,
		m.Status, m.Type, m.CategoryID, m.MinistryID,
		m.InstallmentGroup, m.InstallmentNumber, m.InstallmentTotal, m.Notes, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrConflict, m.TransactionID)
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError("category or ministry does not belong to this church")
		case pgCheckViolation:
			return apperrors.NewValidationFailedError("transaction violates a data constraint")
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransaction writes the row only if its stored version still matches.
// A miss is told apart as not found or lost race inside the same transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) (err error) {
	m := mapping.ToModelTransaction(txn)
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil && err == nil {
			err = rbErr
		}
	}()

	query := `
		UPDATE transactions
		SET description = $4, amount = $5, due_date = $6, payment_date = $7,
			status = $8, type = $9, category_id = $10, ministry_id = $11, notes = $12,
			last_updated_at = $13, last_updated_by = $14, version = version + 1
		WHERE church_id = $1 AND transaction_id = $2 AND version = $3;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ChurchID, m.TransactionID, m.Version,
		m.Description, m.Amount, m.DueDate, m.PaymentDate,
		m.Status, m.Type, m.CategoryID, m.MinistryID, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if code := pgErrorCode(err); code == pgForeignKeyViolation || code == pgCheckViolation {
			return apperrors.NewValidationFailedError("transaction violates a data constraint")
		}
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM transactions WHERE church_id = $1 AND transaction_id = $2)`,
			m.ChurchID, m.TransactionID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check transaction %s: %w", m.TransactionID, err)
		}
		if !exists {
			return apperrors.NewNotFoundError("transaction not found")
		}
		return fmt.Errorf("%w: transaction %s changed since version %d", apperrors.ErrConflict, m.TransactionID, m.Version)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, churchID, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`DELETE FROM transactions WHERE church_id = $1 AND transaction_id = $2;`,
		churchID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction not found")
	}
	return nil
}

// MarkOverdueTransactions calls the update_overdue_transactions function,
// which moves past-due Pendente rows of the church to Vencido.
func (r *PgxTransactionRepository) MarkOverdueTransactions(ctx context.Context, churchID string, today time.Time) (int64, error) {
	var updated int64
	err := r.Pool.QueryRow(ctx, `SELECT update_overdue_transactions($1, $2);`,
		churchID, domain.NormalizeDate(today)).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to update overdue transactions of church %s: %w", churchID, err)
	}
	return updated, nil
}
