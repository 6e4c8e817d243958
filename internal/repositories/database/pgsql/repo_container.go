package pgsql

import (
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		RoleRepo:        newPgxRoleRepository(dbPool),
		ChurchRepo:      newPgxChurchRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
		ChangeFeed:      newPgxChangeFeed(dbPool),
	}
}
