package services

import (
	"fmt"

	"github.com/SscSPs/church_finance_app/internal/cache"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The realtime service is built by the caller because it owns long-lived subscriptions
// that must be closed on shutdown.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, queryCache *cache.QueryCache, realtimeSvc portssvc.RealtimeSvc) (*portssvc.ServiceContainer, error) {
	calendar, err := NewChurchCalendar(repos.ChurchRepo, cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to create church calendar: %w", err)
	}

	container := &portssvc.ServiceContainer{}
	container.Session = NewSessionService(repos.RoleRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, calendar, WithTransactionCache(queryCache))
	container.Overdue = NewOverdueService(repos.TransactionRepo, calendar, WithOverdueCache(queryCache))
	container.Reconciler = NewReconciler(repos.TransactionRepo, calendar, queryCache, cfg.JWTExpiryDuration)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Sheets = NewSheetsService(cfg.GoogleAPIEndpoint)
	container.Realtime = realtimeSvc

	return container, nil
}
