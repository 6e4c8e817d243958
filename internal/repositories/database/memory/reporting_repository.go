package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const (
	uncategorizedName = "Sem categoria"
	noMinistryName    = "Sem ministério"
)

type reportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) GetTotalsByCategory(_ context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.totals(churchID, from, to, func(t domain.Transaction) *string { return t.CategoryID },
		r.store.categories, uncategorizedName), nil
}

func (r *reportingRepository) GetTotalsByMinistry(_ context.Context, churchID string, from, to time.Time) ([]domain.GroupAmount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.totals(churchID, from, to, func(t domain.Transaction) *string { return t.MinistryID },
		r.store.ministries, noMinistryName), nil
}

// totals must be called with the store read lock held.
func (r *reportingRepository) totals(churchID string, from, to time.Time, groupOf func(domain.Transaction) *string, names map[string]namedGroup, unassigned string) []domain.GroupAmount {
	from, to = domain.NormalizeDate(from), domain.NormalizeDate(to)
	byGroup := make(map[string]*domain.GroupAmount)
	for _, t := range r.store.transactions {
		if t.ChurchID != churchID || t.Status != domain.StatusPaid || t.PaymentDate == nil {
			continue
		}
		paid := domain.NormalizeDate(*t.PaymentDate)
		if paid.Before(from) || paid.After(to) {
			continue
		}

		id := ""
		if g := groupOf(t); g != nil {
			if named, ok := names[*g]; ok && named.churchID == churchID {
				id = *g
			}
		}
		row, ok := byGroup[id]
		if !ok {
			row = &domain.GroupAmount{GroupID: id, Name: unassigned, Revenue: decimal.Zero, Expense: decimal.Zero}
			if id != "" {
				row.Name = names[id].name
			}
			byGroup[id] = row
		}
		if t.Type == domain.TypeRevenue {
			row.Revenue = row.Revenue.Add(t.Amount)
		} else {
			row.Expense = row.Expense.Add(t.Amount)
		}
	}

	out := make([]domain.GroupAmount, 0, len(byGroup))
	for _, row := range byGroup {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
