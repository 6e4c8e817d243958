package memory

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
)

type churchRepository struct {
	store *Store
}

var _ portsrepo.ChurchRepository = (*churchRepository)(nil)

func (r *churchRepository) FindChurchByID(_ context.Context, churchID string) (*domain.Church, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.churches[churchID]
	if !ok {
		return nil, apperrors.NewNotFoundError("church not found")
	}
	return &c, nil
}
