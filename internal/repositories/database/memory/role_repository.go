package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
)

type roleRepository struct {
	store *Store
}

var _ portsrepo.RoleRepository = (*roleRepository)(nil)

func (r *roleRepository) ListUserRoles(_ context.Context, userID, churchID string) ([]domain.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.roles[roleKey{userID: userID, churchID: churchID}].Slice(), nil
}

func (r *roleRepository) AssignRole(_ context.Context, a domain.RoleAssignment) error {
	if !a.Role.IsValid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("unknown role %q", a.Role))
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.churches[a.ChurchID]; !ok {
		return apperrors.NewNotFoundError("church not found")
	}
	key := roleKey{userID: a.UserID, churchID: a.ChurchID}
	set := r.store.roles[key]
	if set == nil {
		set = domain.NewRoleSet()
		r.store.roles[key] = set
	}
	set[a.Role] = struct{}{}
	return nil
}
