package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
)

// sessionService resolves the roles of the caller in a church.
type sessionService struct {
	BaseService
	roleRepo portsrepo.RoleRepository
}

// NewSessionService creates a new session service.
func NewSessionService(roleRepo portsrepo.RoleRepository) portssvc.SessionSvc {
	return &sessionService{roleRepo: roleRepo}
}

var _ portssvc.SessionSvc = (*sessionService)(nil)

// ResolveSession never returns an error: any failure leaves the role set empty.
func (s *sessionService) ResolveSession(ctx context.Context, identity *domain.Identity, churchID string) domain.SessionState {
	state := domain.SessionState{ChurchID: churchID, Roles: domain.NewRoleSet()}
	if identity.IsAnonymous() {
		return state
	}
	state.UserID = identity.UserID
	if churchID == "" {
		return state
	}

	roles, err := s.roleRepo.ListUserRoles(ctx, identity.UserID, churchID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve user roles, denying all",
			slog.String("user_id", identity.UserID),
			slog.String("church_id", churchID))
		return state
	}

	for _, r := range roles {
		if r.IsValid() {
			state.Roles[r] = struct{}{}
		}
	}
	return state
}

// StartResolution resolves in the background. An anonymous caller resolves
// immediately and is never reported as loading.
func (s *sessionService) StartResolution(ctx context.Context, identity *domain.Identity, churchID string) portssvc.SessionResolution {
	res := &resolution{done: make(chan struct{})}
	if identity.IsAnonymous() {
		res.finish(s.ResolveSession(ctx, identity, churchID))
		return res
	}

	res.state = domain.SessionState{UserID: identity.UserID, ChurchID: churchID, IsLoading: true}
	go func() {
		res.finish(s.ResolveSession(ctx, identity, churchID))
	}()
	return res
}

type resolution struct {
	mu    sync.RWMutex
	state domain.SessionState
	done  chan struct{}
}

func (r *resolution) State() domain.SessionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *resolution) Done() <-chan struct{} {
	return r.done
}

func (r *resolution) finish(state domain.SessionState) {
	r.mu.Lock()
	state.IsLoading = false
	r.state = state
	r.mu.Unlock()
	close(r.done)
}
