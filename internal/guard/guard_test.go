package guard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

var user = &domain.Identity{UserID: "user-1", SessionID: "session-1"}

func resolved(roles ...domain.Role) domain.SessionState {
	return domain.SessionState{UserID: user.UserID, ChurchID: "church-1", Roles: domain.NewRoleSet(roles...)}
}

func TestEvaluate(t *testing.T) {
	adminOrTreasurer := AnyOf(domain.RoleAdmin, domain.RoleTreasurer)

	tests := []struct {
		name       string
		in         Input
		wantState  State
		wantReason Reason
		wantRoute  string
	}{
		{
			name:      "auth pending within timeout keeps loading",
			in:        Input{AuthPending: true, Elapsed: time.Second},
			wantState: StateLoading,
		},
		{
			name:      "roles loading within timeout keeps loading",
			in:        Input{Identity: user, Session: domain.SessionState{IsLoading: true}, Elapsed: 4999 * time.Millisecond},
			wantState: StateLoading,
		},
		{
			name:       "loading past timeout redirects to login",
			in:         Input{Identity: user, Session: domain.SessionState{IsLoading: true}, Elapsed: 5001 * time.Millisecond},
			wantState:  StateRedirected,
			wantReason: ReasonTimeout,
			wantRoute:  LoginRoute,
		},
		{
			name:       "custom timeout is honoured",
			in:         Input{AuthPending: true, Elapsed: 20 * time.Millisecond, Timeout: 10 * time.Millisecond},
			wantState:  StateRedirected,
			wantReason: ReasonTimeout,
			wantRoute:  LoginRoute,
		},
		{
			name:       "no session redirects to login",
			in:         Input{Identity: nil},
			wantState:  StateRedirected,
			wantReason: ReasonNoSession,
			wantRoute:  LoginRoute,
		},
		{
			name:       "missing role redirects to dashboard",
			in:         Input{Identity: user, Session: resolved(domain.RoleUser), Require: adminOrTreasurer},
			wantState:  StateRedirected,
			wantReason: ReasonForbidden,
			wantRoute:  DashboardRoute,
		},
		{
			name:      "treasurer passes admin-or-treasurer",
			in:        Input{Identity: user, Session: resolved(domain.RoleTreasurer), Require: adminOrTreasurer},
			wantState: StateAuthorized,
		},
		{
			name:       "empty role set fails membership",
			in:         Input{Identity: user, Session: resolved(), Require: Member()},
			wantState:  StateRedirected,
			wantReason: ReasonForbidden,
			wantRoute:  DashboardRoute,
		},
		{
			name:      "no requirement authorizes any session",
			in:        Input{Identity: user, Session: resolved()},
			wantState: StateAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.in)
			assert.Equal(t, tt.wantState, d.State)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, tt.wantRoute, d.RedirectTo)
			if d.State == StateRedirected {
				assert.NotEmpty(t, d.Notice)
			}
		})
	}
}

func TestEvaluate_ReflectsRoleChangesImmediately(t *testing.T) {
	in := Input{Identity: user, Session: resolved(domain.RoleAdmin), Require: AnyOf(domain.RoleAdmin)}
	assert.Equal(t, StateAuthorized, Evaluate(in).State)

	in.Session = resolved(domain.RoleUser)
	assert.Equal(t, StateRedirected, Evaluate(in).State)
}

func TestDecision_StatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, redirect(ReasonNoSession).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, redirect(ReasonTimeout).StatusCode())
	assert.Equal(t, http.StatusForbidden, redirect(ReasonForbidden).StatusCode())
	assert.Equal(t, http.StatusOK, Decision{State: StateAuthorized}.StatusCode())
}

type fakeResolution struct {
	done  chan struct{}
	state domain.SessionState
}

func (f *fakeResolution) State() domain.SessionState { return f.state }
func (f *fakeResolution) Done() <-chan struct{}      { return f.done }

func TestAwait_ResolvedBeforeTimeout(t *testing.T) {
	res := &fakeResolution{done: make(chan struct{}), state: resolved(domain.RoleAdmin)}
	close(res.done)

	d := Await(context.Background(), user, res, AnyOf(domain.RoleAdmin), time.Second)
	assert.Equal(t, StateAuthorized, d.State)
}

func TestAwait_NeverResolvingRedirectsToLogin(t *testing.T) {
	res := &fakeResolution{done: make(chan struct{}), state: domain.SessionState{IsLoading: true}}

	d := Await(context.Background(), user, res, Member(), 20*time.Millisecond)
	assert.Equal(t, StateRedirected, d.State)
	assert.Equal(t, ReasonTimeout, d.Reason)
	assert.Equal(t, LoginRoute, d.RedirectTo)
}

func TestAwait_LateResolutionIsIgnored(t *testing.T) {
	res := &fakeResolution{done: make(chan struct{}), state: resolved(domain.RoleAdmin)}

	d := Await(context.Background(), user, res, Member(), 10*time.Millisecond)
	close(res.done)

	assert.Equal(t, ReasonTimeout, d.Reason)
}
