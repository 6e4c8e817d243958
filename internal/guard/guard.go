// Package guard decides whether a caller may enter a church-scoped route.
//
// Evaluate is a pure function of the current session state and the time spent
// waiting for it, so it is re-run on every request and never cached. A role
// removed from a user takes effect on the next evaluation.
package guard

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// ResolutionTimeout bounds how long a route waits for session and role
// resolution before giving up and sending the caller to the login route.
const ResolutionTimeout = 5000 * time.Millisecond

// Fallback routes.
const (
	LoginRoute     = "/auth"
	DashboardRoute = "/"
)

// User-facing notices attached to redirects.
const (
	NoticeNoSession = "Faça login para continuar."
	NoticeTimeout   = "Não foi possível verificar suas permissões. Faça login novamente."
	NoticeForbidden = "Você não tem permissão para acessar esta página."
)

// State is the outcome of one evaluation.
type State int

const (
	StateLoading State = iota
	StateAuthorized
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthorized:
		return "authorized"
	case StateRedirected:
		return "redirected"
	}
	return "unknown"
}

// Reason explains a redirect.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonNoSession Reason = "no_session"
	ReasonTimeout   Reason = "timeout"
	ReasonForbidden Reason = "forbidden"
)

// Requirement is the role predicate a route demands.
type Requirement func(domain.SessionState) bool

// AnyOf holds when the session has at least one of roles.
func AnyOf(roles ...domain.Role) Requirement {
	return func(s domain.SessionState) bool {
		return s.HasAnyRole(roles...)
	}
}

// Member holds when the session has any known role in the church.
func Member() Requirement {
	return AnyOf(domain.AllRoles...)
}

// Input is everything a single evaluation looks at.
type Input struct {
	AuthPending bool
	Identity    *domain.Identity
	Session     domain.SessionState
	Elapsed     time.Duration
	Timeout     time.Duration // zero means ResolutionTimeout
	Require     Requirement   // nil means any authenticated caller
}

// Decision is the result of Evaluate.
type Decision struct {
	State      State
	Reason     Reason
	RedirectTo string
	Notice     string
}

// StatusCode is the HTTP status a redirect is reported with.
func (d Decision) StatusCode() int {
	switch d.Reason {
	case ReasonForbidden:
		return http.StatusForbidden
	case ReasonNoSession, ReasonTimeout:
		return http.StatusUnauthorized
	}
	if d.State == StateLoading {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func redirect(reason Reason) Decision {
	switch reason {
	case ReasonForbidden:
		return Decision{State: StateRedirected, Reason: reason, RedirectTo: DashboardRoute, Notice: NoticeForbidden}
	case ReasonTimeout:
		return Decision{State: StateRedirected, Reason: reason, RedirectTo: LoginRoute, Notice: NoticeTimeout}
	default:
		return Decision{State: StateRedirected, Reason: ReasonNoSession, RedirectTo: LoginRoute, Notice: NoticeNoSession}
	}
}

// Evaluate runs the Loading -> {Authorized, Redirected} machine once.
func Evaluate(in Input) Decision {
	timeout := in.Timeout
	if timeout <= 0 {
		timeout = ResolutionTimeout
	}

	if in.AuthPending || in.Session.IsLoading {
		if in.Elapsed >= timeout {
			return redirect(ReasonTimeout)
		}
		return Decision{State: StateLoading}
	}

	if in.Identity.IsAnonymous() {
		return redirect(ReasonNoSession)
	}

	if in.Require != nil && !in.Require(in.Session) {
		return redirect(ReasonForbidden)
	}

	return Decision{State: StateAuthorized}
}

// Resolution is an in-flight session resolution.
type Resolution interface {
	State() domain.SessionState
	Done() <-chan struct{}
}

// Await waits for res up to timeout and evaluates the outcome. A resolution
// finishing after the timeout does not change the decision; it is not
// cancelled either.
func Await(ctx context.Context, identity *domain.Identity, res Resolution, require Requirement, timeout time.Duration) Decision {
	if timeout <= 0 {
		timeout = ResolutionTimeout
	}
	start := time.Now()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	session := domain.SessionState{IsLoading: true}
	select {
	case <-res.Done():
		session = res.State()
	case <-timer.C:
	case <-ctx.Done():
	}

	return Evaluate(Input{
		Identity: identity,
		Session:  session,
		Elapsed:  time.Since(start),
		Timeout:  timeout,
		Require:  require,
	})
}
