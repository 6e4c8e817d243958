package services

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
)

// SessionResolution is an in-flight role resolution.
type SessionResolution interface {
	// State is safe to call at any time; IsLoading stays true until Done closes.
	State() domain.SessionState
	// Done is closed once roles are resolved (or resolution failed closed).
	Done() <-chan struct{}
}

// SessionSvc resolves the role set of the caller inside a church.
type SessionSvc interface {
	// ResolveSession blocks until roles are known. Role lookup failures are
	// logged and produce an empty role set rather than an error.
	ResolveSession(ctx context.Context, identity *domain.Identity, churchID string) domain.SessionState

	// StartResolution resolves asynchronously so callers can bound the wait.
	StartResolution(ctx context.Context, identity *domain.Identity, churchID string) SessionResolution
}
