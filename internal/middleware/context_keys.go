package middleware

import (
	"context"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey       = contextKey("userID")
	sessionIDKey    = contextKey("sessionID")
	sessionStateKey = contextKey("sessionState")
)

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, identity.UserID)
	return context.WithValue(ctx, sessionIDKey, identity.SessionID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetIdentityFromContext returns the authenticated caller, or nil when the
// request is anonymous.
func GetIdentityFromContext(c *gin.Context) *domain.Identity {
	return IdentityFromCtx(c.Request.Context())
}

// IdentityFromCtx is GetIdentityFromContext for a standard context.
func IdentityFromCtx(ctx context.Context) *domain.Identity {
	userID, _ := ctx.Value(userIDKey).(string)
	if userID == "" {
		return nil
	}
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return &domain.Identity{UserID: userID, SessionID: sessionID}
}

// GetSessionStateFromContext returns the session state stored by RequireRoles.
func GetSessionStateFromContext(c *gin.Context) (domain.SessionState, bool) {
	state, ok := c.Request.Context().Value(sessionStateKey).(domain.SessionState)
	return state, ok
}

func withSessionState(ctx context.Context, state domain.SessionState) context.Context {
	return context.WithValue(ctx, sessionStateKey, state)
}
