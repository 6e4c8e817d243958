package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/dto"
	"github.com/SscSPs/church_finance_app/internal/guard"
	"github.com/gin-gonic/gin"
)

var reasonMessages = map[guard.Reason]string{
	guard.ReasonNoSession: "session required",
	guard.ReasonTimeout:   "session resolution timed out",
	guard.ReasonForbidden: "insufficient role for this church",
}

// RequireRoles guards a church-scoped route. It resolves the caller's roles in
// the :church_id church on every request and waits at most timeout for them.
// With no roles given, any role in the church is enough.
func RequireRoles(sessionSvc portssvc.SessionSvc, timeout time.Duration, roles ...domain.Role) gin.HandlerFunc {
	requirement := guard.Member()
	if len(roles) > 0 {
		requirement = guard.AnyOf(roles...)
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)
		identity := GetIdentityFromContext(c)
		churchID := c.Param("church_id")

		var decision guard.Decision
		if identity.IsAnonymous() {
			decision = guard.Evaluate(guard.Input{Identity: identity, Require: requirement})
		} else {
			// The resolution outlives the request when it times out.
			resolveCtx := context.WithoutCancel(c.Request.Context())
			res := sessionSvc.StartResolution(resolveCtx, identity, churchID)
			decision = guard.Await(c.Request.Context(), identity, res, requirement, timeout)
			if decision.State == guard.StateAuthorized {
				c.Request = c.Request.WithContext(withSessionState(c.Request.Context(), res.State()))
			}
		}

		switch decision.State {
		case guard.StateAuthorized:
			c.Next()
		case guard.StateRedirected:
			logger.Warn("Route guard redirected request",
				slog.String("reason", string(decision.Reason)),
				slog.String("redirect_to", decision.RedirectTo))
			c.AbortWithStatusJSON(decision.StatusCode(), dto.GuardRedirectResponse{
				Error:      reasonMessages[decision.Reason],
				RedirectTo: decision.RedirectTo,
				Notice:     decision.Notice,
			})
		default:
			// Client went away while roles were loading.
			c.AbortWithStatus(decision.StatusCode())
		}
	}
}
