package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/church_finance_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains routes that should not be tracked. Event streams stay
// open for minutes and would be reported on disconnect only.
var pathsToSkip = map[string]bool{
	"/health":                            true,
	"/api/v1/churches/:church_id/events": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful
// authenticated API calls, grouped by church.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/churches/:church_id/transactions" -> "api_v1_churches_church_id_transactions"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, ":", "")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if state, ok := GetSessionStateFromContext(c); ok {
			props["roles"] = state.Roles.Slice()
		}

		posthogClient.Enqueue(userID, c.Param("church_id"), eventName, props)
	}
}
