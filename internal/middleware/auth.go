package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/SscSPs/church_finance_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type authOptions struct {
	allowAnonymous bool
}

// AuthOption configures AuthMiddleware.
type AuthOption func(*authOptions)

// AllowAnonymous lets requests without an Authorization header through with no
// identity attached. A header that is present must still carry a valid token.
func AllowAnonymous() AuthOption {
	return func(o *authOptions) {
		o.allowAnonymous = true
	}
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
// The subject claim is the user ID and the jti claim identifies the session.
func AuthMiddleware(jwtSecret string, opts ...AuthOption) gin.HandlerFunc {
	options := authOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if options.allowAnonymous {
				c.Next()
				return
			}
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		identity := domain.Identity{UserID: claims.Subject, SessionID: sessionIDFromClaims(claims)}

		enrichedLogger := logger.With(
			slog.String("user_id", identity.UserID),
			slog.String("session_id", identity.SessionID),
		)
		ctx := WithIdentity(c.Request.Context(), identity)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(loggerCtxKey), enrichedLogger)

		c.Next()
	}
}

// sessionIDFromClaims prefers the jti claim. Tokens without one are keyed by
// subject and issue time, which is still stable for the life of the token.
func sessionIDFromClaims(claims *jwt.RegisteredClaims) string {
	if claims.ID != "" {
		return claims.ID
	}
	if claims.IssuedAt != nil {
		return fmt.Sprintf("%s@%d", claims.Subject, claims.IssuedAt.Unix())
	}
	return claims.Subject
}
