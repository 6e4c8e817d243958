package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireChurchParam rejects requests whose :church_id is not a UUID before
// any guard or store work happens.
func RequireChurchParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param("church_id")); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid church ID"})
			return
		}
		c.Next()
	}
}
