package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/epeers/markowitz/internal/models"
	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the admin key on admin requests.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey rejects requests whose X-Admin-Key header does not match key.
// An empty key disables the check, which is meant for local development.
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "a valid " + AdminKeyHeader + " header is required",
			})
			return
		}
		c.Next()
	}
}
