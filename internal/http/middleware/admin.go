package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards the operator routes (reprocess, guide overrides). The key is
// read from X-Admin-Key or an "Authorization: Bearer" header. An empty
// required key leaves the routes open for local runs.
func AdminKey(required string, logger zerolog.Logger) gin.HandlerFunc {
	if required == "" {
		logger.Warn().Msg("ADMIN_KEY not set, operator routes are unauthenticated")
	}
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(presentedKey(c)), []byte(required)) != 1 {
			logger.Warn().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Str("ip", c.ClientIP()).
				Msg("operator route rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Operator key required",
					"details": nil,
				},
			})
			return
		}
		c.Next()
	}
}

func presentedKey(c *gin.Context) string {
	if key := c.GetHeader(AdminKeyHeader); key != "" {
		return key
	}
	auth := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
