package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth gates admin routes behind the shared static token. The token is
// accepted from an Authorization bearer header or an authToken query
// parameter, matching what the dashboard frontend sends.
func AdminAuth(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := extractToken(c)

		if adminToken == "" || presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access",
			})
			return
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw != "" {
		parts := strings.Split(raw, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(c.Query("authToken"))
}
