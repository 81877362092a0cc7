package auth

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

const CtxUID = "uid"

// WithIdentity resolves the caller's identity-provider UID. When a Firebase
// Auth client is configured it verifies the bearer ID token; otherwise it
// trusts the X-User-Id header, which matches the development posture of the
// mobile client.
func WithIdentity(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authClient == nil {
			c.Set(CtxUID, strings.TrimSpace(c.GetHeader("X-User-Id")))
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(CtxUID, decoded.UID)
		c.Next()
	}
}

// UID extracts the caller's identity-provider UID from the Gin context.
func UID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUID))
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[len("Bearer "):]
	}
	return ""
}
