package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"technotes/api/internal/security"
)

const identityKey = "identity"

// Identity is the decoded access token attached to the request context.
type Identity struct {
	UserID   string
	Username string
	Roles    []string
}

// Auth validates the bearer access token and attaches the caller's identity.
// It is stateless: roles are trusted from the token claims until the next
// refresh, no store lookup happens per request.
func Auth(tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := tokens.ParseAccess(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.Set(identityKey, Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Roles:    claims.Roles,
		})

		c.Next()
	}
}

// CurrentIdentity returns the identity set by Auth, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := val.(Identity)
	return identity, ok
}
