package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// JWT rejects requests without a valid "Authorization: Bearer" token and
// stores the user id under UserIDKey. Browsers cannot set headers on a
// websocket upgrade, so a "token" query parameter is accepted as well.
func JWT(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, err := p.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
