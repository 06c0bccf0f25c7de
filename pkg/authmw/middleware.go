// Package authmw provides a reusable Gin middleware that validates the
// storefront's bearer tokens. Any resource service that trusts the
// credential service's shared secret can mount it.
package authmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
)

// contextKey is the type for context keys.
type contextKey string

const (
	// UserIDKey is the context key for user ID.
	UserIDKey contextKey = "user_id"
	// ClaimsKey is the context key for full claims.
	ClaimsKey contextKey = "claims"
)

// Config holds middleware configuration.
type Config struct {
	// Manager validates tokens against the shared secret.
	Manager *jwt.Manager

	// Optional: skip auth for certain path prefixes.
	SkipPaths []string
}

// RequireAuth returns a Gin middleware that rejects requests without a
// valid bearer token.
func RequireAuth(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if c.Request.URL.Path == path || strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized, token missing",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized, token missing",
			})
			return
		}

		claims, err := cfg.Manager.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token or token expired",
			})
			return
		}

		c.Set(string(UserIDKey), claims.Subject)
		c.Set(string(ClaimsKey), claims)

		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the Gin context.
func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(string(UserIDKey))
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// GetClaims extracts full claims from the Gin context.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	claims, exists := c.Get(string(ClaimsKey))
	if !exists {
		return nil, false
	}
	cl, ok := claims.(*jwt.Claims)
	return cl, ok
}
