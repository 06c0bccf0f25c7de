package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// ContextKeyRequestID is the context key for request ID.
	ContextKeyRequestID ContextKey = "request_id"
)

// GetClientIP extracts the client IP address.
func GetClientIP(c *gin.Context) string {
	// Check X-Forwarded-For first (for proxies)
	ip := c.GetHeader("X-Forwarded-For")
	if ip != "" {
		// Take the first IP if multiple
		if idx := strings.Index(ip, ","); idx != -1 {
			ip = strings.TrimSpace(ip[:idx])
		}
		return ip
	}

	// Fall back to RemoteAddr
	return c.ClientIP()
}
