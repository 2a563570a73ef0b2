package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey carries the caller's key.
const HeaderAPIKey = "X-API-Key"

// sourceCtxKey is the Gin context key used to store the authenticated source name.
const sourceCtxKey = "source"

// APIKeyMiddleware maps X-API-Key to the name of the calling source (a site
// or app relaying hits). Unknown keys are rejected with 401.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader(HeaderAPIKey))
		source, ok := keys[apiKey]
		if !ok || apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(sourceCtxKey, source)
		c.Next()
	}
}

// Source returns the authenticated source name from the request context.
func Source(c *gin.Context) string {
	v, _ := c.Get(sourceCtxKey)
	s, _ := v.(string)
	return s
}
