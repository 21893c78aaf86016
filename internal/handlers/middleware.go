package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	errAuthHeaderMissing = "missing Authorization header"
	errAuthHeaderFormat  = "invalid Authorization header format"
	errAuthTokenInvalid  = "invalid or expired token"
)

// userIdMiddleware guards /api/v1: it requires a Bearer token, resolves it to
// an operator id and stores the id in the request context.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthHeaderMissing})
		return
	}

	token, ok := bearerToken(header)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthHeaderFormat})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthTokenInvalid})
		return
	}

	c.Set("userId", userId)
	c.Next()
}

// bearerToken extracts the credential from an "Authorization: Bearer <tok>"
// header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}
