package auth

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware attaches the bearer-token identity to the request context when
// one is present and valid. It never rejects: the submission action owns the
// missing-identity failure contract, so an anonymous request flows through
// with no identity attached.
func Middleware(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		identity, err := verifier.ParseToken(tokenString)
		if err != nil {
			slog.Warn("Rejecting bearer token.", "error", err)
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
