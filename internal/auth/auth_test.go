package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Email: "mira@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifierParseToken(t *testing.T) {
	verifier, err := NewVerifier("test-secret")
	require.NoError(t, err)

	t.Run("valid token yields identity", func(t *testing.T) {
		identity, err := verifier.ParseToken(signToken(t, "test-secret", "user-7", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "user-7", identity.UserID)
		assert.Equal(t, "mira@example.com", identity.Email)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		_, err := verifier.ParseToken(signToken(t, "other-secret", "user-7", time.Hour))
		require.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		_, err := verifier.ParseToken(signToken(t, "test-secret", "user-7", -time.Hour))
		require.Error(t, err)
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		_, err := verifier.ParseToken(signToken(t, "test-secret", "", time.Hour))
		require.Error(t, err)
	})
}

func TestMiddlewareAttachesWithoutRejecting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier, err := NewVerifier("test-secret")
	require.NoError(t, err)

	router := gin.New()
	router.Use(Middleware(verifier))
	router.GET("/whoami", func(c *gin.Context) {
		if identity := FromContext(c.Request.Context()); identity != nil {
			c.String(http.StatusOK, identity.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid bearer token", "Bearer " + signToken(t, "test-secret", "user-7", time.Hour), "user-7"},
		{"no header", "", "anonymous"},
		{"garbage token flows through anonymous", "Bearer not-a-jwt", "anonymous"},
		{"non-bearer scheme ignored", "Basic dXNlcjpwdw==", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
