package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/tradeaid/internal/middleware"
	"anoa.com/tradeaid/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(issuer *token.Issuer) *gin.Engine {
	router := gin.New()
	auth := middleware.NewAuthMiddleware(issuer)
	router.GET("/api/protected", auth.RequireAuth(), func(c *gin.Context) {
		claims := c.MustGet("claims").(*token.Claims)
		c.JSON(http.StatusOK, gin.H{
			"hello": "only for logged in",
			"user":  gin.H{"id": claims.UserID, "email": claims.Email},
		})
	})
	return router
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	router := protectedRouter(issuer)

	signed, err := issuer.Issue(42, "a@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "only for logged in")
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestRequireAuthMissingHeader(t *testing.T) {
	router := protectedRouter(token.NewIssuer("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := token.NewIssuer("test-secret", -time.Minute)
	router := protectedRouter(token.NewIssuer("test-secret", time.Hour))

	signed, err := expired.Issue(42, "a@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	router := protectedRouter(token.NewIssuer("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
