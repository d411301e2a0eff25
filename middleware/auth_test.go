package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	utils "github.com/gitbyjay25/nss-portal-backend/utils"
)

func testRouter(cfg *config.Config, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token, err := utils.GenerateJWT(cfg.JWTSecret, "64f1a2b3c4d5e6f7a8b9c0d1", "volunteer", 60)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64f1a2b3c4d5e6f7a8b9c0d1")
	assert.Contains(t, w.Body.String(), "volunteer")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadSignature(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token, err := utils.GenerateJWT("another-secret", "user-1", "admin", 60)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	adminToken, err := utils.GenerateJWT(cfg.JWTSecret, "admin-1", "admin", 60)
	require.NoError(t, err)
	volunteerToken, err := utils.GenerateJWT(cfg.JWTSecret, "vol-1", "volunteer", 60)
	require.NoError(t, err)

	router := testRouter(cfg, RequireRole("admin"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+volunteerToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
