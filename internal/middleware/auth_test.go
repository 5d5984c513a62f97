package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mednex-health/mednex-api/internal/model"
	authsvc "github.com/mednex-health/mednex-api/internal/service/auth"
	"github.com/mednex-health/mednex-api/pkg/auth"
)

func testRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	// Token validation never touches the user store.
	svc := authsvc.NewService(nil, jwtSvc, nil)
	m := NewAuthMiddleware(svc)

	r := gin.New()
	protected := r.Group("/protected")
	protected.Use(m.Authenticate())
	protected.GET("/me", func(c *gin.Context) {
		identity, _ := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": identity.Email})
	})

	admin := protected.Group("/admin")
	admin.Use(m.RequireRole(model.RoleAdmin))
	admin.GET("/stats", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, jwtSvc
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r, _ := testRouter(t)

	w := doRequest(r, "/protected/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	r, _ := testRouter(t)

	w := doRequest(r, "/protected/me", "not-a-valid-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "alice@example.com", model.RoleCustomer)
	require.NoError(t, err)

	w := doRequest(r, "/protected/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRequireRoleForbidsCustomer(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "alice@example.com", model.RoleCustomer)
	require.NoError(t, err)

	w := doRequest(r, "/protected/admin/stats", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "root@example.com", model.RoleAdmin)
	require.NoError(t, err)

	w := doRequest(r, "/protected/admin/stats", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
