package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mednex-health/mednex-api/internal/handler"
	"github.com/mednex-health/mednex-api/internal/model"
	authsvc "github.com/mednex-health/mednex-api/internal/service/auth"
)

const ContextIdentity = "identity"

type AuthMiddleware struct {
	authService *authsvc.Service
}

func NewAuthMiddleware(authService *authsvc.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets the caller identity in
// context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		identity, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextIdentity, *identity)
		c.Next()
	}
}

// RequireRole gates a route group to callers holding the given role.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			c.Abort()
			return
		}

		if identity.Role != role {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	value, exists := c.Get(ContextIdentity)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := value.(model.Identity)
	return identity, ok
}
