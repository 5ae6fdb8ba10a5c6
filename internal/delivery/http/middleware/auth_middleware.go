package middleware

import (
	"net/http"
	"strings"

	"acharwala/internal/domain/entity"
	"acharwala/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// ContextKeyPrincipal is the echo context key the authenticated caller
// is stored under.
const ContextKeyPrincipal = "principal"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores the
// resolved principal on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}
		if claims.Type != "access" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Token is not an access token"})
		}

		roles := entity.RolesFromStrings(claims.Roles)
		if len(roles) == 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Role information missing from token"})
		}

		c.Set(ContextKeyPrincipal, entity.Principal{
			UserID: claims.UserID,
			Role:   roles[0],
		})

		return next(c)
	}
}

// RequireRole is a middleware factory that checks the principal's role.
// Admins pass every role check. It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireRole(allowed ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(ContextKeyPrincipal).(entity.Principal)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: principal missing"})
			}

			if principal.IsAdmin() || entity.Roles(allowed).Contains(principal.Role) {
				return next(c)
			}

			return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: insufficient role"})
		}
	}
}
