// Package middleware holds echo middleware for the REST layer.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/castletown/compendium/internal/infrastructure/config"
)

// AuthMiddleware guards the API with a shared bearer token when token mode is
// configured. In disabled mode every request passes through.
type AuthMiddleware struct {
	auth config.AuthConfig
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(auth config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireToken rejects requests without the configured bearer token.
func (m *AuthMiddleware) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.auth.Enabled() {
			return next(c)
		}

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "bearer token required"})
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.auth.Token)) != 1 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}

		return next(c)
	}
}
