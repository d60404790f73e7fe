// Package middleware contains reusable HTTP middleware functions for
// the reservation API: session authentication, role enforcement, a
// Redis token bucket rate limiter and a Redis response cache.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// Context keys written by SessionAuth and read by handlers and the
// other middleware in this package.
const (
	IdentityKey   = "identity"
	UserIDKey     = "user_id"
	RoleKey       = "role"
	CredentialKey = "credential"
)

// SessionAuth returns an Echo middleware that validates a Bearer
// credential against the session store and injects the resolved
// identity into the request context. Unlike a pure JWT check, the
// database stays authoritative: a revoked or expired session row
// rejects the request even when the token signature still verifies.
func SessionAuth(sessions *service.Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			ident, err := sessions.Resolve(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}

			c.Set(IdentityKey, ident)
			c.Set(UserIDKey, strconv.FormatUint(ident.UserID, 10))
			c.Set(RoleKey, ident.Role.String())
			c.Set(CredentialKey, raw)
			return next(c)
		}
	}
}

// CurrentIdentity reads the identity stored by SessionAuth. The second
// result is false on routes that are not wrapped by it.
func CurrentIdentity(c echo.Context) (service.Identity, bool) {
	ident, ok := c.Get(IdentityKey).(service.Identity)
	return ident, ok
}
