package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// RequireRole returns a middleware that aborts with 403 unless the
// authenticated identity holds one of the given roles. It assumes
// SessionAuth ran earlier in the chain; a request without an identity
// is treated as forbidden rather than unauthenticated because the
// route group ordering is a programming error, not a client mistake.
func RequireRole(roles ...service.Role) echo.MiddlewareFunc {
	allowed := make(map[service.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok || !allowed[ident.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireStaff is shorthand for the Admin-or-Incharge groups that make
// up most of the management surface.
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(service.RoleAdmin, service.RoleIncharge)
}
