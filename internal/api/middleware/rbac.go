package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/core/domain"
)

// RequireRole enforces role-based access control on top of the Session
// middleware. A missing session is an authentication failure (redirect); a
// wrong role is an authorization failure (403), never a validation message.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get("session").(*domain.Session)
			if sess == nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if _, ok := allowed[sess.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}
