package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/core/domain"
)

// ctxSession extracts the session injected by the Session middleware. A
// missing session on a protected route means the middleware did not run;
// fail closed.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get("session").(*domain.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
