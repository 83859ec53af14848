package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/web"
)

// errorView is the view model for the generic error page.
type errorView struct {
	web.Page
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Redirects authentication failures to the login page.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the user.
//   - Renders the shared error page for everything else.
//
// Validation errors never reach this handler: page handlers re-render the
// submitted form with the message inline.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			_ = c.Redirect(http.StatusSeeOther, "/login")
			return
		}

		view := errorView{Message: msg}
		view.Title = "Error"
		if sess, ok := c.Get("session").(*domain.Session); ok {
			view.Session = sess
		}
		c.Response().Status = code
		if rerr := c.Render(code, "error.html", view); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (404 from the router, method not allowed, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to do that."
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "Please log in."
	case errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound, "Asset not found."
	case errors.Is(err, domain.ErrLoanNotFound):
		return http.StatusNotFound, "Loan not found."
	}

	// Unexpected error: log the real cause, show a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "An internal error occurred. Please try again."
}
