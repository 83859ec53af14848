package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labops/server-loans/internal/api/metrics"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// CookieName is the session cookie. Its value is an opaque token that only
// the session store can resolve.
const CookieName = "sl_session"

// SessionOptions tunes the session middleware.
type SessionOptions struct {
	// InactivityTimeout logs the user out after this much idle time.
	InactivityTimeout time.Duration
	// RotationInterval replaces the token this often while the session
	// stays logically the same (hijack mitigation).
	RotationInterval time.Duration
	// Secure marks issued cookies Secure.
	Secure bool
}

// SetSessionCookie issues the session cookie on c.
func SetSessionCookie(c echo.Context, token string, opts SessionOptions) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   opts.Secure,
	})
}

// ClearSessionCookie removes the session cookie from the browser.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the cookie to a session, enforces the inactivity timeout,
// rotates the token on schedule and injects the session into the request
// context. Unauthenticated requests are redirected to the login page.
func Session(store ports.SessionStore, opts SessionOptions, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			ctx := c.Request().Context()
			sess, err := store.Get(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionNotFound) {
					log.Error().Err(err).Msg("session lookup failed")
				}
				ClearSessionCookie(c)
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			now := time.Now().UTC()
			if sess.ExpiredAt(now, opts.InactivityTimeout) {
				_ = store.Delete(ctx, sess.Token)
				ClearSessionCookie(c)
				return c.Redirect(http.StatusSeeOther, "/login?timeout=1")
			}

			// Periodic token rotation. The logical session is unchanged;
			// only the cookie value moves.
			if sess.NeedsRotation(now, opts.RotationInterval) {
				if _, err := store.Rotate(ctx, sess); err != nil {
					log.Error().Err(err).Msg("session rotation failed")
				} else {
					SetSessionCookie(c, sess.Token, opts)
					metrics.SessionRotationsTotal.Inc()
				}
			}

			sess.LastActivity = now
			if err := store.Touch(ctx, sess); err != nil {
				log.Error().Err(err).Msg("session touch failed")
			}

			c.Set("session", sess)
			return next(c)
		}
	}
}
