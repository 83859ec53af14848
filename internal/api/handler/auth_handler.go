package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/api/metrics"
	"github.com/labops/server-loans/internal/api/middleware"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
	"github.com/labops/server-loans/internal/web"
)

// AuthHandler serves the login form and manages the session cookie.
type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionStore
	opts     middleware.SessionOptions
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionStore, opts middleware.SessionOptions) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, opts: opts}
}

type loginView struct {
	web.Page
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	view := loginView{}
	view.Title = "Log in"
	if c.QueryParam("timeout") != "" {
		view.Error = "Your session expired. Please log in again."
	}
	return c.Render(http.StatusOK, "login.html", view)
}

// Login validates credentials and establishes a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailed(c, "Username and password are required.")
	}
	if err := c.Validate(&form); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("login").Inc()
		return h.loginFailed(c, err.Error())
	}

	user, err := h.auth.Authenticate(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
			return h.loginFailed(c, "Invalid username or password.")
		}
		return err
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		Role:         user.Role,
		IssuedAt:     now,
		LastActivity: now,
		LastRotation: now,
	}
	token, err := h.sessions.Create(c.Request().Context(), sess)
	if err != nil {
		return err
	}

	middleware.SetSessionCookie(c, token, h.opts)
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout deletes the session server-side and expires the cookie. The token
// can never resolve again.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		_ = h.sessions.Delete(c.Request().Context(), cookie.Value)
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) loginFailed(c echo.Context, msg string) error {
	view := loginView{}
	view.Title = "Log in"
	view.Error = msg
	return c.Render(http.StatusUnauthorized, "login.html", view)
}
