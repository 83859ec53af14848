package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/api/middleware"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/web"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	return nil, nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(ctx context.Context, sess *domain.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Token = uuid.NewString()
	cp := *sess
	s.sessions[sess.Token] = &cp
	return sess.Token, nil
}

func (s *stubSessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *stubSessionStore) Touch(ctx context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.Token] = &cp
	return nil
}

func (s *stubSessionStore) Rotate(ctx context.Context, sess *domain.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.Token)
	sess.Token = uuid.NewString()
	cp := *sess
	s.sessions[sess.Token] = &cp
	return sess.Token, nil
}

func (s *stubSessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	return e
}

func sessionOpts() middleware.SessionOptions {
	return middleware.SessionOptions{
		InactivityTimeout: time.Hour,
		RotationInterval:  5 * time.Minute,
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.CookieName {
			return cookie
		}
	}
	return nil
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho(t)
	store := newStubSessionStore()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "u1", Username: "alice", FullName: "Alice Kim", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub, store, sessionOpts())

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"secret"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected a session cookie")
	}
	sess, err := store.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.Username != "alice" || sess.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho(t)
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, newStubSessionStore(), sessionOpts())

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid username or password") {
		t.Fatal("expected the login page to show the failure message")
	}
	if cookie := sessionCookie(rec); cookie != nil {
		t.Fatal("no session cookie should be issued on failure")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho(t)
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, newStubSessionStore(), sessionOpts())

	req := postForm("/login", url.Values{"username": {"alice"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_LoginPage_TimeoutNotice(t *testing.T) {
	e := newTestEcho(t)
	handler := NewAuthHandler(&stubAuthService{}, newStubSessionStore(), sessionOpts())

	req := httptest.NewRequest(http.MethodGet, "/login?timeout=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "session expired") {
		t.Fatal("expected the expiry notice on the login page")
	}
}

func TestAuthHandler_Logout_DestroysSession(t *testing.T) {
	e := newTestEcho(t)
	store := newStubSessionStore()
	token, err := store.Create(context.Background(), &domain.Session{UserID: "u1", Username: "alice", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	handler := NewAuthHandler(&stubAuthService{}, store, sessionOpts())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}

	if _, err := store.Get(context.Background(), token); err == nil {
		t.Fatal("token must not resolve after logout")
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatal("expected the session cookie to be expired")
	}
}
