package ports

import (
	"context"

	"github.com/labops/server-loans/internal/core/domain"
)

// AuthService validates credentials against stored accounts.
type AuthService interface {
	// Authenticate returns the matching active user or
	// domain.ErrInvalidCredentials. Lookup and password failures are not
	// distinguished.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// EnsureBootstrapAdmin creates the first admin account when the user
	// table is empty. Returns the created user, or nil when accounts exist.
	EnsureBootstrapAdmin(ctx context.Context, username, password string) (*domain.User, error)
}
