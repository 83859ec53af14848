package ports

import (
	"context"
	"time"

	"github.com/labops/server-loans/internal/core/domain"
)

// AuthRepository defines persistence operations for user accounts.
type AuthRepository interface {
	// FindActiveByUsername looks up an enabled account by username.
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	// TouchLastLogin records a successful login timestamp.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
