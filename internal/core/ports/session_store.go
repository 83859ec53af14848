package ports

import (
	"context"

	"github.com/labops/server-loans/internal/core/domain"
)

// SessionStore persists sessions behind opaque tokens. Implementations must
// expire entries at the inactivity timeout so abandoned sessions disappear
// even if Touch is never called again.
type SessionStore interface {
	// Create stores the session under a fresh token and returns the token.
	Create(ctx context.Context, sess *domain.Session) (string, error)
	// Get resolves a token to its session, or domain.ErrSessionNotFound.
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Touch persists the session's updated LastActivity and resets its TTL.
	Touch(ctx context.Context, sess *domain.Session) error
	// Rotate moves the session to a fresh token and invalidates the old one.
	// The logical session (identity, role, issue time) is unchanged.
	Rotate(ctx context.Context, sess *domain.Session) (string, error)
	// Delete invalidates the token irrecoverably.
	Delete(ctx context.Context, token string) error
}
