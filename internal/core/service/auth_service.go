package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// AuthService validates credentials for the login form.
type AuthService struct {
	repo       ports.AuthRepository
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

// Authenticate looks up an active account and compares the password hash.
// A missing user and a wrong password both map to ErrInvalidCredentials so
// the login form cannot be used to probe usernames.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("could not record last login")
	}
	user.LastLoginAt = &now

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user authenticated")
	return user, nil
}

// EnsureBootstrapAdmin seeds the first admin account on an empty user table
// so a fresh deployment can be logged into at all.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", username).Msg("bootstrap admin created")
	return created, nil
}
