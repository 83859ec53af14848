package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/labops/server-loans/internal/core/domain"
)

// SessionStore keeps sessions in Redis behind opaque tokens. The key TTL is
// the inactivity timeout, so abandoned sessions expire server-side even if
// the browser keeps the cookie.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps client with the given inactivity TTL.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string { return fmt.Sprintf("session:%s", token) }

// Create stores the session under a fresh random token.
func (s *SessionStore) Create(ctx context.Context, sess *domain.Session) (string, error) {
	token := uuid.NewString()
	if err := s.put(ctx, token, sess); err != nil {
		return "", err
	}
	sess.Token = token
	return token, nil
}

// Get resolves a token to its session.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	b, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	sess.Token = token
	return &sess, nil
}

// Touch rewrites the session and resets its TTL (sliding inactivity window).
func (s *SessionStore) Touch(ctx context.Context, sess *domain.Session) error {
	return s.put(ctx, sess.Token, sess)
}

// Rotate moves the session to a fresh token and deletes the old key in one
// pipeline, so the superseded token is never briefly valid alongside a
// crash-induced missing new one.
func (s *SessionStore) Rotate(ctx context.Context, sess *domain.Session) (string, error) {
	oldToken := sess.Token
	newToken := uuid.NewString()
	sess.LastRotation = time.Now().UTC()

	b, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(newToken), b, s.ttl)
	pipe.Del(ctx, sessionKey(oldToken))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	sess.Token = newToken
	return newToken, nil
}

// Delete invalidates the token. Once deleted a token can never resolve
// again; logout is irrecoverable.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func (s *SessionStore) put(ctx context.Context, token string, sess *domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(token), b, s.ttl).Err()
}
