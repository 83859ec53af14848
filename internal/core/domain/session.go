package domain

import "time"

// Session is the server-side state behind an opaque cookie token. Rotation
// replaces the token but keeps the logical session (user, role, issue time).
type Session struct {
	Token        string    `json:"-"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IssuedAt     time.Time `json:"issued_at"`
	LastActivity time.Time `json:"last_activity"`
	LastRotation time.Time `json:"last_rotation"`
}

// DisplayName returns the name shown in the navigation bar.
func (s *Session) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Username
}

func (s *Session) IsAdmin() bool { return s.Role == RoleAdmin }

// CanManageAssets reports whether the session may use the ledger pages.
// Both roles currently carry the same capability set.
func (s *Session) CanManageAssets() bool {
	return s.Role == RoleAdmin || s.Role == RoleEngineer
}

// ExpiredAt reports whether the session has passed its inactivity timeout.
func (s *Session) ExpiredAt(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

// NeedsRotation reports whether the token is due for its periodic rotation.
func (s *Session) NeedsRotation(now time.Time, interval time.Duration) bool {
	return now.Sub(s.LastRotation) > interval
}
