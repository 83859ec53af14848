package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEngineer = "engineer"
)

// User models an authenticated actor. Accounts are provisioned out of band;
// this service only reads them and records logins.
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	FullName     string     `gorm:"size:200" json:"full_name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         string     `gorm:"size:20;not null" json:"role"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ValidRole reports whether role is one of the two known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEngineer
}
