package models

import "time"

// LoginType records which branch of the login algorithm admitted the user.
type LoginType string

const (
	LoginTypeAdminMaster    LoginType = "admin_master"
	LoginTypeFirstLogin     LoginType = "first_login"
	LoginTypeCustomPassword LoginType = "custom_password"
)

// Session is a live login. The bearer token handed to the client is a JWT
// whose jti is the session ID.
type Session struct {
	ID                    string    `json:"id" db:"id"`
	UserID                string    `json:"user_id" db:"user_id"`
	LoginType             LoginType `json:"login_type" db:"login_type"`
	RequirePasswordChange bool      `json:"require_password_change" db:"require_password_change"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	ExpiresAt             time.Time `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the session is past its expiry at t.
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
