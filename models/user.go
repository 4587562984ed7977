package models

import "time"

// User is an entry in the sales department directory.
// Rows are seeded by migration; only the password flows mutate PasswordChanged.
type User struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	Role            string    `json:"role" db:"role"`
	TeamID          string    `json:"team_id" db:"team_id"`
	Location        string    `json:"location" db:"location"`
	PasswordChanged bool      `json:"password_changed" db:"password_changed"`
	CreatedAt       time.Time `json:"-" db:"created_at"`
	UpdatedAt       time.Time `json:"-" db:"updated_at"`
}

// Credential is the custom secret a user chose to replace the default one.
// One row per user, overwritten on every change. Version guards concurrent writers.
type Credential struct {
	UserID        string    `db:"user_id"`
	PasswordHash  string    `db:"password_hash"` // bcrypt
	Changed       bool      `db:"changed"`
	ChangedAt     time.Time `db:"changed_at"`
	ChangedFromIP string    `db:"changed_from_ip"`
	Version       int64     `db:"version"`
}

// LoginRequest is the POST /auth/login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the POST /auth/change-password body
type ChangePasswordRequest struct {
	UserID          string `json:"userId"`
	NewPassword     string `json:"newPassword"`
	CurrentPassword string `json:"currentPassword,omitempty"`
}

// ValidatePasswordRequest is the POST /auth/validate-password body
type ValidatePasswordRequest struct {
	Password string `json:"password"`
}

// ResetPasswordRequest is the POST /auth/admin/reset-password body
type ResetPasswordRequest struct {
	AdminPassword string `json:"adminPassword"`
	UserID        string `json:"userId"`
}
