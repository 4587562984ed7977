package models

import "time"

// SecurityEventType names an entry in the security log.
type SecurityEventType string

const (
	EventLoginMissingFields      SecurityEventType = "LOGIN_MISSING_FIELDS"
	EventLoginUnknownEmail       SecurityEventType = "LOGIN_UNKNOWN_EMAIL"
	EventAdminMasterLogin        SecurityEventType = "ADMIN_MASTER_LOGIN"
	EventFirstLogin              SecurityEventType = "FIRST_LOGIN"
	EventFirstLoginWrongPassword SecurityEventType = "FIRST_LOGIN_WRONG_PASSWORD"
	EventDefaultPasswordReplay   SecurityEventType = "DEFAULT_PASSWORD_REPLAY"
	EventCustomPasswordLogin     SecurityEventType = "CUSTOM_PASSWORD_LOGIN"
	EventCustomPasswordWrong     SecurityEventType = "CUSTOM_PASSWORD_WRONG"
	EventPasswordChanged         SecurityEventType = "PASSWORD_CHANGED"
	EventPasswordChangeRejected  SecurityEventType = "PASSWORD_CHANGE_REJECTED"
	EventPasswordReset           SecurityEventType = "PASSWORD_RESET"
	EventSecurityLogDenied       SecurityEventType = "SECURITY_LOG_DENIED"
	EventLogout                  SecurityEventType = "LOGOUT"
)

// SecurityEvent is one append-only audit entry.
type SecurityEvent struct {
	ID        string            `json:"id" db:"id"`
	Type      SecurityEventType `json:"type" db:"type"`
	UserID    string            `json:"userId,omitempty" db:"user_id"`
	Email     string            `json:"email,omitempty" db:"email"`
	IP        string            `json:"ip,omitempty" db:"ip"`
	UserAgent string            `json:"userAgent,omitempty" db:"user_agent"`
	Browser   string            `json:"browser,omitempty" db:"browser"`
	OS        string            `json:"os,omitempty" db:"os"`
	Reason    string            `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time         `json:"timestamp" db:"created_at"`
}
