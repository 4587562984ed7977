package models

// Envelope is the JSON wrapper every /auth endpoint except
// validate-password and security-log responds with.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// LoginResponse is the data payload of a successful login
type LoginResponse struct {
	User                  User      `json:"user"`
	Token                 string    `json:"token"`
	LoginType             LoginType `json:"loginType"`
	RequirePasswordChange bool      `json:"requirePasswordChange,omitempty"`
}

// ChangePasswordResponse is the data payload of a successful change
type ChangePasswordResponse struct {
	User User `json:"user"`
}

// MeResponse describes the session behind a bearer token
type MeResponse struct {
	User                  User      `json:"user"`
	LoginType             LoginType `json:"loginType"`
	RequirePasswordChange bool      `json:"requirePasswordChange"`
}

// PasswordRequirements is the policy advertised by validate-password
type PasswordRequirements struct {
	MinLength  int  `json:"minLength"`
	MaxLength  int  `json:"maxLength"`
	NotDefault bool `json:"notDefault"`
}

// ValidatePasswordResponse is the POST /auth/validate-password response
type ValidatePasswordResponse struct {
	IsValid      bool                 `json:"isValid"`
	Errors       []string             `json:"errors"`
	Requirements PasswordRequirements `json:"requirements"`
}

// SecurityLogResponse is the GET /auth/security-log response
type SecurityLogResponse struct {
	Logs        []SecurityEvent `json:"logs"`
	TotalEvents int             `json:"totalEvents"`
}
