package auth

import (
	"fmt"
	"unicode/utf8"

	"salesops-auth/models"
)

// bcrypt ignores everything past 72 bytes, so longer secrets are refused
// even when their rune count is within MaxLength.
const bcryptMaxBytes = 72

// Policy is the password rule set applied to every new password.
// ReservedPassword, when set, is the admin master password: it is refused as
// a personal password so that user's logins never read as admin overrides.
type Policy struct {
	MinLength        int
	MaxLength        int
	DefaultPassword  string
	ReservedPassword string
}

type violation struct {
	reason  string
	message string
}

func (p Policy) violations(password string) []violation {
	var out []violation

	n := utf8.RuneCountInString(password)
	if n < p.MinLength {
		out = append(out, violation{ReasonPasswordTooShort, fmt.Sprintf("Mật khẩu phải có ít nhất %d ký tự", p.MinLength)})
	}
	if n > p.MaxLength || len(password) > bcryptMaxBytes {
		out = append(out, violation{ReasonPasswordTooLong, fmt.Sprintf("Mật khẩu không được vượt quá %d ký tự", p.MaxLength)})
	}
	if password == p.DefaultPassword {
		out = append(out, violation{ReasonDefaultPasswordReuse, "Không được sử dụng mật khẩu mặc định"})
	}
	if p.ReservedPassword != "" && password == p.ReservedPassword {
		out = append(out, violation{ReasonReservedPassword, "Mật khẩu này không được phép sử dụng"})
	}

	return out
}

// Validate returns every rule password breaks, as user-facing messages.
func (p Policy) Validate(password string) []string {
	vs := p.violations(password)
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, v.message)
	}
	return msgs
}

// Check returns the first broken rule as a validation *Error, or nil.
func (p Policy) Check(password string) error {
	vs := p.violations(password)
	if len(vs) == 0 {
		return nil
	}
	return validationError(vs[0].reason, vs[0].message)
}

func (p Policy) Requirements() models.PasswordRequirements {
	return models.PasswordRequirements{
		MinLength:  p.MinLength,
		MaxLength:  p.MaxLength,
		NotDefault: true,
	}
}
