package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Check(t *testing.T) {
	p := Policy{MinLength: 6, MaxLength: 50, DefaultPassword: "123456", ReservedPassword: "haininh1"}

	tests := []struct {
		password string
		reason   string
	}{
		{"", ReasonPasswordTooShort},
		{"abcde", ReasonPasswordTooShort},
		{"abcdef", ""},
		{strings.Repeat("x", 50), ""},
		{strings.Repeat("x", 51), ReasonPasswordTooLong},
		{"123456", ReasonDefaultPasswordReuse},
		{"haininh1", ReasonReservedPassword},
		{"mậtkhẩu", ""},
	}
	for _, tt := range tests {
		err := p.Check(tt.password)
		if tt.reason == "" {
			assert.NoError(t, err, tt.password)
			continue
		}
		var ae *Error
		if assert.ErrorAs(t, err, &ae, tt.password) {
			assert.Equal(t, KindValidation, ae.Kind)
			assert.Equal(t, tt.reason, ae.Reason)
		}
	}
}

func TestPolicy_ValidateCollectsAll(t *testing.T) {
	// default secret that is also too short under a stricter policy
	p := Policy{MinLength: 8, MaxLength: 50, DefaultPassword: "123456"}

	errs := p.Validate("123456")
	assert.Len(t, errs, 2)
	assert.Equal(t, "Mật khẩu phải có ít nhất 8 ký tự", errs[0])

	assert.Empty(t, p.Validate("longenough"))
}

func TestPolicy_NoReservedPassword(t *testing.T) {
	p := Policy{MinLength: 6, MaxLength: 50, DefaultPassword: "123456"}
	assert.NoError(t, p.Check("haininh1"))
}
