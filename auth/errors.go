package auth

import (
	"errors"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a user-facing failure. Message is shown to the user as is,
// Reason is a stable machine-readable code that also goes to the security log.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func validationError(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

func authenticationError(reason, message string) *Error {
	return &Error{Kind: KindAuthentication, Reason: reason, Message: message}
}

func authorizationError(reason, message string) *Error {
	return &Error{Kind: KindAuthorization, Reason: reason, Message: message}
}

func notFoundError(reason, message string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: message}
}

// Reason codes.
const (
	ReasonMissingFields          = "missing_fields"
	ReasonEmailNotFound          = "email_not_found"
	ReasonFirstLoginNeedsDefault = "first_login_requires_default_password"
	ReasonDefaultAfterChange     = "default_password_after_change"
	ReasonWrongPassword          = "wrong_password"
	ReasonUserNotFound           = "user_not_found"
	ReasonPasswordTooShort       = "password_too_short"
	ReasonPasswordTooLong        = "password_too_long"
	ReasonDefaultPasswordReuse   = "default_password_reuse"
	ReasonReservedPassword       = "reserved_password"
	ReasonSameAsCurrent          = "same_as_current"
	ReasonCurrentMismatch        = "current_password_mismatch"
	ReasonAdminPasswordInvalid   = "admin_password_invalid"
	ReasonSessionInvalid         = "session_invalid"
	ReasonSessionMismatch        = "session_user_mismatch"
	ReasonConcurrentUpdate       = "concurrent_update"
)
