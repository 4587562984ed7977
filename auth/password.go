package auth

import (
	"context"
	"errors"
	"fmt"

	"salesops-auth/models"
	"salesops-auth/repositories"
)

const (
	msgMissingChangeFields = "Thiếu thông tin bắt buộc"
	msgUserNotFound        = "Không tìm thấy người dùng"
	msgSameAsCurrent       = "Mật khẩu mới phải khác mật khẩu hiện tại"
	msgCurrentMismatch     = "Mật khẩu hiện tại không đúng"
	msgConcurrentUpdate    = "Mật khẩu vừa được thay đổi ở nơi khác, vui lòng thử lại"
	msgSessionMismatch     = "Không thể đổi mật khẩu cho người dùng khác"
)

// changeAttempts bounds how often ChangePassword re-reads the credential
// after losing an optimistic-lock race.
const changeAttempts = 3

// ChangePasswordInput is a change request. CurrentPassword and SessionID are optional.
type ChangePasswordInput struct {
	UserID          string
	NewPassword     string
	CurrentPassword string
	// SessionID is the caller's session; its must-change flag is cleared on success.
	SessionID string
	Meta      RequestMeta
}

// ChangePassword replaces the user's password. Validation stops at the
// first failure: required fields, user exists, policy, differs from the
// stored password, current password (when given). Concurrent changes for
// the same user are serialised through the credential version; the loser
// re-validates against the winner's row.
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput) (*models.User, error) {
	if in.UserID == "" || in.NewPassword == "" {
		s.countChange("rejected")
		return nil, validationError(ReasonMissingFields, msgMissingChangeFields)
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		s.record(ctx, securityEvent{typ: models.EventPasswordChangeRejected, userID: in.UserID, reason: ReasonUserNotFound}, in.Meta)
		s.countChange("rejected")
		return nil, notFoundError(ReasonUserNotFound, msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ev := securityEvent{typ: models.EventPasswordChangeRejected, userID: user.ID, email: user.Email}

	sess, err := s.callerSession(ctx, in.SessionID, user.ID)
	if err != nil {
		if KindOf(err) == KindAuthorization {
			return nil, s.rejectChange(ctx, ev, in.Meta, err)
		}
		return nil, err
	}

	if err := s.policy.Check(in.NewPassword); err != nil {
		return nil, s.rejectChange(ctx, ev, in.Meta, err)
	}

	for attempt := 0; attempt < changeAttempts; attempt++ {
		cred, err := s.lookupCredential(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		if err := s.checkAgainstCurrent(cred, in); err != nil {
			return nil, s.rejectChange(ctx, ev, in.Meta, err)
		}

		hash, err := hashPassword(in.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}

		var expected int64
		if cred != nil {
			expected = cred.Version
		}
		next := &models.Credential{
			UserID:        user.ID,
			PasswordHash:  hash,
			Changed:       true,
			ChangedAt:     s.now(),
			ChangedFromIP: in.Meta.IP,
		}

		err = s.credentials.Upsert(ctx, next, expected)
		if errors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store credential: %w", err)
		}

		if sess != nil && sess.RequirePasswordChange {
			sess.RequirePasswordChange = false
			if err := s.sessions.Save(ctx, sess); err != nil {
				return nil, fmt.Errorf("update session: %w", err)
			}
		}

		updated, err := s.users.GetByID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("reload user: %w", err)
		}

		ev.typ = models.EventPasswordChanged
		s.record(ctx, ev, in.Meta)
		s.countChange("success")
		return updated, nil
	}

	ev.reason = ReasonConcurrentUpdate
	s.record(ctx, ev, in.Meta)
	s.countChange("conflict")
	return nil, &Error{Kind: KindConflict, Reason: ReasonConcurrentUpdate, Message: msgConcurrentUpdate}
}

// checkAgainstCurrent enforces "must differ from current" and, when the
// caller supplied it, that CurrentPassword is the secret in force.
func (s *Service) checkAgainstCurrent(cred *models.Credential, in ChangePasswordInput) error {
	if cred != nil && checkPassword(cred.PasswordHash, in.NewPassword) {
		return validationError(ReasonSameAsCurrent, msgSameAsCurrent)
	}

	if in.CurrentPassword == "" {
		return nil
	}

	var ok bool
	if cred != nil && cred.Changed {
		ok = checkPassword(cred.PasswordHash, in.CurrentPassword)
	} else {
		ok = secretEqual(in.CurrentPassword, s.defaultPassword)
	}
	if !ok {
		return validationError(ReasonCurrentMismatch, msgCurrentMismatch)
	}
	return nil
}

// callerSession loads the caller's session when one was presented. A live
// session belonging to someone else is refused.
func (s *Service) callerSession(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess.UserID != userID {
		return nil, authorizationError(ReasonSessionMismatch, msgSessionMismatch)
	}
	return sess, nil
}

func (s *Service) rejectChange(ctx context.Context, ev securityEvent, meta RequestMeta, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		ev.reason = ae.Reason
	}
	s.record(ctx, ev, meta)
	s.countChange("rejected")
	return err
}

func (s *Service) countChange(outcome string) {
	if s.metrics != nil {
		s.metrics.PasswordChanges.WithLabelValues(outcome).Inc()
	}
}

// ValidatePassword reports every policy rule password breaks.
func (s *Service) ValidatePassword(password string) models.ValidatePasswordResponse {
	errs := s.policy.Validate(password)
	return models.ValidatePasswordResponse{
		IsValid:      len(errs) == 0,
		Errors:       errs,
		Requirements: s.policy.Requirements(),
	}
}
