package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"salesops-auth/auth"
	"salesops-auth/models"

	"go.uber.org/zap"
)

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid login body", zap.Error(err))
		invalidJSON(w)
		return
	}

	logRequest(ctx, "info", "Login request", zap.String("email", req.Email))

	resp, err := h.svc.Login(ctx, req.Email, req.Password, requestMeta(r))
	if err != nil {
		logRequest(ctx, "info", "Login rejected", zap.String("email", req.Email), zap.String("kind", auth.KindOf(err).String()))
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Login successful",
		zap.String("user_id", resp.User.ID),
		zap.String("login_type", string(resp.LoginType)),
		zap.Bool("require_password_change", resp.RequirePasswordChange),
	)
	writeSuccess(w, resp)
}

// ChangePassword handles POST /auth/change-password. A bearer token is
// optional; when present its session must belong to the target user.
func (h *AuthHandler) ChangePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid change-password body", zap.Error(err))
		invalidJSON(w)
		return
	}

	logRequest(ctx, "info", "Change password request", zap.String("user_id", req.UserID))

	user, err := h.svc.ChangePassword(ctx, auth.ChangePasswordInput{
		UserID:          req.UserID,
		NewPassword:     req.NewPassword,
		CurrentPassword: req.CurrentPassword,
		SessionID:       h.svc.SessionID(BearerToken(r)),
		Meta:            requestMeta(r),
	})
	if err != nil {
		logRequest(ctx, "info", "Change password rejected", zap.String("user_id", req.UserID), zap.String("kind", auth.KindOf(err).String()))
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Password changed", zap.String("user_id", user.ID))
	writeSuccess(w, models.ChangePasswordResponse{User: *user})
}

// ValidatePassword handles POST /auth/validate-password
func (h *AuthHandler) ValidatePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.ValidatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid validate-password body", zap.Error(err))
		invalidJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, h.svc.ValidatePassword(req.Password))
}

// SecurityLog handles GET /auth/security-log?adminPassword=
func (h *AuthHandler) SecurityLog(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.SecurityLog(ctx, r.URL.Query().Get("adminPassword"), requestMeta(r))
	if err != nil {
		logRequest(ctx, "info", "Security log access denied")
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Security log served", zap.Int("count", len(resp.Logs)), zap.Int("total", resp.TotalEvents))
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Me(ctx, BearerToken(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(w, resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(ctx, BearerToken(r), requestMeta(r)); err != nil {
		writeError(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "Logged out")
	writeSuccess(w, nil)
}

// ResetPassword handles POST /auth/admin/reset-password
func (h *AuthHandler) ResetPassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid reset-password body", zap.Error(err))
		invalidJSON(w)
		return
	}

	user, err := h.svc.ResetPassword(ctx, req.AdminPassword, req.UserID, requestMeta(r))
	if err != nil {
		logRequest(ctx, "info", "Password reset rejected", zap.String("user_id", req.UserID))
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Password reset to default", zap.String("user_id", user.ID))
	writeSuccess(w, models.ChangePasswordResponse{User: *user})
}
