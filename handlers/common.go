package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"salesops-auth/auth"
	"salesops-auth/models"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs with the route/method/path of the matched httpserver route
// prefixed to the message.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	reqAuth := httpserver.GetRequestAuth(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if reqAuth != nil {
		logMsg += " - client:" + reqAuth.Client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Data: data})
}

// writeError maps an auth error kind to its status code. Internal errors
// are logged and replaced with a generic message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(auth.KindOf(err))
	message := err.Error()
	if status == http.StatusInternalServerError {
		logRequest(ctx, "error", "Internal error", zap.Error(err))
		message = "Lỗi hệ thống, vui lòng thử lại sau"
	}
	writeJSON(w, status, models.Envelope{Success: false, Error: message})
}

func statusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation:
		return http.StatusBadRequest
	case auth.KindAuthentication:
		return http.StatusUnauthorized
	case auth.KindAuthorization:
		return http.StatusForbidden
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func invalidJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, models.Envelope{Success: false, Error: "Dữ liệu gửi lên không hợp lệ"})
}

// requestMeta collects caller details for the security log. The first
// X-Forwarded-For hop wins over the socket address.
func requestMeta(r *http.Request) auth.RequestMeta {
	ip := r.RemoteAddr
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return auth.RequestMeta{IP: ip, UserAgent: r.UserAgent()}
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
