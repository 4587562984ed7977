package handlers

import (
	"github.com/umakantv/go-utils/httpserver"
)

// Endpoint pairs an httpserver route with its handler.
type Endpoint struct {
	Route   httpserver.Route
	Handler httpserver.HandlerFunc
}

// Endpoints lists every /auth route served by h.
func (h *AuthHandler) Endpoints() []Endpoint {
	return []Endpoint{
		{httpserver.Route{Name: "Login", Method: "POST", Path: "/auth/login", AuthType: "none"}, httpserver.HandlerFunc(h.Login)},
		{httpserver.Route{Name: "ChangePassword", Method: "POST", Path: "/auth/change-password", AuthType: "none"}, httpserver.HandlerFunc(h.ChangePassword)},
		{httpserver.Route{Name: "ValidatePassword", Method: "POST", Path: "/auth/validate-password", AuthType: "none"}, httpserver.HandlerFunc(h.ValidatePassword)},
		{httpserver.Route{Name: "SecurityLog", Method: "GET", Path: "/auth/security-log", AuthType: "none"}, httpserver.HandlerFunc(h.SecurityLog)},
		{httpserver.Route{Name: "ResetPassword", Method: "POST", Path: "/auth/admin/reset-password", AuthType: "none"}, httpserver.HandlerFunc(h.ResetPassword)},
		{httpserver.Route{Name: "Me", Method: "GET", Path: "/auth/me", AuthType: "bearer"}, httpserver.HandlerFunc(h.Me)},
		{httpserver.Route{Name: "Logout", Method: "POST", Path: "/auth/logout", AuthType: "bearer"}, httpserver.HandlerFunc(h.Logout)},
	}
}
