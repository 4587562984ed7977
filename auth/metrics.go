package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the auth flows.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	PasswordChanges *prometheus.CounterVec
	SecurityEvents  *prometheus.CounterVec
}

// NewMetrics registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "salesops_auth_login_attempts_total",
			Help: "Login attempts by login type and outcome",
		}, []string{"login_type", "outcome"}),
		PasswordChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "salesops_auth_password_changes_total",
			Help: "Password change attempts by outcome",
		}, []string{"outcome"}),
		SecurityEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "salesops_auth_security_events_total",
			Help: "Security log entries by event type",
		}, []string{"type"}),
	}
}
