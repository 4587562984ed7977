package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"salesops-auth/auth"
	cachepackage "salesops-auth/cache"
	"salesops-auth/config"
	"salesops-auth/database"
	"salesops-auth/handlers"
	"salesops-auth/repositories"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

const purgeInterval = 15 * time.Minute

// bearerAuth verifies the signature and expiry of bearer tokens. Whether the
// session still exists is checked by the handlers.
func bearerAuth(tokens *auth.TokenIssuer) func(*http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		token := handlers.BearerToken(r)
		if token == "" {
			return false, httpserver.RequestAuth{}
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			return false, httpserver.RequestAuth{}
		}

		return true, httpserver.RequestAuth{
			Type:   "bearer",
			Client: claims.Subject,
			Claims: map[string]interface{}{
				"session_id": claims.ID,
				"login_type": string(claims.LoginType),
			},
		}
	}
}

func healthCheck(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "salesops-auth"}`))
}

// purgeSessions drops expired SQL sessions until ctx is done. Redis
// sessions expire on their own TTL.
func purgeSessions(ctx context.Context, store *repositories.SQLSessionStore) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Error("Failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}

func StartServer(cfg *config.Config) {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting SalesOps Auth Service...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	stores := auth.Stores{
		Users:       repositories.NewSQLUserRepository(dbConn),
		Credentials: repositories.NewSQLCredentialStore(dbConn),
		SecurityLog: repositories.NewSQLSecurityLog(dbConn),
	}

	switch cfg.CacheType {
	case config.CacheRedis:
		cache := cachepackage.InitializeCache(cfg)
		defer cache.Close()
		stores.Sessions = cachepackage.NewSessionStore(cache)
	default:
		sessions := repositories.NewSQLSessionStore(dbConn)
		stores.Sessions = sessions
		go purgeSessions(ctx, sessions)
	}
	logger.Info("Session store selected", zap.String("type", cfg.CacheType))

	svc := auth.NewService(stores, auth.NewMetrics(prometheus.DefaultRegisterer), cfg)
	authHandler := handlers.NewAuthHandler(svc)

	// Create HTTP server with authentication
	server := httpserver.New(cfg.Port, bearerAuth(svc.Tokens()))

	// Register routes
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(healthCheck))

	metrics := promhttp.Handler()
	server.Register(httpserver.Route{
		Name:     "Metrics",
		Method:   "GET",
		Path:     "/metrics",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		metrics.ServeHTTP(w, r)
	}))

	for _, e := range authHandler.Endpoints() {
		server.Register(e.Route, e.Handler)
	}

	logger.Info("SalesOps Auth Service started on port " + cfg.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: POST /auth/login, POST /auth/change-password, POST /auth/validate-password, GET /auth/security-log")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
