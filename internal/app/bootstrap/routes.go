// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	admissionsfeature "github.com/dalemusser/careerhub/internal/app/features/admissions"
	applicationsfeature "github.com/dalemusser/careerhub/internal/app/features/applications"
	auditlogfeature "github.com/dalemusser/careerhub/internal/app/features/auditlog"
	catalogfeature "github.com/dalemusser/careerhub/internal/app/features/catalog"
	dashboardfeature "github.com/dalemusser/careerhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/careerhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/careerhub/internal/app/features/health"
	institutionsfeature "github.com/dalemusser/careerhub/internal/app/features/institutions"
	jobsfeature "github.com/dalemusser/careerhub/internal/app/features/jobs"
	loginfeature "github.com/dalemusser/careerhub/internal/app/features/login"
	profilefeature "github.com/dalemusser/careerhub/internal/app/features/profile"
	usersfeature "github.com/dalemusser/careerhub/internal/app/features/users"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/blobstore"
	"github.com/dalemusser/careerhub/internal/app/system/metrics"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// WAFFLE calls this after config, DB connections, schema setup and Startup
// have completed. Every feature is mounted under its own path prefix and
// answers in JSON.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	if appCfg.JWTSecret != "" {
		issuer, err := auth.NewTokenIssuer(appCfg.JWTSecret, appCfg.JWTTTL)
		if err != nil {
			logger.Error("token issuer init failed", zap.Error(err))
			return nil, err
		}
		sessionMgr.SetTokenIssuer(issuer)
	}

	// LoadSessionUser refetches the user on every request so suspensions and
	// role changes take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	loginLimiter, submitLimiter := buildLimiters(appCfg, deps, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(metrics.Middleware)
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Local uploads are served back from the configured prefix.
	if local, ok := deps.Blobs.(*blobstore.Local); ok {
		prefix := local.BaseURL()
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root()))))
	}

	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, loginLimiter, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(db, deps.Blobs, errLog, auditLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	institutionsHandler := institutionsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/institutions", institutionsfeature.Routes(institutionsHandler, sessionMgr))

	catalogHandler := catalogfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/faculties", catalogfeature.FacultyRoutes(catalogHandler, sessionMgr))
	r.Mount("/courses", catalogfeature.CourseRoutes(catalogHandler, sessionMgr))

	applicationsHandler := applicationsfeature.NewHandler(db, deps.Events, errLog, auditLog, logger)
	r.Mount("/applications", applicationsfeature.Routes(applicationsHandler, sessionMgr, submitLimiter))

	admissionsHandler := admissionsfeature.NewHandler(db, deps.Events, errLog, auditLog, logger)
	r.Mount("/admissions", admissionsfeature.Routes(admissionsHandler, sessionMgr))

	jobsHandler := jobsfeature.NewHandler(db, deps.Events, errLog, auditLog, logger)
	r.Mount("/jobs", jobsfeature.Routes(jobsHandler, sessionMgr))
	r.Mount("/job-applications", jobsfeature.ApplicationRoutes(jobsHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit-events", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}

// buildLimiters returns the sign-in limiter and the submit limiter. They are
// shared through Redis when it is connected. The submit limiter is nil when
// submit_rate_limit is 0.
func buildLimiters(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*ratelimit.LoginLimiter, ratelimit.Limiter) {
	var submit ratelimit.Limiter
	if deps.Redis == nil {
		if appCfg.SubmitRateLimit > 0 {
			submit = ratelimit.NewMemory(appCfg.SubmitRateLimit, appCfg.SubmitRateWindow)
		}
		return ratelimit.NewMemoryLoginLimiter(), submit
	}

	login := ratelimit.NewLoginLimiter(
		ratelimit.NewRedis(deps.Redis, "careerhub:rl", 10, time.Minute, logger),
		ratelimit.NewRedis(deps.Redis, "careerhub:rl", 5, 5*time.Minute, logger),
	)
	if appCfg.SubmitRateLimit > 0 {
		submit = ratelimit.NewRedis(deps.Redis, "careerhub:rl", appCfg.SubmitRateLimit, appCfg.SubmitRateWindow, logger)
	}
	return login, submit
}
