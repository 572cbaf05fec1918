// internal/app/features/login/handler.go
package login

import (
	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves sign-up, sign-in (cookie and bearer token), sign-out, and
// the current principal.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewMemoryLoginLimiter()
	}
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
	}
}

// principal is the JSON view of a signed-in user.
type principal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"email_verified"`
}

func principalFrom(u *auth.SessionUser) principal {
	return principal{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
	}
}

func sessionUser(u *models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:            u.ID.Hex(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
	}
}
