// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	metricsstore "github.com/dalemusser/careerhub/internal/app/store/metrics"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}

type dashboard struct {
	Role   string `json:"role"`
	Name   string `json:"name"`
	Counts any    `json:"counts"`
}

// ServeDashboard returns the counts relevant to the signed-in user's role.
// GET /dashboard
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		h.ErrLog.LogForbidden(w, r, "dashboard without actor", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out := dashboard{Role: actor.Role, Name: actor.Name}
	switch actor.Role {
	case models.RoleStudent:
		out.Counts = metricsstore.FetchStudentCounts(ctx, h.DB, actor.ID)
	case models.RoleInstitution:
		// Counts key on the stored name, which may have been renamed since sign-in.
		inst, err := userstore.New(h.DB).GetByID(ctx, actor.ID)
		if err != nil {
			h.ErrLog.Handle(w, r, "load institution failed", err)
			return
		}
		out.Name = inst.Name
		out.Counts = metricsstore.FetchInstitutionCounts(ctx, h.DB, *inst)
	case models.RoleCompany:
		out.Counts = metricsstore.FetchCompanyCounts(ctx, h.DB, actor.ID)
	case models.RoleAdmin:
		out.Counts = metricsstore.FetchPlatformCounts(ctx, h.DB)
	default:
		h.ErrLog.LogForbidden(w, r, "dashboard for unknown role", "No dashboard for this account.")
		return
	}
	httpjson.OK(w, out)
}
