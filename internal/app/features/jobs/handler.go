// internal/app/features/jobs/handler.go
package jobs

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	"github.com/dalemusser/careerhub/internal/app/store/repos"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves job postings and the applications made to them.
type Handler struct {
	DB       *mongo.Database
	Engine   *eligibility.Engine
	Events   events.Publisher
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, pub events.Publisher, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:       db,
		Engine:   repos.Engine(db, logger),
		Events:   pub,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

// loadJob loads the {id} job, writing a 404 when absent.
func (h *Handler) loadJob(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Job, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Job not found.")
		return models.Job{}, false
	}
	job, err := jobstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.Handle(w, r, "load job failed", err)
		return models.Job{}, false
	}
	return job, true
}
