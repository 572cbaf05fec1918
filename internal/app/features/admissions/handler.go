// internal/app/features/admissions/handler.go
package admissions

import (
	"context"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	"github.com/dalemusser/careerhub/internal/app/store/repos"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves published admissions.
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

// admissionID reads the {id} parameter. Admission IDs embed the
// institution name, so the segment may arrive percent-encoded.
func admissionID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// loadAdmission loads the {id} admission, writing a 404 when absent.
func (h *Handler) loadAdmission(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Admission, bool) {
	adm, err := admissionstore.New(h.DB).GetByID(ctx, admissionID(r))
	if err != nil {
		h.ErrLog.Handle(w, r, "load admission failed", err)
		return models.Admission{}, false
	}
	return adm, true
}
