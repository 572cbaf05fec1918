// internal/app/features/applications/list.go
package applications

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/policy/applicationpolicy"
	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList returns the applications the caller may see, newest first.
// Students get their own, institutions those naming them, admins all.
// An optional ?status= narrows the result.
// GET /applications
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	scope := applicationpolicy.CanListApplications(r)
	if !scope.CanList {
		h.ErrLog.LogForbidden(w, r, "application list denied", "You don't have access to applications.")
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := applicationstore.New(h.DB)
	var (
		out []models.Application
		err error
	)
	if !scope.StudentID.IsZero() {
		out, err = store.ListByStudent(ctx, scope.StudentID)
		if err == nil && status != "" {
			out = filterStatus(out, status)
		}
	} else {
		out, err = store.List(ctx, applicationstore.Filter{Institution: scope.Institution, Status: status})
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list applications failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, out)
}

func filterStatus(apps []models.Application, status string) []models.Application {
	out := apps[:0]
	for _, a := range apps {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// loadApplication loads the {id} application, writing a 404 when absent.
func (h *Handler) loadApplication(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Application, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Application not found.")
		return models.Application{}, false
	}
	app, err := applicationstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.Handle(w, r, "load application failed", err)
		return models.Application{}, false
	}
	return app, true
}

// ServeOne returns a single application.
// GET /applications/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, ok := h.loadApplication(ctx, w, r)
	if !ok {
		return
	}
	if !applicationpolicy.CanView(r, app) {
		h.ErrLog.LogForbidden(w, r, "application view denied", "You don't have access to this application.")
		return
	}
	httpjson.OK(w, app)
}
