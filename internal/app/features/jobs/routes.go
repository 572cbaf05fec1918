// internal/app/features/jobs/routes.go
package jobs

import (
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /jobs.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)

	r.With(sm.RequireRole(models.RoleCompany)).Post("/", h.HandlePost)
	r.With(sm.RequireRole(models.RoleStudent)).Post("/{id}/apply", h.HandleApply)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleCompany, models.RoleAdmin))
		pr.Delete("/{id}", h.HandleDelete)
		pr.Get("/{id}/applicants", h.ServeApplicants)
	})
	return r
}

// ApplicationRoutes is mounted under /job-applications.
func ApplicationRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.With(sm.RequireRole(models.RoleStudent)).Get("/", h.ServeMyApplications)
	r.With(sm.RequireRole(models.RoleCompany)).Post("/{id}/status", h.HandleStatus)
	return r
}
