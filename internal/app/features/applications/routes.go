// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /applications. submitLimiter, when non-nil,
// throttles submissions per student.
func Routes(h *Handler, sm *auth.SessionManager, submitLimiter ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleStudent))
		if submitLimiter != nil {
			pr.Use(ratelimit.Middleware(submitLimiter, "submit"))
		}
		pr.Post("/", h.HandleSubmit)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleStudent, models.RoleInstitution, models.RoleAdmin))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeOne)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleInstitution, models.RoleAdmin))
		pr.Post("/{id}/status", h.HandleStatus)
	})
	return r
}
