// internal/app/features/admissions/routes.go
package admissions

import (
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /admissions.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.With(sm.RequireRole(models.RoleStudent, models.RoleInstitution, models.RoleAdmin)).Get("/", h.ServeList)
	r.With(sm.RequireRole(models.RoleStudent)).Post("/{id}/confirm", h.HandleConfirm)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleInstitution, models.RoleAdmin))
		pr.Post("/publish", h.HandlePublish)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
