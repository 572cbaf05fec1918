// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /users. Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeList)
	r.Get("/summary", h.ServeSummary)
	r.Post("/{id}/status", h.HandleStatus)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
