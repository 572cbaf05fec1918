// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Put("/", h.HandleUpdate)
	r.Post("/password", h.HandleChangePassword)
	r.With(sm.RequireRole(models.RoleStudent)).Post("/uploads/{field}", h.HandleUpload)
	return r
}
