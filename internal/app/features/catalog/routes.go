// internal/app/features/catalog/routes.go
package catalog

import (
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// FacultyRoutes is mounted under /faculties.
func FacultyRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeFaculties)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleInstitution, models.RoleAdmin))
		pr.Post("/", h.HandleCreateFaculty)
		pr.Put("/{id}", h.HandleRenameFaculty)
		pr.Delete("/{id}", h.HandleDeleteFaculty)
	})
	return r
}

// CourseRoutes is mounted under /courses.
func CourseRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeCourses)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleInstitution, models.RoleAdmin))
		pr.Post("/", h.HandleCreateCourse)
		pr.Delete("/{id}", h.HandleDeleteCourse)
	})
	return r
}
