// internal/app/features/catalog/faculties.go
package catalog

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/catalogpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	facultystore "github.com/dalemusser/careerhub/internal/app/store/faculties"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeFaculties lists faculties, optionally for one institution.
// GET /faculties?institution_id=
func (h *Handler) ServeFaculties(w http.ResponseWriter, r *http.Request) {
	inst, ok := institutionFilter(r)
	if !ok {
		h.ErrLog.Invalid(w, "institution_id is not a valid ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := facultystore.New(h.DB).List(ctx, inst)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list faculties failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, out)
}

type facultyInput struct {
	Name          string `json:"name" validate:"required,max=200" label:"Name"`
	InstitutionID string `json:"institution_id" validate:"omitempty,objectid" label:"Institution"`
}

// HandleCreateFaculty adds a faculty to the caller's institution, or to the
// named institution when the caller is an admin.
// POST /faculties
func (h *Handler) HandleCreateFaculty(w http.ResponseWriter, r *http.Request) {
	var in facultyInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode faculty failed", err, "Invalid JSON body.")
		return
	}
	in.Name = htmlsanitize.StripTags(in.Name)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}
	requested, _ := parseOptionalID(in.InstitutionID)
	owner, ok := catalogpolicy.OwnerFor(r, requested)
	if !ok {
		h.ErrLog.LogForbidden(w, r, "faculty create denied", "You can only add faculties to your own institution; admins must name one.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inst, err := h.loadInstitution(ctx, owner)
	if err != nil {
		h.ErrLog.Handle(w, r, "load institution failed", err)
		return
	}
	f, err := facultystore.New(h.DB).Create(ctx, models.Faculty{
		Name:            in.Name,
		InstitutionID:   inst.ID,
		InstitutionName: inst.Name,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create faculty failed", err, "A database error occurred.")
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventFacultyCreated, actor.ID.Hex(), &f.ID, map[string]string{"name": f.Name, "institution": inst.Name})
	httpjson.Created(w, f)
}

// loadManagedFaculty loads the {id} faculty and checks the caller may
// change it. It writes the failure response itself.
func (h *Handler) loadManagedFaculty(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Faculty, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Faculty not found.")
		return models.Faculty{}, false
	}
	f, err := facultystore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.Handle(w, r, "load faculty failed", err)
		return models.Faculty{}, false
	}
	if !catalogpolicy.CanManage(r, f.InstitutionID) {
		h.ErrLog.LogForbidden(w, r, "faculty change denied", "You do not manage this faculty.")
		return models.Faculty{}, false
	}
	return f, true
}

type renameInput struct {
	Name string `json:"name" validate:"required,max=200" label:"Name"`
}

// HandleRenameFaculty renames a faculty. Courses keep the faculty name they
// were created with.
// PUT /faculties/{id}
func (h *Handler) HandleRenameFaculty(w http.ResponseWriter, r *http.Request) {
	var in renameInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode faculty rename failed", err, "Invalid JSON body.")
		return
	}
	in.Name = htmlsanitize.StripTags(in.Name)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f, ok := h.loadManagedFaculty(ctx, w, r)
	if !ok {
		return
	}
	if err := facultystore.New(h.DB).Rename(ctx, f.ID, in.Name); err != nil {
		h.ErrLog.Handle(w, r, "rename faculty failed", err)
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventFacultyUpdated, actor.ID.Hex(), &f.ID, map[string]string{"from": f.Name, "to": in.Name})
	f.Name = in.Name
	httpjson.OK(w, f)
}

// HandleDeleteFaculty removes a faculty.
// DELETE /faculties/{id}
func (h *Handler) HandleDeleteFaculty(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f, ok := h.loadManagedFaculty(ctx, w, r)
	if !ok {
		return
	}
	if _, err := facultystore.New(h.DB).Delete(ctx, f.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete faculty failed", err, "A database error occurred.")
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventFacultyDeleted, actor.ID.Hex(), &f.ID, map[string]string{"name": f.Name})
	httpjson.NoContent(w)
}
