// internal/app/features/catalog/courses.go
package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/catalogpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	coursestore "github.com/dalemusser/careerhub/internal/app/store/courses"
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

// ServeCourses lists courses, optionally for one institution.
// GET /courses?institution_id=
func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	inst, ok := institutionFilter(r)
	if !ok {
		h.ErrLog.Invalid(w, "institution_id is not a valid ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := coursestore.New(h.DB).List(ctx, inst)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list courses failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, out)
}

type courseInput struct {
	Name          string           `json:"name" validate:"required,max=200" label:"Name"`
	InstitutionID string           `json:"institution_id" validate:"omitempty,objectid" label:"Institution"`
	FacultyID     string           `json:"faculty_id" validate:"omitempty,objectid" label:"Faculty"`
	MinGPA        models.FlexFloat `json:"min_gpa"`
}

// HandleCreateCourse adds a course. A missing or non-positive min_gpa is
// stored as the default. Course names are unique within an institution
// because applications select courses by name.
// POST /courses
func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var in courseInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode course failed", err, "Invalid JSON body.")
		return
	}
	in.Name = htmlsanitize.StripTags(in.Name)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}
	if in.MinGPA.Set && in.MinGPA.Value > 5 {
		h.ErrLog.Invalid(w, "Minimum GPA is out of range.")
		return
	}
	requested, _ := parseOptionalID(in.InstitutionID)
	owner, ok := catalogpolicy.OwnerFor(r, requested)
	if !ok {
		h.ErrLog.LogForbidden(w, r, "course create denied", "You can only add courses to your own institution; admins must name one.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inst, err := h.loadInstitution(ctx, owner)
	if err != nil {
		h.ErrLog.Handle(w, r, "load institution failed", err)
		return
	}

	c := models.Course{
		Name:            in.Name,
		InstitutionID:   inst.ID,
		InstitutionName: inst.Name,
		MinGPA:          in.MinGPA,
	}
	if fid, _ := parseOptionalID(in.FacultyID); !fid.IsZero() {
		f, err := facultystore.New(h.DB).GetByID(ctx, fid)
		if err != nil || f.InstitutionID != inst.ID {
			h.ErrLog.Invalid(w, "Faculty does not belong to this institution.")
			return
		}
		c.FacultyID = &f.ID
		c.FacultyName = f.Name
	}

	created, err := coursestore.New(h.DB).Create(ctx, c)
	if errors.Is(err, coursestore.ErrDuplicateCourse) {
		httpjson.Error(w, http.StatusConflict, "duplicate_course", "This institution already offers a course with that name.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create course failed", err, "A database error occurred.")
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventCourseCreated, actor.ID.Hex(), &created.ID, map[string]string{
		"name":        created.Name,
		"institution": inst.Name,
		"min_gpa":     created.MinGPA.String(),
	})
	httpjson.Created(w, created)
}

// HandleDeleteCourse removes a course. Applications that named it keep
// the name.
// DELETE /courses/{id}
func (h *Handler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Course not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	courses := coursestore.New(h.DB)
	c, err := courses.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.Handle(w, r, "load course failed", err)
		return
	}
	if !catalogpolicy.CanManage(r, c.InstitutionID) {
		h.ErrLog.LogForbidden(w, r, "course delete denied", "You do not manage this course.")
		return
	}
	if _, err := courses.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete course failed", err, "A database error occurred.")
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventCourseDeleted, actor.ID.Hex(), &oid, map[string]string{"name": c.Name})
	httpjson.NoContent(w)
}
