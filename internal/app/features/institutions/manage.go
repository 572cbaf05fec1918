// internal/app/features/institutions/manage.go
package institutions

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	coursestore "github.com/dalemusser/careerhub/internal/app/store/courses"
	facultystore "github.com/dalemusser/careerhub/internal/app/store/faculties"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createInput struct {
	Name     string `json:"name" validate:"required,max=200" label:"Name"`
	About    string `json:"about" validate:"max=5000" label:"About"`
	Location string `json:"location" validate:"max=200" label:"Location"`
}

func actorHex(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}

func (h *Handler) writeDupError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, userstore.ErrDuplicateInstitutionName):
		httpjson.Error(w, http.StatusConflict, "duplicate_institution_name", err.Error())
	case errors.Is(err, userstore.ErrDuplicateEmail):
		httpjson.Error(w, http.StatusConflict, "duplicate_email", err.Error())
	default:
		return false
	}
	return true
}

// HandleCreate registers an institution on its behalf. The account gets a
// placeholder email and no password, so it cannot sign in.
// POST /institutions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode institution failed", err, "Invalid JSON body.")
		return
	}
	in.Name = htmlsanitize.StripTags(in.Name)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		Role:     models.RoleInstitution,
		Name:     in.Name,
		Email:    normalize.PlaceholderEmail(in.Name),
		About:    htmlsanitize.Sanitize(in.About),
		Location: htmlsanitize.StripTags(in.Location),
		Status:   models.StatusActive,
	})
	if h.writeDupError(w, err) {
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create institution failed", err, "A database error occurred.")
		return
	}

	h.AuditLog.Admin(ctx, r, audit.EventInstitutionCreated, actorHex(r), &u.ID, map[string]string{"name": u.Name})
	httpjson.Created(w, toView(u))
}

type updateInput struct {
	Name     *string `json:"name" validate:"omitempty,max=200" label:"Name"`
	About    *string `json:"about" validate:"omitempty,max=5000" label:"About"`
	Location *string `json:"location" validate:"omitempty,max=200" label:"Location"`
}

// HandleUpdate renames or edits an institution. A rename is carried onto
// its faculties and courses; existing applications and admissions keep the
// name they were filed under.
// PUT /institutions/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Institution not found.")
		return
	}

	var in updateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode institution update failed", err, "Invalid JSON body.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	upd := userstore.ProfileUpdate{}
	if in.Name != nil {
		name := htmlsanitize.StripTags(*in.Name)
		if name == "" {
			h.ErrLog.Invalid(w, "Name is required.")
			return
		}
		upd.Name = &name
	}
	if in.About != nil {
		about := htmlsanitize.Sanitize(*in.About)
		upd.About = &about
	}
	if in.Location != nil {
		loc := htmlsanitize.StripTags(*in.Location)
		upd.Location = &loc
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	before, err := users.GetByIDAndRole(ctx, oid, models.RoleInstitution)
	if err != nil {
		h.ErrLog.Handle(w, r, "load institution failed", err)
		return
	}
	u, err := users.UpdateProfile(ctx, oid, upd)
	if h.writeDupError(w, err) {
		return
	}
	if err != nil {
		h.ErrLog.Handle(w, r, "update institution failed", err)
		return
	}

	if u.Name != before.Name {
		if _, err := facultystore.New(h.DB).SetInstitutionName(ctx, oid, u.Name); err != nil {
			h.Log.Warn("resync faculty institution name failed", zap.String("institution_id", oid.Hex()), zap.Error(err))
		}
		if _, err := coursestore.New(h.DB).SetInstitutionName(ctx, oid, u.Name); err != nil {
			h.Log.Warn("resync course institution name failed", zap.String("institution_id", oid.Hex()), zap.Error(err))
		}
	}

	h.AuditLog.Admin(ctx, r, audit.EventInstitutionUpdated, actorHex(r), &oid, map[string]string{"from": before.Name, "to": u.Name})
	httpjson.OK(w, toView(*u))
}

// HandleDelete removes an institution together with its faculties and
// courses. Applications and admissions filed under its name are kept.
// DELETE /institutions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Institution not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users := userstore.New(h.DB)
	inst, err := users.GetByIDAndRole(ctx, oid, models.RoleInstitution)
	if err != nil {
		h.ErrLog.Handle(w, r, "load institution failed", err)
		return
	}
	if _, err := users.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete institution failed", err, "A database error occurred.")
		return
	}

	faculties, err := facultystore.New(h.DB).DeleteByInstitution(ctx, oid)
	if err != nil {
		h.Log.Warn("delete institution faculties failed", zap.String("institution_id", oid.Hex()), zap.Error(err))
	}
	courses, err := coursestore.New(h.DB).DeleteByInstitution(ctx, oid)
	if err != nil {
		h.Log.Warn("delete institution courses failed", zap.String("institution_id", oid.Hex()), zap.Error(err))
	}
	h.Log.Info("institution deleted",
		zap.String("institution_id", oid.Hex()),
		zap.Int64("faculties", faculties),
		zap.Int64("courses", courses))

	h.AuditLog.Admin(ctx, r, audit.EventInstitutionDeleted, actorHex(r), &oid, map[string]string{"name": inst.Name})
	httpjson.NoContent(w)
}
