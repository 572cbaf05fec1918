// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeProfile returns the caller's own user document.
// GET /profile
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, actor.ID)
	if err != nil {
		h.ErrLog.Handle(w, r, "load profile failed", err)
		return
	}
	httpjson.OK(w, u)
}

// profileInput is a partial update; absent fields are left alone. Role,
// email and status are not accepted here.
type profileInput struct {
	Name            *string           `json:"name" validate:"omitempty,max=200" label:"Name"`
	GPA             *models.FlexFloat `json:"gpa"`
	Skills          *string           `json:"skills" validate:"omitempty,max=2000" label:"Skills"`
	ExperienceYears *models.FlexFloat `json:"experience_years"`
	About           *string           `json:"about" validate:"omitempty,max=5000" label:"About"`
	Location        *string           `json:"location" validate:"omitempty,max=200" label:"Location"`
}

func checkRange(label string, f *models.FlexFloat, max float64) string {
	if f == nil || !f.Set {
		return ""
	}
	if f.Value < 0 || f.Value > max {
		return label + " is out of range."
	}
	return ""
}

// HandleUpdate applies a partial profile update. Student academic fields
// only apply to students and about/location only to institutions and
// companies; other fields are ignored for the caller's role.
// PUT /profile
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized", "Please sign in to continue.")
		return
	}

	var in profileInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile failed", err, "Invalid JSON body.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}
	if msg := checkRange("GPA", in.GPA, 5); msg != "" {
		h.ErrLog.Invalid(w, msg)
		return
	}
	if msg := checkRange("Experience", in.ExperienceYears, 80); msg != "" {
		h.ErrLog.Invalid(w, msg)
		return
	}

	upd := userstore.ProfileUpdate{}
	if in.Name != nil {
		name := htmlsanitize.StripTags(*in.Name)
		if name == "" && !actor.IsStudent() {
			h.ErrLog.Invalid(w, "Name is required.")
			return
		}
		upd.Name = &name
	}
	switch {
	case actor.IsStudent():
		upd.GPA = in.GPA
		upd.ExperienceYears = in.ExperienceYears
		if in.Skills != nil {
			skills := htmlsanitize.StripTags(*in.Skills)
			upd.Skills = &skills
		}
	case actor.IsInstitution(), actor.IsCompany():
		if in.About != nil {
			about := htmlsanitize.Sanitize(*in.About)
			upd.About = &about
		}
		if in.Location != nil {
			loc := htmlsanitize.StripTags(*in.Location)
			upd.Location = &loc
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).UpdateProfile(ctx, actor.ID, upd)
	if errors.Is(err, userstore.ErrDuplicateInstitutionName) {
		httpjson.Error(w, http.StatusConflict, "duplicate_institution_name", err.Error())
		return
	}
	if err != nil {
		h.ErrLog.Handle(w, r, "update profile failed", err)
		return
	}
	httpjson.OK(w, u)
}

type passwordInput struct {
	Current string `json:"current_password" validate:"required" label:"Current password"`
	New     string `json:"new_password" validate:"required,min=6,max=72" label:"New password"`
}

// HandleChangePassword replaces the caller's password after checking the
// current one.
// POST /profile/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized", "Please sign in to continue.")
		return
	}

	var in passwordInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode password change failed", err, "Invalid JSON body.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.GetByID(ctx, actor.ID)
	if err != nil {
		h.ErrLog.Handle(w, r, "load user for password change failed", err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, in.Current) {
		httpjson.Error(w, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect.")
		return
	}
	hash, err := auth.HashPassword(in.New)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to change password.")
		return
	}
	if err := users.SetPasswordHash(ctx, actor.ID, hash); err != nil {
		h.ErrLog.Handle(w, r, "store password hash failed", err)
		return
	}
	h.Log.Info("password changed", zap.String("user_id", actor.ID.Hex()))
	httpjson.NoContent(w)
}
