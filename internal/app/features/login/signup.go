// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.uber.org/zap"
)

type signupInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=6,max=72" label:"Password"`
	Name     string `json:"name" validate:"required,max=200" label:"Name"`
	Role     string `json:"role" validate:"required,signuprole" label:"Role"`
}

// HandleSignup creates a student, institution, or company account and
// signs it in.
// POST /auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode signup failed", err, "Invalid JSON body.")
		return
	}
	in.Email = normalize.Email(in.Email)
	in.Name = htmlsanitize.StripTags(normalize.Name(in.Name))
	in.Role = normalize.Role(in.Role)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		Status:       models.StatusActive,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		httpjson.Error(w, http.StatusConflict, "duplicate_email", err.Error())
		return
	case errors.Is(err, userstore.ErrDuplicateInstitutionName):
		httpjson.Error(w, http.StatusConflict, "duplicate_institution_name", err.Error())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Unable to create account.")
		return
	}

	su := sessionUser(&u)
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Warn("session save after signup failed", zap.Error(err))
	}
	h.AuditLog.Signup(ctx, r, u.ID, u.Role, u.Email)
	h.Log.Info("account created", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	httpjson.Created(w, principalFrom(su))
}
