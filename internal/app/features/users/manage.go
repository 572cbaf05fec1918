// internal/app/features/users/manage.go
package users

import (
	"context"
	"net/http"

	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type statusInput struct {
	Status string `json:"status" validate:"required,accountstatus" label:"Status"`
}

// loadTarget loads the {id} user. Admins may not act on their own account.
func (h *Handler) loadTarget(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, authz.Actor, bool) {
	actor, _ := authz.ActorFrom(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "User not found.")
		return nil, actor, false
	}
	if oid == actor.ID {
		h.ErrLog.LogForbidden(w, r, "admin acting on self", "You can't change your own account here.")
		return nil, actor, false
	}
	u, err := userstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.Handle(w, r, "load user failed", err)
		return nil, actor, false
	}
	return u, actor, true
}

// HandleStatus sets a user's account status. Suspended users can't sign in.
// POST /users/{id}/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status failed", err, "Invalid JSON body.")
		return
	}
	in.Status = normalize.Status(in.Status)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, actor, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	from := u.Status
	if err := userstore.New(h.DB).SetStatus(ctx, u.ID, in.Status); err != nil {
		h.ErrLog.Handle(w, r, "set user status failed", err)
		return
	}
	u.Status = in.Status

	h.AuditLog.UserStatusChanged(ctx, r, actor.ID.Hex(), u.ID, from, in.Status)
	httpjson.OK(w, u)
}

// HandleDelete removes a user and everything that belongs to them: a
// student's applications, admissions and job applications, or a company's
// jobs and the applications made to them. Institutions are removed through
// /institutions so their catalog goes with them.
// DELETE /users/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	u, actor, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	if u.Role == models.RoleInstitution {
		h.ErrLog.Invalid(w, "Delete institutions from the institutions list.")
		return
	}

	if _, err := userstore.New(h.DB).Delete(ctx, u.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "A database error occurred.")
		return
	}
	if err := h.cascade(ctx, *u); err != nil {
		h.Log.Warn("user cascade incomplete", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	h.AuditLog.UserDeleted(ctx, r, actor.ID.Hex(), u.ID, u.Role, u.Email)
	httpjson.NoContent(w)
}

func (h *Handler) cascade(ctx context.Context, u models.User) error {
	switch u.Role {
	case models.RoleStudent:
		if _, err := applicationstore.New(h.DB).DeleteByStudent(ctx, u.ID); err != nil {
			return err
		}
		if _, err := admissionstore.New(h.DB).DeleteByStudent(ctx, u.ID); err != nil {
			return err
		}
		_, err := jobapplicationstore.New(h.DB).DeleteByStudent(ctx, u.ID)
		return err
	case models.RoleCompany:
		jobs, err := jobstore.New(h.DB).List(ctx, &u.ID)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if _, err := jobapplicationstore.New(h.DB).DeleteByJob(ctx, j.ID); err != nil {
				return err
			}
			if _, err := jobstore.New(h.DB).Delete(ctx, j.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
