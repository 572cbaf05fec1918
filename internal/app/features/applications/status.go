// internal/app/features/applications/status.go
package applications

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/applicationpolicy"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/notify"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type statusInput struct {
	Status string `json:"status"`
}

// HandleStatus moves a Pending application to Admitted or Rejected. Any
// other move, including a repeat of one that already happened, is an
// invalid transition. The student is notified on success.
// POST /applications/{id}/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status failed", err, "Invalid JSON body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, ok := h.loadApplication(ctx, w, r)
	if !ok {
		return
	}
	if !applicationpolicy.CanReview(r, app) {
		h.ErrLog.LogForbidden(w, r, "application review denied", "Only the institution applied to can review this application.")
		return
	}

	updated, err := h.Engine.UpdateApplicationStatus(ctx, app, in.Status)
	if err != nil {
		h.ErrLog.Handle(w, r, "update application status failed", err)
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.ApplicationStatusChanged(ctx, r, actor.ID.Hex(), updated.StudentID, updated.ID, updated.Institution, updated.Status)

	if student, err := userstore.New(h.DB).GetByID(ctx, updated.StudentID); err != nil {
		h.Log.Warn("load student for notification failed", zap.String("student_id", updated.StudentID.Hex()), zap.Error(err))
	} else {
		events.Emit(ctx, h.Events, h.Log, events.New(events.ApplicationStatusChanged, student.Email, student.DisplayName(), map[string]string{
			"application_id": updated.ID.Hex(),
			"institution":    updated.Institution,
			"status":         updated.Status,
			"courses":        notify.JoinList(updated.Courses),
		}))
	}

	httpjson.OK(w, updated)
}
