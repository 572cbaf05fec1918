// internal/app/features/jobs/apply.go
package jobs

import (
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/jobpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
)

// HandleApply applies the signed-in student to a job when they pass its
// gate; otherwise it answers not_qualified and stores nothing.
// POST /jobs/{id}/apply
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	if !jobpolicy.CanApply(r) {
		h.ErrLog.LogForbidden(w, r, "non-student job apply", "Only students can apply for jobs.")
		return
	}
	actor, _ := authz.ActorFrom(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "apply for job")
	defer cancel()

	job, ok := h.loadJob(ctx, w, r)
	if !ok {
		return
	}
	student, err := userstore.New(h.DB).GetByID(ctx, actor.ID)
	if err != nil {
		h.ErrLog.Handle(w, r, "load student failed", err)
		return
	}

	ja, err := h.Engine.ApplyForJob(ctx, *student, job)
	if err != nil {
		h.ErrLog.Handle(w, r, "job apply failed", err)
		return
	}

	h.AuditLog.Student(ctx, r, audit.EventJobApplied, actor.ID.Hex(), map[string]string{
		"job_id":             job.ID.Hex(),
		"job_application_id": ja.ID.Hex(),
	})
	httpjson.Created(w, ja)
}
