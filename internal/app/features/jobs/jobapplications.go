// internal/app/features/jobs/jobapplications.go
package jobs

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/jobpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeMyApplications lists the signed-in student's job applications.
// GET /job-applications
func (h *Handler) ServeMyApplications(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok || !actor.IsStudent() {
		h.ErrLog.LogForbidden(w, r, "job application list denied", "Only students have job applications.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := jobapplicationstore.New(h.DB).ListByStudent(ctx, actor.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list job applications failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, out)
}

type statusInput struct {
	Status string `json:"status"`
}

// HandleStatus shortlists or rejects an Applied job application. Only the
// company that posted the job may; the student is notified.
// POST /job-applications/{id}/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Job application not found.")
		return
	}
	var in statusInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status failed", err, "Invalid JSON body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ja, err := jobapplicationstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.Handle(w, r, "load job application failed", err)
		return
	}
	if !jobpolicy.CanReview(r, ja) {
		h.ErrLog.LogForbidden(w, r, "job application review denied", "Only the company that posted this job can review it.")
		return
	}

	updated, err := h.Engine.UpdateJobApplicationStatus(ctx, ja, in.Status)
	if err != nil {
		h.ErrLog.Handle(w, r, "update job application status failed", err)
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventJobApplicationStatusChanged, actor.ID.Hex(), &updated.StudentID, map[string]string{
		"job_application_id": updated.ID.Hex(),
		"job_title":          updated.JobTitle,
		"status":             updated.Status,
	})

	if student, err := userstore.New(h.DB).GetByID(ctx, updated.StudentID); err != nil {
		h.Log.Warn("load student for notification failed", zap.String("student_id", updated.StudentID.Hex()), zap.Error(err))
	} else {
		events.Emit(ctx, h.Events, h.Log, events.New(events.JobApplicationStatusChanged, student.Email, student.DisplayName(), map[string]string{
			"job_application_id": updated.ID.Hex(),
			"job_title":          updated.JobTitle,
			"status":             updated.Status,
		}))
	}

	httpjson.OK(w, updated)
}
