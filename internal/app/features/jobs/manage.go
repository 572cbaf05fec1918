// internal/app/features/jobs/manage.go
package jobs

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/jobpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.uber.org/zap"
)

type postInput struct {
	Title          string           `json:"title" validate:"required,max=200" label:"Title"`
	Description    string           `json:"description" validate:"max=20000" label:"Description"`
	Location       string           `json:"location" validate:"max=200" label:"Location"`
	Salary         string           `json:"salary" validate:"max=100" label:"Salary"`
	MinGPA         models.FlexFloat `json:"min_gpa"`
	MinExperience  models.FlexFloat `json:"min_experience"`
	RequiredSkills string           `json:"required_skills" validate:"max=2000" label:"Required skills"`
}

// HandlePost publishes a job for the signed-in company. required_skills is
// a comma-separated list.
// POST /jobs
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if !jobpolicy.CanPost(r) {
		h.ErrLog.LogForbidden(w, r, "non-company job post", "Only companies can post jobs.")
		return
	}
	actor, _ := authz.ActorFrom(r)

	var in postInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode job failed", err, "Invalid JSON body.")
		return
	}
	in.Title = htmlsanitize.StripTags(in.Title)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	company, err := userstore.New(h.DB).GetByID(ctx, actor.ID)
	if err != nil {
		h.ErrLog.Handle(w, r, "load company failed", err)
		return
	}

	job, err := jobstore.New(h.DB).Create(ctx, models.Job{
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		Title:          in.Title,
		Description:    htmlsanitize.Sanitize(in.Description),
		Location:       htmlsanitize.StripTags(in.Location),
		Salary:         htmlsanitize.StripTags(in.Salary),
		MinGPA:         in.MinGPA,
		MinExperience:  in.MinExperience,
		RequiredSkills: eligibility.ParseRequiredSkills(in.RequiredSkills),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create job failed", err, "A database error occurred.")
		return
	}

	h.AuditLog.Admin(ctx, r, audit.EventJobPosted, actor.ID.Hex(), &job.ID, map[string]string{"title": job.Title})
	httpjson.Created(w, job)
}

// HandleDelete removes a job and every application made to it.
// DELETE /jobs/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	job, ok := h.loadJob(ctx, w, r)
	if !ok {
		return
	}
	if !jobpolicy.CanManageJob(r, job) {
		h.ErrLog.LogForbidden(w, r, "job delete denied", "You can only delete your own job postings.")
		return
	}
	if _, err := jobstore.New(h.DB).Delete(ctx, job.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete job failed", err, "A database error occurred.")
		return
	}
	n, err := jobapplicationstore.New(h.DB).DeleteByJob(ctx, job.ID)
	if err != nil {
		h.Log.Warn("delete job applications failed", zap.String("job_id", job.ID.Hex()), zap.Error(err))
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventJobDeleted, actor.ID.Hex(), &job.ID, map[string]string{"title": job.Title})
	h.Log.Info("job deleted", zap.String("job_id", job.ID.Hex()), zap.Int64("applications", n))
	httpjson.NoContent(w)
}
