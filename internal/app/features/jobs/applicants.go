// internal/app/features/jobs/applicants.go
package jobs

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/careerhub/internal/app/policy/jobpolicy"
	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type applicantProfile struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	GPA             models.FlexFloat   `json:"gpa"`
	Skills          string             `json:"skills,omitempty"`
	ExperienceYears models.FlexFloat   `json:"experience_years"`
	Certificates    []string           `json:"certificates,omitempty"`
	TranscriptURL   string             `json:"transcript_url,omitempty"`
}

type applicant struct {
	Application models.JobApplication `json:"application"`
	Student     *applicantProfile     `json:"student,omitempty"`
	eligibility.Evaluation
}

// ServeApplicants lists a job's applicants with their score and tier,
// best first. Scores are computed from each student's current profile.
// A student who has since been deleted is listed with a zero score.
// GET /jobs/{id}/applicants
func (h *Handler) ServeApplicants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	job, ok := h.loadJob(ctx, w, r)
	if !ok {
		return
	}
	if !jobpolicy.CanManageJob(r, job) {
		h.ErrLog.LogForbidden(w, r, "applicant list denied", "You can only view applicants for your own jobs.")
		return
	}

	apps, err := jobapplicationstore.New(h.DB).ListByJob(ctx, job.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list job applications failed", err, "A database error occurred.")
		return
	}
	ids := make([]primitive.ObjectID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.StudentID)
	}
	students, err := userstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load applicants failed", err, "A database error occurred.")
		return
	}

	out := make([]applicant, 0, len(apps))
	for _, a := range apps {
		row := applicant{Application: a, Evaluation: eligibility.Evaluation{Tier: eligibility.TierNotQualified}}
		if s, ok := students[a.StudentID]; ok {
			row.Evaluation = eligibility.Evaluate(job, s)
			row.Student = &applicantProfile{
				ID:              s.ID,
				Name:            s.DisplayName(),
				Email:           s.Email,
				GPA:             s.GPA,
				Skills:          s.Skills,
				ExperienceYears: s.ExperienceYears,
				Certificates:    s.Certificates,
				TranscriptURL:   s.TranscriptURL,
			}
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	httpjson.OK(w, out)
}
