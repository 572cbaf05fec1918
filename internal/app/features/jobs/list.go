// internal/app/features/jobs/list.go
package jobs

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/jobpolicy"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
)

// jobView is a job plus, for students, whether they pass its apply gate.
type jobView struct {
	models.Job
	Qualifies *bool `json:"qualifies,omitempty"`
}

// ServeList lists jobs, newest first. Companies see their own postings;
// students see every job with a qualifies flag.
// GET /jobs
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	scope := jobpolicy.CanListJobs(r)
	if !scope.CanList {
		h.ErrLog.LogForbidden(w, r, "job list denied", "You don't have access to jobs.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := jobstore.New(h.DB).List(ctx, scope.CompanyID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list jobs failed", err, "A database error occurred.")
		return
	}

	var student *models.User
	if scope.WithQualification {
		actor, _ := authz.ActorFrom(r)
		if student, err = userstore.New(h.DB).GetByID(ctx, actor.ID); err != nil {
			h.ErrLog.Handle(w, r, "load student failed", err)
			return
		}
	}

	out := make([]jobView, 0, len(list))
	for _, j := range list {
		v := jobView{Job: j}
		if student != nil {
			q := eligibility.Qualifies(j, *student)
			v.Qualifies = &q
		}
		out = append(out, v)
	}
	httpjson.OK(w, out)
}
