// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"
	"strings"

	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"golang.org/x/sync/errgroup"
)

// ServeList lists users, optionally narrowed by ?role= and ?status=.
// GET /users
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	list, err := userstore.New(h.DB).List(ctx, userstore.ListFilter{
		Role:   strings.TrimSpace(q.Get("role")),
		Status: strings.TrimSpace(q.Get("status")),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, list)
}

type summary struct {
	UsersByRole     map[string]int64 `json:"users_by_role"`
	Applications    int64            `json:"applications"`
	Admissions      int64            `json:"admissions"`
	Jobs            int64            `json:"jobs"`
	JobApplications int64            `json:"job_applications"`
}

// ServeSummary reports platform-wide counts.
// GET /users/summary
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var out summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.UsersByRole, err = userstore.New(h.DB).CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Applications, err = applicationstore.New(h.DB).Count(gctx, applicationstore.Filter{})
		return err
	})
	g.Go(func() (err error) {
		out.Admissions, err = admissionstore.New(h.DB).Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Jobs, err = jobstore.New(h.DB).Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.JobApplications, err = jobapplicationstore.New(h.DB).Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.LogServerError(w, r, "summary counts failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, out)
}
