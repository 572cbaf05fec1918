// Package jobpolicy provides authorization policies for jobs and job applications.
//
// Authorization rules:
//   - Companies post jobs, see only their own, and screen their applicants
//   - Students browse every job and apply
//   - Admins browse and delete any job and view any applicant list
//   - Institutions browse jobs read-only
package jobpolicy

import (
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope represents the jobs a user can list.
type ListScope struct {
	CanList bool
	// CompanyID restricts the listing to one company's jobs; nil means all.
	CompanyID *primitive.ObjectID
	// WithQualification asks for each job's apply gate result for the viewer.
	WithQualification bool
}

// CanListJobs determines what scope of jobs the current user can list.
func CanListJobs(r *http.Request) ListScope {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return ListScope{}
	}
	switch {
	case actor.IsCompany():
		id := actor.ID
		return ListScope{CanList: true, CompanyID: &id}
	case actor.IsStudent():
		return ListScope{CanList: true, WithQualification: true}
	default:
		return ListScope{CanList: true}
	}
}

// CanPost reports whether the current user may post a job.
func CanPost(r *http.Request) bool {
	return authz.IsCompany(r)
}

// CanApply reports whether the current user may apply to jobs.
func CanApply(r *http.Request) bool {
	return authz.IsStudent(r)
}

// CanManageJob reports whether the current user may delete the job or view
// its applicants: admins always, companies only for their own jobs.
func CanManageJob(r *http.Request, job models.Job) bool {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.IsCompany() && job.CompanyID == actor.ID
}

// CanReview reports whether the current user may shortlist or reject ja.
// Only the company that posted the job may.
func CanReview(r *http.Request, ja models.JobApplication) bool {
	actor, ok := authz.ActorFrom(r)
	return ok && actor.IsCompany() && ja.CompanyID == actor.ID
}
