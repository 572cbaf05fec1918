// internal/app/system/eligibility/transitions.go
package eligibility

import "github.com/dalemusser/careerhub/internal/domain/models"

// Legal reviewer moves. Anything not listed, including every move out of
// a terminal status, is rejected. Confirmed and Withdrawn are set only by
// ConfirmAdmission and never through review.
var (
	applicationTransitions = map[string][]string{
		models.ApplicationPending: {models.ApplicationAdmitted, models.ApplicationRejected},
	}
	jobApplicationTransitions = map[string][]string{
		models.JobApplicationApplied: {models.JobApplicationShortlisted, models.JobApplicationRejected},
	}
)

// CanTransitionApplication reports whether a course application may move
// from one status to another.
func CanTransitionApplication(from, to string) bool {
	return allowed(applicationTransitions, from, to)
}

// CanTransitionJobApplication reports whether a job application may move
// from one status to another.
func CanTransitionJobApplication(from, to string) bool {
	return allowed(jobApplicationTransitions, from, to)
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}
