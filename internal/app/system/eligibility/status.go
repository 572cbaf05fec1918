// internal/app/system/eligibility/status.go
package eligibility

import (
	"context"

	"github.com/dalemusser/careerhub/internal/app/system/metrics"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.uber.org/zap"
)

// UpdateApplicationStatus moves a course application to a new status.
// The caller authorizes the actor; the engine enforces the state machine.
// The write only lands if the stored status still equals app.Status, so
// two reviewers acting at once cannot both succeed.
func (e *Engine) UpdateApplicationStatus(ctx context.Context, app models.Application, to string) (models.Application, error) {
	if !CanTransitionApplication(app.Status, to) {
		return app, ErrInvalidTransition
	}
	ok, err := e.apps.UpdateStatus(ctx, app.ID, app.Status, to)
	if err != nil {
		return app, remote("update application status", err)
	}
	if !ok {
		return app, ErrInvalidTransition
	}

	metrics.StatusTransitions.WithLabelValues("application", to).Inc()
	e.log.Info("application status changed",
		zap.String("application_id", app.ID.Hex()),
		zap.String("from", app.Status),
		zap.String("to", to))

	app.Status = to
	return app, nil
}

// UpdateJobApplicationStatus is the job-application counterpart of
// UpdateApplicationStatus.
func (e *Engine) UpdateJobApplicationStatus(ctx context.Context, ja models.JobApplication, to string) (models.JobApplication, error) {
	if !CanTransitionJobApplication(ja.Status, to) {
		return ja, ErrInvalidTransition
	}
	ok, err := e.jobApps.UpdateStatus(ctx, ja.ID, ja.Status, to)
	if err != nil {
		return ja, remote("update job application status", err)
	}
	if !ok {
		return ja, ErrInvalidTransition
	}

	metrics.StatusTransitions.WithLabelValues("job_application", to).Inc()
	e.log.Info("job application status changed",
		zap.String("job_application_id", ja.ID.Hex()),
		zap.String("from", ja.Status),
		zap.String("to", to))

	ja.Status = to
	return ja, nil
}

// ApplyForJob creates a job application when the student passes the
// job's gate. There is no cap on how many jobs a student applies to.
func (e *Engine) ApplyForJob(ctx context.Context, student models.User, job models.Job) (models.JobApplication, error) {
	if !Qualifies(job, student) {
		metrics.JobApplications.WithLabelValues(outcome(ErrNotQualified)).Inc()
		return models.JobApplication{}, ErrNotQualified
	}

	ja := models.JobApplication{
		JobID:       job.ID,
		CompanyID:   job.CompanyID,
		JobTitle:    job.Title,
		StudentID:   student.ID,
		StudentName: student.DisplayName(),
		Status:      models.JobApplicationApplied,
		Date:        e.now(),
	}
	created, err := e.jobApps.Create(ctx, ja)
	if err != nil {
		err = remote("create job application", err)
		metrics.JobApplications.WithLabelValues(outcome(err)).Inc()
		return models.JobApplication{}, err
	}
	metrics.JobApplications.WithLabelValues(outcome(nil)).Inc()
	return created, nil
}
