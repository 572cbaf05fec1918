// internal/app/system/eligibility/engine.go
package eligibility

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/metrics"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.uber.org/zap"
)

// Engine runs the multi-step application workflows against the repositories.
// The pure checks (CheckCourseApplication, Qualifies, Score) are usable
// without an Engine.
type Engine struct {
	apps       ApplicationRepo
	courses    CourseCatalog
	admissions AdmissionRepo
	jobApps    JobApplicationRepo
	log        *zap.Logger
	now        func() time.Time
}

// New builds an Engine over the given repositories.
func New(apps ApplicationRepo, courses CourseCatalog, admissions AdmissionRepo, jobApps JobApplicationRepo, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		apps:       apps,
		courses:    courses,
		admissions: admissions,
		jobApps:    jobApps,
		log:        logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SubmitCourseApplication validates and persists a student's course
// application. Checks run in a fixed order and the first failure wins;
// a rejected submission performs no write.
func (e *Engine) SubmitCourseApplication(ctx context.Context, student models.User, institution string, courses []string) (models.Application, error) {
	app, err := e.submitCourseApplication(ctx, student, institution, courses)
	metrics.CourseApplications.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		e.log.Info("course application refused",
			zap.String("student_id", student.ID.Hex()),
			zap.String("institution", institution),
			zap.String("reason", outcome(err)),
			zap.Error(err))
	}
	return app, err
}

func (e *Engine) submitCourseApplication(ctx context.Context, student models.User, institution string, courses []string) (models.Application, error) {
	if err := checkSelection(institution, courses); err != nil {
		return models.Application{}, err
	}

	existing, err := e.apps.ListByStudent(ctx, student.ID)
	if err != nil {
		return models.Application{}, remote("load applications", err)
	}
	if err := checkDuplicate(existing, institution); err != nil {
		return models.Application{}, err
	}

	catalog, err := e.courses.ListByInstitutionName(ctx, institution)
	if err != nil {
		return models.Application{}, remote("load courses", err)
	}
	if err := checkOffered(catalog, courses); err != nil {
		return models.Application{}, err
	}
	if err := checkGPA(catalog, courses, student.GPA); err != nil {
		return models.Application{}, err
	}

	app := models.Application{
		StudentID:   student.ID,
		StudentName: student.DisplayName(),
		Institution: institution,
		Courses:     append([]string(nil), courses...),
		Status:      models.ApplicationPending,
		Date:        e.now(),
	}
	created, err := e.apps.Create(ctx, app)
	if err != nil {
		// A concurrent submission for the same institution loses on the
		// unique index and is reported as a duplicate.
		if errors.Is(err, ErrDuplicateInstitutionApplication) {
			return models.Application{}, err
		}
		return models.Application{}, remote("create application", err)
	}
	return created, nil
}

func outcome(err error) string {
	if err == nil {
		return "accepted"
	}
	if c := Code(err); c != "" {
		return c
	}
	return "error"
}
