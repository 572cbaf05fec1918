// internal/app/system/eligibility/publish.go
package eligibility

import (
	"context"
	"errors"

	"github.com/dalemusser/careerhub/internal/app/system/metrics"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdmissionID is the deterministic admission key for a student at an
// institution. Republishing the same pair overwrites one document.
func AdmissionID(studentID primitive.ObjectID, institution string) string {
	return studentID.Hex() + "-" + institution
}

// PublishFailure records an admitted application whose admission upsert failed.
type PublishFailure struct {
	ApplicationID primitive.ObjectID `json:"application_id"`
	AdmissionID   string             `json:"admission_id"`
	Error         string             `json:"error"`
}

// PublishResult reports the outcome of a publish run. Skipped lists
// admitted applications of students who already confirmed an admission.
type PublishResult struct {
	Published []models.Admission   `json:"published"`
	Failed    []PublishFailure     `json:"failed,omitempty"`
	Skipped   []primitive.ObjectID `json:"skipped,omitempty"`
}

// PublishAdmissions upserts an Admission for every Admitted application in
// apps. Other statuses are skipped, as are students holding a Confirmed
// application. Per-record failures are collected and the run continues;
// running it twice yields the same set of admissions.
func (e *Engine) PublishAdmissions(ctx context.Context, apps []models.Application) PublishResult {
	res := PublishResult{Published: []models.Admission{}}
	now := e.now()
	confirmed := map[primitive.ObjectID]error{}

	for _, app := range apps {
		if app.Status != models.ApplicationAdmitted {
			continue
		}
		err, seen := confirmed[app.StudentID]
		if !seen {
			err = e.checkUnconfirmed(ctx, app.StudentID)
			confirmed[app.StudentID] = err
		}
		if errors.Is(err, errAlreadyConfirmed) {
			res.Skipped = append(res.Skipped, app.ID)
			continue
		}
		if err != nil {
			metrics.AdmissionsPublished.WithLabelValues("failed").Inc()
			res.Failed = append(res.Failed, PublishFailure{
				ApplicationID: app.ID,
				AdmissionID:   AdmissionID(app.StudentID, app.Institution),
				Error:         err.Error(),
			})
			continue
		}
		adm := models.Admission{
			ID:          AdmissionID(app.StudentID, app.Institution),
			StudentID:   app.StudentID,
			Institution: app.Institution,
			Courses:     append([]string(nil), app.Courses...),
			Date:        now,
		}
		if err := e.admissions.Upsert(ctx, adm); err != nil {
			metrics.AdmissionsPublished.WithLabelValues("failed").Inc()
			e.log.Warn("admission publish failed",
				zap.String("application_id", app.ID.Hex()),
				zap.String("admission_id", adm.ID),
				zap.Error(err))
			res.Failed = append(res.Failed, PublishFailure{
				ApplicationID: app.ID,
				AdmissionID:   adm.ID,
				Error:         err.Error(),
			})
			continue
		}
		metrics.AdmissionsPublished.WithLabelValues("ok").Inc()
		res.Published = append(res.Published, adm)
	}

	e.log.Info("admissions published",
		zap.Int("published", len(res.Published)),
		zap.Int("failed", len(res.Failed)),
		zap.Int("skipped", len(res.Skipped)))
	return res
}

var errAlreadyConfirmed = errors.New("student already confirmed an admission")

// checkUnconfirmed reads the student's applications fresh, so a caller
// holding a stale list still cannot reissue admissions after a confirm.
func (e *Engine) checkUnconfirmed(ctx context.Context, studentID primitive.ObjectID) error {
	apps, err := e.apps.ListByStudent(ctx, studentID)
	if err != nil {
		e.log.Warn("failed to load applications for publish",
			zap.String("student_id", studentID.Hex()),
			zap.Error(err))
		return remote("load applications", err)
	}
	for _, a := range apps {
		if a.Status == models.ApplicationConfirmed {
			return errAlreadyConfirmed
		}
	}
	return nil
}
