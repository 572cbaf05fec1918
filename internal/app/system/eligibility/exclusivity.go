// internal/app/system/eligibility/exclusivity.go
package eligibility

import (
	"context"

	"github.com/dalemusser/careerhub/internal/app/system/metrics"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DeleteFailure records an admission that could not be removed.
type DeleteFailure struct {
	AdmissionID string `json:"admission_id"`
	Error       string `json:"error"`
}

// ConfirmResult reports what confirming an admission did.
// Failed deletes and unsettled applications are warnings: the
// confirmation itself still succeeded.
type ConfirmResult struct {
	Kept      string          `json:"kept"`
	Deleted   []string        `json:"deleted"`
	Failed    []DeleteFailure `json:"failed,omitempty"`
	Withdrawn []string        `json:"withdrawn_applications"`
	Unsettled []string        `json:"unsettled_applications,omitempty"`
}

// ConfirmAdmission keeps the chosen admission and deletes every other
// admission the student holds. Deletes run one at a time and a failed
// delete does not stop the rest. The chosen admission is never rewritten.
//
// The student's applications are then settled so a later publish run
// cannot hand out a second admission: the chosen institution's Admitted
// application becomes Confirmed and every other Pending or Admitted one
// becomes Withdrawn.
func (e *Engine) ConfirmAdmission(ctx context.Context, studentID primitive.ObjectID, chosenID string) (ConfirmResult, error) {
	res := ConfirmResult{Kept: chosenID, Deleted: []string{}, Withdrawn: []string{}}

	held, err := e.admissions.ListByStudent(ctx, studentID)
	if err != nil {
		return res, remote("load admissions", err)
	}

	var chosen *models.Admission
	for i := range held {
		if held[i].ID == chosenID {
			chosen = &held[i]
			break
		}
	}
	if chosen == nil {
		return res, ErrAdmissionNotFound
	}

	for _, a := range held {
		if a.ID == chosenID {
			continue
		}
		if err := e.admissions.Delete(ctx, a.ID); err != nil {
			metrics.AdmissionsPruned.WithLabelValues("failed").Inc()
			e.log.Warn("failed to remove competing admission",
				zap.String("student_id", studentID.Hex()),
				zap.String("kept", chosenID),
				zap.String("admission_id", a.ID),
				zap.Error(err))
			res.Failed = append(res.Failed, DeleteFailure{AdmissionID: a.ID, Error: err.Error()})
			continue
		}
		metrics.AdmissionsPruned.WithLabelValues("deleted").Inc()
		res.Deleted = append(res.Deleted, a.ID)
	}

	e.settleApplications(ctx, studentID, chosen.Institution, &res)
	return res, nil
}

func (e *Engine) settleApplications(ctx context.Context, studentID primitive.ObjectID, institution string, res *ConfirmResult) {
	apps, err := e.apps.ListByStudent(ctx, studentID)
	if err != nil {
		e.log.Warn("failed to load applications to settle",
			zap.String("student_id", studentID.Hex()),
			zap.Error(err))
		return
	}

	for _, app := range apps {
		to := models.ApplicationWithdrawn
		switch {
		case app.Institution == institution && app.Status == models.ApplicationAdmitted:
			to = models.ApplicationConfirmed
		case app.Status != models.ApplicationPending && app.Status != models.ApplicationAdmitted:
			continue
		}

		ok, err := e.apps.UpdateStatus(ctx, app.ID, app.Status, to)
		if err != nil || !ok {
			// A reviewer may have decided it in the meantime.
			e.log.Warn("failed to settle application",
				zap.String("application_id", app.ID.Hex()),
				zap.String("to", to),
				zap.Bool("stale", err == nil),
				zap.Error(err))
			res.Unsettled = append(res.Unsettled, app.ID.Hex())
			continue
		}
		metrics.StatusTransitions.WithLabelValues("application", to).Inc()
		if to == models.ApplicationWithdrawn {
			res.Withdrawn = append(res.Withdrawn, app.ID.Hex())
		}
	}
}
