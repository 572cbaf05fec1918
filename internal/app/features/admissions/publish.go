// internal/app/features/admissions/publish.go
package admissions

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/careerhub/internal/app/policy/admissionpolicy"
	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/notify"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandlePublish turns every Admitted application in the caller's scope
// into an admission. Institutions publish their own; admins publish all.
// Republishing overwrites the same admissions. Every student in the run
// is notified.
// POST /admissions/publish
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	scope := admissionpolicy.CanPublish(r)
	if !scope.CanPublish {
		h.ErrLog.LogForbidden(w, r, "admission publish denied", "Only institutions and admins can publish admissions.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "publish admissions")
	defer cancel()

	admitted, err := applicationstore.New(h.DB).List(ctx, applicationstore.Filter{
		Institution: scope.Institution,
		Status:      models.ApplicationAdmitted,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list admitted applications failed", err, "A database error occurred.")
		return
	}

	res := h.Engine.PublishAdmissions(ctx, admitted)
	h.notifyPublished(ctx, res.Published)

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventAdmissionsPublished, actor.ID.Hex(), nil, map[string]string{
		"institution": scope.Institution,
		"published":   strconv.Itoa(len(res.Published)),
		"failed":      strconv.Itoa(len(res.Failed)),
	})
	httpjson.OK(w, res)
}

func (h *Handler) notifyPublished(ctx context.Context, published []models.Admission) {
	if len(published) == 0 {
		return
	}
	ids := make([]primitive.ObjectID, 0, len(published))
	for _, a := range published {
		ids = append(ids, a.StudentID)
	}
	students, err := userstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("load students for admission notices failed", zap.Error(err))
		return
	}
	for _, a := range published {
		s, ok := students[a.StudentID]
		if !ok {
			continue
		}
		events.Emit(ctx, h.Events, h.Log, events.New(events.AdmissionPublished, s.Email, s.DisplayName(), map[string]string{
			"admission_id": a.ID,
			"institution":  a.Institution,
			"courses":      notify.JoinList(a.Courses),
		}))
	}
}
