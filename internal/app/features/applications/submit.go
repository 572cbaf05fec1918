// internal/app/features/applications/submit.go
package applications

import (
	"net/http"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/policy/applicationpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/notify"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
)

type submitInput struct {
	Institution string   `json:"institution"`
	Courses     []string `json:"courses"`
}

// HandleSubmit runs the submission guard for the signed-in student and
// stores a Pending application. The student's GPA is read fresh from the
// database, never from the request.
// POST /applications
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if !applicationpolicy.CanSubmit(r) {
		h.ErrLog.LogForbidden(w, r, "non-student application submit", "Only students can apply to institutions.")
		return
	}
	actor, _ := authz.ActorFrom(r)

	var in submitInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode application failed", err, "Invalid JSON body.")
		return
	}
	institution := strings.TrimSpace(in.Institution)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "submit application")
	defer cancel()

	student, err := userstore.New(h.DB).GetByID(ctx, actor.ID)
	if err != nil {
		h.ErrLog.Handle(w, r, "load student failed", err)
		return
	}

	app, err := h.Engine.SubmitCourseApplication(ctx, *student, institution, eligibility.NormalizeCourseSelection(in.Courses))
	if err != nil {
		h.ErrLog.Handle(w, r, "submit application failed", err)
		return
	}

	h.AuditLog.Student(ctx, r, audit.EventApplicationSubmitted, actor.ID.Hex(), map[string]string{
		"application_id": app.ID.Hex(),
		"institution":    app.Institution,
		"courses":        notify.JoinList(app.Courses),
	})
	httpjson.Created(w, app)
}
