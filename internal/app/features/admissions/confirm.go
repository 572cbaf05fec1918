// internal/app/features/admissions/confirm.go
package admissions

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/careerhub/internal/app/policy/admissionpolicy"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
)

// HandleConfirm keeps the chosen admission and withdraws the student from
// every other admission they hold. Deletes that fail are listed in the
// response; the confirmation itself still stands.
// POST /admissions/{id}/confirm
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "confirm admission")
	defer cancel()

	adm, ok := h.loadAdmission(ctx, w, r)
	if !ok {
		return
	}
	if !admissionpolicy.CanConfirm(r, adm) {
		h.ErrLog.LogForbidden(w, r, "admission confirm denied", "Only the admitted student can confirm this admission.")
		return
	}
	actor, _ := authz.ActorFrom(r)

	res, err := h.Engine.ConfirmAdmission(ctx, actor.ID, adm.ID)
	if err != nil {
		h.ErrLog.Handle(w, r, "confirm admission failed", err)
		return
	}

	h.AuditLog.Student(ctx, r, audit.EventAdmissionConfirmed, actor.ID.Hex(), map[string]string{
		"admission_id": adm.ID,
		"institution":  adm.Institution,
		"deleted":      strconv.Itoa(len(res.Deleted)),
		"failed":       strconv.Itoa(len(res.Failed)),
	})
	httpjson.OK(w, res)
}
