// internal/app/features/admissions/delete.go
package admissions

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/admissionpolicy"
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
)

// HandleDelete withdraws an admission on the institution's side.
// DELETE /admissions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	adm, ok := h.loadAdmission(ctx, w, r)
	if !ok {
		return
	}
	if !admissionpolicy.CanDelete(r, adm) {
		h.ErrLog.LogForbidden(w, r, "admission delete denied", "Only the admitting institution can delete this admission.")
		return
	}
	if err := admissionstore.New(h.DB).Delete(ctx, adm.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete admission failed", err, "A database error occurred.")
		return
	}

	actor, _ := authz.ActorFrom(r)
	h.AuditLog.Admin(ctx, r, audit.EventAdmissionDeleted, actor.ID.Hex(), &adm.StudentID, map[string]string{
		"admission_id": adm.ID,
		"institution":  adm.Institution,
	})
	httpjson.NoContent(w)
}
