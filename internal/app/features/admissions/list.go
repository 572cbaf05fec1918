// internal/app/features/admissions/list.go
package admissions

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/policy/admissionpolicy"
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
)

// ServeList returns the admissions the caller may see.
// GET /admissions
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	scope := admissionpolicy.CanListAdmissions(r)
	if !scope.CanList {
		h.ErrLog.LogForbidden(w, r, "admission list denied", "You don't have access to admissions.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := admissionstore.New(h.DB)
	var (
		out []models.Admission
		err error
	)
	if !scope.StudentID.IsZero() {
		out, err = store.ListByStudent(ctx, scope.StudentID)
	} else {
		out, err = store.List(ctx, scope.Institution)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list admissions failed", err, "A database error occurred.")
		return
	}
	httpjson.OK(w, out)
}
