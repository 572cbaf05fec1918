// internal/app/features/institutions/list.go
package institutions

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
)

// ServeList returns every institution ordered by name.
// GET /institutions
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := userstore.New(h.DB).List(ctx, userstore.ListFilter{Role: models.RoleInstitution})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list institutions failed", err, "A database error occurred.")
		return
	}
	out := make([]institutionView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	httpjson.OK(w, out)
}
