// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// item is an audit event with actor and target names resolved.
type item struct {
	audit.Event
	ActorName  string `json:"actor_name,omitempty"`
	TargetName string `json:"target_name,omitempty"`
}

type page struct {
	Items      []item `json:"items"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Total      int64  `json:"total"`
}

// ServeList returns audit events, newest first.
// Filters: category, event_type, start_date and end_date (YYYY-MM-DD), page.
// GET /audit-events
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	q := r.URL.Query()
	pg := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		pg = p
	}
	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     pageSize,
		Offset:    int64((pg - 1) * pageSize),
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("start_date"))); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("end_date"))); err == nil {
		end := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &end
	}

	st := audit.New(h.DB)
	events, err := st.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.")
		return
	}
	total, err := st.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.")
		return
	}

	names := h.resolveNames(ctx, events)
	items := make([]item, 0, len(events))
	for _, e := range events {
		it := item{Event: e}
		if e.ActorID != nil {
			it.ActorName = names[*e.ActorID]
		}
		if e.UserID != nil {
			it.TargetName = names[*e.UserID]
		}
		items = append(items, it)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	httpjson.OK(w, page{Items: items, Page: pg, TotalPages: totalPages, Total: total})
}

// resolveNames batch-loads display names for every user an event mentions.
// Deleted users are left unnamed.
func (h *Handler) resolveNames(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	out := make(map[primitive.ObjectID]string, len(seen))
	if len(seen) == 0 {
		return out
	}
	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	users, err := userstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return out
	}
	for id, u := range users {
		out[id] = u.DisplayName()
	}
	return out
}
