package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*auditlog.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return auditlog.NewHandler(db, uierrors.NewErrorLogger(logger), logger), db
}

type listResponse struct {
	Items []struct {
		EventType  string `json:"event_type"`
		ActorName  string `json:"actor_name"`
		TargetName string `json:"target_name"`
	} `json:"items"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func TestServeList(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Root", "root@x.com", models.RoleAdmin)
	student := fx.CreateStudent(ctx, "Ada", 3.5, "", 0)

	st := audit.New(db)
	now := time.Now().UTC()
	for _, e := range []audit.Event{
		{Timestamp: now.Add(-2 * time.Minute), Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &student.ID, Success: true},
		{Timestamp: now.Add(-time.Minute), Category: audit.CategoryAdmin, EventType: audit.EventUserStatusChanged, UserID: &student.ID, ActorID: &admin.ID, Success: true},
	} {
		if err := st.Log(ctx, e); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeList(rec, testutil.WithUser(httptest.NewRequest(http.MethodGet, "/audit-events", nil), testutil.AsTestUser(admin)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var got listResponse
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 2 || len(got.Items) != 2 || got.TotalPages != 1 {
		t.Fatalf("got %+v", got)
	}
	first := got.Items[0]
	if first.EventType != audit.EventUserStatusChanged || first.ActorName != "Root" || first.TargetName != "Ada" {
		t.Errorf("newest first with names: got %+v", first)
	}

	t.Run("category filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeList(rec, testutil.WithUser(httptest.NewRequest(http.MethodGet, "/audit-events?category=auth", nil), testutil.AsTestUser(admin)))
		var got listResponse
		testutil.DecodeJSON(t, rec, &got)
		if got.Total != 1 || got.Items[0].EventType != audit.EventLoginSuccess {
			t.Errorf("got %+v", got)
		}
	})
}

func TestRoutes_AdminOnly(t *testing.T) {
	h, _ := newTestHandler(t)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	router := auditlog.Routes(h, sm)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(httptest.NewRequest(http.MethodGet, "/", nil), testutil.StudentUser()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("student: got %d, want 403", rec.Code)
	}
}
