package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "session", "a@example.com")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
	logger.Admin(ctx, req, audit.EventCourseCreated, "", nil, nil)
}

func TestLogger_Log_PerCategorySetting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:  "off",
		Admin: "db",
	})
	req := httptest.NewRequest("POST", "/auth/login", nil)

	userID := primitive.NewObjectID()
	logger.LoginSuccess(ctx, req, userID, "session", "a@example.com")
	logger.UserStatusChanged(ctx, req, primitive.NewObjectID().Hex(), userID, "active", "suspended")

	auth, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if auth != 0 {
		t.Errorf("auth events = %d, want 0 when config is 'off'", auth)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 admin event, got %d", len(events))
	}
	e := events[0]
	if e.EventType != audit.EventUserStatusChanged || e.ActorID == nil {
		t.Errorf("unexpected event %+v", e)
	}
	if e.Details["to"] != "suspended" {
		t.Errorf("details = %v", e.Details)
	}
}

func TestLogger_Log_LogOnlySkipsDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "log", Admin: "log"})
	req := httptest.NewRequest("POST", "/auth/login", nil)
	logger.LoginFailedUserNotFound(ctx, req, "ghost@example.com")

	n, err := store.CountByFilter(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 0 {
		t.Errorf("stored %d events, want 0 for 'log'", n)
	}
}

func TestLogger_FailedLoginRecordsClientIP(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "all", Admin: "all"})
	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	userID := primitive.NewObjectID()
	logger.LoginFailedWrongPassword(ctx, req, userID, "a@example.com")

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Success {
		t.Error("expected Success=false")
	}
	if events[0].IP != "203.0.113.7" {
		t.Errorf("IP = %q, want first forwarded address", events[0].IP)
	}
}

func TestLogger_StudentEventsAlwaysRecorded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "off"})
	req := httptest.NewRequest("POST", "/applications", nil)
	sid := primitive.NewObjectID()
	logger.Student(ctx, req, audit.EventApplicationSubmitted, sid.Hex(), map[string]string{"institution": "City College"})

	events, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryApplication})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 || events[0].UserID == nil || *events[0].UserID != sid {
		t.Errorf("unexpected events %+v", events)
	}
}
