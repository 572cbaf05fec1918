package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log_AutoGeneratesIDAndTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	student := primitive.NewObjectID()
	now := time.Now().UTC()

	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &admin, Success: true, Timestamp: now.Add(-3 * time.Hour)},
		{Category: audit.CategoryAdmin, EventType: audit.EventUserStatusChanged, UserID: &student, ActorID: &admin, Success: true, Timestamp: now.Add(-2 * time.Hour)},
		{Category: audit.CategoryAdmin, EventType: audit.EventAdmissionsPublished, ActorID: &admin, Success: true, Timestamp: now.Add(-1 * time.Hour)},
		{Category: audit.CategoryApplication, EventType: audit.EventApplicationSubmitted, UserID: &student, Success: true, Timestamp: now},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"all", audit.QueryFilter{}, 4},
		{"by category", audit.QueryFilter{Category: audit.CategoryAdmin}, 2},
		{"by type", audit.QueryFilter{EventType: audit.EventApplicationSubmitted}, 1},
		{"by user", audit.QueryFilter{UserID: &student}, 2},
		{"by actor", audit.QueryFilter{ActorID: &admin}, 2},
		{"limit", audit.QueryFilter{Limit: 2}, 2},
		{"offset", audit.QueryFilter{Offset: 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}

	start := now.Add(-90 * time.Minute)
	n, err := store.CountByFilter(ctx, audit.QueryFilter{StartTime: &start})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountByFilter since start = %d, want 2", n)
	}

	newest, err := store.Query(ctx, audit.QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if newest[0].EventType != audit.EventApplicationSubmitted {
		t.Errorf("newest = %q, want application_submitted", newest[0].EventType)
	}
}
