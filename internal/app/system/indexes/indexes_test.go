package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, coll *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t) // runs EnsureAll once
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := map[string][]string{
		"users":            {"uniq_users_email", "uniq_users_institution_name", "idx_users_role_status_nameci_id"},
		"faculties":        {"idx_faculties_institution_name"},
		"courses":          {"idx_courses_institution_name", "idx_courses_institutionname"},
		"applications":     {"uniq_app_student_institution", "idx_app_institution_status_date", "idx_app_status"},
		"admissions":       {"idx_adm_student", "idx_adm_institution_date"},
		"jobs":             {"idx_jobs_company_created", "idx_jobs_created"},
		"job_applications": {"idx_jobapp_job_date", "idx_jobapp_student_date", "idx_jobapp_company"},
		"audit_events":     {"idx_audit_timestamp", "idx_audit_user_timestamp", "idx_audit_actor_timestamp", "idx_audit_category_type_timestamp"},
	}
	for coll, expected := range want {
		names := indexNames(t, ctx, db.Collection(coll))
		for _, name := range expected {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesIndexWithSameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jobs := db.Collection("jobs")
	if _, err := jobs.Indexes().DropOne(ctx, "idx_jobs_created"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := jobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("legacy_created"),
	}); err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	names := indexNames(t, ctx, jobs)
	if !names["idx_jobs_created"] || names["legacy_created"] {
		t.Errorf("expected legacy index renamed, got %v", names)
	}
}

func TestUniqueStudentInstitution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sid := primitive.NewObjectID()
	apps := db.Collection("applications")
	doc := bson.M{"student_id": sid, "institution": "City College", "status": "Pending"}
	if _, err := apps.InsertOne(ctx, doc); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := apps.InsertOne(ctx, bson.M{"student_id": sid, "institution": "City College", "status": "Pending"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}
	if _, err := apps.InsertOne(ctx, bson.M{"student_id": sid, "institution": "State University"}); err != nil {
		t.Errorf("different institution should insert: %v", err)
	}
}
