package jobapplicationstore_test

import (
	"testing"
	"time"

	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobapplicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acme := fixtures.CreateUser(ctx, "Acme", "hr@acme.test", models.RoleCompany)
	job := fixtures.CreateJob(ctx, acme, "Intern", 2.5, 0)
	other := fixtures.CreateJob(ctx, acme, "Engineer", 3.0, 0)
	ada := fixtures.CreateStudent(ctx, "Ada", 3.5, "go", 1)

	// No cap: the same student may apply to the same job again.
	for i := 0; i < 2; i++ {
		ja, err := store.Create(ctx, models.JobApplication{
			JobID:       job.ID,
			CompanyID:   acme.ID,
			JobTitle:    job.Title,
			StudentID:   ada.ID,
			StudentName: ada.Name,
			Status:      models.JobApplicationApplied,
			Date:        time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i+1, err)
		}
		if ja.ID.IsZero() {
			t.Error("expected ID to be assigned")
		}
	}
	fixtures.CreateJobApplication(ctx, other, ada, models.JobApplicationApplied)

	byJob, err := store.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ListByJob failed: %v", err)
	}
	if len(byJob) != 2 {
		t.Errorf("len(byJob) = %d, want 2", len(byJob))
	}
	byStudent, err := store.ListByStudent(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ListByStudent failed: %v", err)
	}
	if len(byStudent) != 3 {
		t.Errorf("len(byStudent) = %d, want 3", len(byStudent))
	}

	n, err := store.DeleteByJob(ctx, job.ID)
	if err != nil || n != 2 {
		t.Errorf("DeleteByJob = %d, %v; want 2, nil", n, err)
	}
}

func TestStore_UpdateStatus_CompareAndSwap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobapplicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acme := fixtures.CreateUser(ctx, "Acme", "hr@acme.test", models.RoleCompany)
	job := fixtures.CreateJob(ctx, acme, "Intern", 2.5, 0)
	ada := fixtures.CreateStudent(ctx, "Ada", 3.5, "go", 1)
	ja := fixtures.CreateJobApplication(ctx, job, ada, models.JobApplicationApplied)

	ok, err := store.UpdateStatus(ctx, ja.ID, models.JobApplicationApplied, models.JobApplicationShortlisted)
	if err != nil || !ok {
		t.Fatalf("UpdateStatus = %v, %v; want true, nil", ok, err)
	}
	ok, err = store.UpdateStatus(ctx, ja.ID, models.JobApplicationApplied, models.JobApplicationRejected)
	if err != nil || ok {
		t.Errorf("stale UpdateStatus = %v, %v; want false, nil", ok, err)
	}

	got, err := store.GetByID(ctx, ja.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.JobApplicationShortlisted {
		t.Errorf("Status = %q, want Shortlisted", got.Status)
	}
}
