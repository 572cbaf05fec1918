package admissions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/features/admissions"
	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func newTestHandler(t *testing.T) (*admissions.Handler, *mongo.Database, *recordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	pub := &recordingPublisher{}
	return admissions.NewHandler(db, pub, uierrors.NewErrorLogger(logger), nil, logger), db, pub
}

func withID(r *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(r, "id", url.PathEscape(id))
}

func TestHandlePublish_ScopedAndIdempotent(t *testing.T) {
	h, db, pub := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	ada := fx.CreateStudent(ctx, "Ada", 3.5, "", 0)
	bob := fx.CreateStudent(ctx, "Bob", 3.5, "", 0)
	fx.CreateApplication(ctx, ada, "City College", models.ApplicationAdmitted, "Biology")
	fx.CreateApplication(ctx, bob, "City College", models.ApplicationPending, "Biology")
	fx.CreateApplication(ctx, bob, "State University", models.ApplicationAdmitted, "Law")

	publish := func(user testutil.TestUser) eligibility.PublishResult {
		rec := httptest.NewRecorder()
		h.HandlePublish(rec, testutil.WithUser(httptest.NewRequest(http.MethodPost, "/admissions/publish", nil), user))
		if rec.Code != http.StatusOK {
			t.Fatalf("publish: got %d (%s)", rec.Code, rec.Body.String())
		}
		var res eligibility.PublishResult
		testutil.DecodeJSON(t, rec, &res)
		return res
	}

	res := publish(testutil.InstitutionUser("City College"))
	if len(res.Published) != 1 || res.Published[0].ID != eligibility.AdmissionID(ada.ID, "City College") {
		t.Errorf("institution publish: %+v", res)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.AdmissionPublished || pub.events[0].RecipientEmail != ada.Email {
		t.Errorf("events: %+v", pub.events)
	}

	publish(testutil.AdminUser())
	publish(testutil.AdminUser())
	n, _ := admissionstore.New(db).Count(ctx)
	if n != 2 {
		t.Errorf("admissions after republish: got %d, want 2", n)
	}
}

func TestHandlePublish_StudentDenied(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.HandlePublish(rec, testutil.WithUser(httptest.NewRequest(http.MethodPost, "/admissions/publish", nil), testutil.StudentUser()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d", rec.Code)
	}
}

func TestHandleConfirm(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	ada := fx.CreateStudent(ctx, "Ada", 3.5, "", 0)
	bob := fx.CreateStudent(ctx, "Bob", 3.5, "", 0)
	keep := fx.CreateAdmission(ctx, ada.ID, "City College", "Biology")
	fx.CreateAdmission(ctx, ada.ID, "State University", "Law")
	fx.CreateAdmission(ctx, ada.ID, "Tech Institute", "CS")
	bobs := fx.CreateAdmission(ctx, bob.ID, "State University", "Law")

	confirm := func(user testutil.TestUser, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admissions/x/confirm", nil)
		rec := httptest.NewRecorder()
		h.HandleConfirm(rec, withID(testutil.WithUser(req, user), id))
		return rec
	}

	if rec := confirm(testutil.AsTestUser(bob), keep.ID); rec.Code != http.StatusForbidden {
		t.Errorf("other student: got %d", rec.Code)
	}
	if rec := confirm(testutil.AsTestUser(ada), "missing-id"); rec.Code != http.StatusNotFound {
		t.Errorf("missing admission: got %d", rec.Code)
	}

	rec := confirm(testutil.AsTestUser(ada), keep.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: got %d (%s)", rec.Code, rec.Body.String())
	}
	var res eligibility.ConfirmResult
	testutil.DecodeJSON(t, rec, &res)
	if res.Kept != keep.ID || len(res.Deleted) != 2 || len(res.Failed) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}

	store := admissionstore.New(db)
	held, _ := store.ListByStudent(ctx, ada.ID)
	if len(held) != 1 || held[0].ID != keep.ID {
		t.Errorf("ada holds %+v", held)
	}
	if _, err := store.GetByID(ctx, bobs.ID); err != nil {
		t.Errorf("other student's admission must survive: %v", err)
	}

	// Confirming again is a no-op.
	rec = confirm(testutil.AsTestUser(ada), keep.ID)
	testutil.DecodeJSON(t, rec, &res)
	if rec.Code != http.StatusOK || len(res.Deleted) != 0 {
		t.Errorf("repeat confirm: %d %+v", rec.Code, res)
	}
}

func TestServeList_Scoped(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	ada := fx.CreateStudent(ctx, "Ada", 3.5, "", 0)
	bob := fx.CreateStudent(ctx, "Bob", 3.5, "", 0)
	fx.CreateAdmission(ctx, ada.ID, "City College", "Biology")
	fx.CreateAdmission(ctx, bob.ID, "City College", "Biology")
	fx.CreateAdmission(ctx, bob.ID, "State University", "Law")

	count := func(user testutil.TestUser) int {
		rec := httptest.NewRecorder()
		h.ServeList(rec, testutil.WithUser(httptest.NewRequest(http.MethodGet, "/admissions", nil), user))
		var out []models.Admission
		testutil.DecodeJSON(t, rec, &out)
		return len(out)
	}
	if n := count(testutil.AsTestUser(ada)); n != 1 {
		t.Errorf("student: %d", n)
	}
	if n := count(testutil.InstitutionUser("City College")); n != 2 {
		t.Errorf("institution: %d", n)
	}
	if n := count(testutil.AdminUser()); n != 3 {
		t.Errorf("admin: %d", n)
	}
}

func TestHandleDelete(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	ada := fx.CreateStudent(ctx, "Ada", 3.5, "", 0)
	adm := fx.CreateAdmission(ctx, ada.ID, "City College", "Biology")

	del := func(user testutil.TestUser) int {
		rec := httptest.NewRecorder()
		h.HandleDelete(rec, withID(testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/admissions/x", nil), user), adm.ID))
		return rec.Code
	}
	if code := del(testutil.InstitutionUser("State University")); code != http.StatusForbidden {
		t.Errorf("other institution: got %d", code)
	}
	if code := del(testutil.InstitutionUser("City College")); code != http.StatusNoContent {
		t.Errorf("owner: got %d", code)
	}
	if code := del(testutil.AdminUser()); code != http.StatusNotFound {
		t.Errorf("already deleted: got %d", code)
	}
}
