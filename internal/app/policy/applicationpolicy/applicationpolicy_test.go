package applicationpolicy_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/policy/applicationpolicy"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
)

func TestCanListApplications(t *testing.T) {
	student := testutil.StudentUser()
	tests := []struct {
		name string
		user *testutil.TestUser
		want applicationpolicy.ListScope
	}{
		{"visitor", nil, applicationpolicy.ListScope{}},
		{"admin", ptr(testutil.AdminUser()), applicationpolicy.ListScope{CanList: true, All: true}},
		{"student", &student, applicationpolicy.ListScope{CanList: true, StudentID: student.OID()}},
		{"institution", ptr(testutil.InstitutionUser("City College")), applicationpolicy.ListScope{CanList: true, Institution: "City College"}},
		{"company", ptr(testutil.CompanyUser("Acme")), applicationpolicy.ListScope{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/applications", nil)
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			if got := applicationpolicy.CanListApplications(req); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCanReview(t *testing.T) {
	app := models.Application{Institution: "City College"}
	tests := []struct {
		name string
		user testutil.TestUser
		want bool
	}{
		{"admin", testutil.AdminUser(), true},
		{"owning institution", testutil.InstitutionUser("City College"), true},
		{"other institution", testutil.InstitutionUser("State U"), false},
		{"student", testutil.StudentUser(), false},
		{"company", testutil.CompanyUser("City College"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(httptest.NewRequest("POST", "/", nil), tt.user)
			if got := applicationpolicy.CanReview(req, app); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanView_StudentOwnOnly(t *testing.T) {
	student := testutil.StudentUser()
	req := testutil.WithUser(httptest.NewRequest("GET", "/", nil), student)

	if !applicationpolicy.CanView(req, models.Application{StudentID: student.OID()}) {
		t.Error("student should view own application")
	}
	if applicationpolicy.CanView(req, models.Application{StudentID: testutil.StudentUser().OID()}) {
		t.Error("student should not view another student's application")
	}
	if !applicationpolicy.CanSubmit(req) {
		t.Error("student should be able to submit")
	}
}

func ptr(u testutil.TestUser) *testutil.TestUser { return &u }
