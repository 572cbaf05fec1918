package catalogpolicy_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/policy/catalogpolicy"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOwnerFor(t *testing.T) {
	inst := testutil.InstitutionUser("City College")
	other := primitive.NewObjectID()

	tests := []struct {
		name      string
		user      testutil.TestUser
		requested primitive.ObjectID
		want      primitive.ObjectID
		wantOK    bool
	}{
		{"institution for itself", inst, primitive.NilObjectID, inst.OID(), true},
		{"institution names itself", inst, inst.OID(), inst.OID(), true},
		{"institution names another", inst, other, primitive.NilObjectID, false},
		{"admin names institution", testutil.AdminUser(), other, other, true},
		{"admin without institution", testutil.AdminUser(), primitive.NilObjectID, primitive.NilObjectID, false},
		{"company", testutil.CompanyUser("Acme"), primitive.NilObjectID, primitive.NilObjectID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(httptest.NewRequest("POST", "/courses", nil), tt.user)
			got, ok := catalogpolicy.OwnerFor(req, tt.requested)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("got %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCanManage(t *testing.T) {
	inst := testutil.InstitutionUser("City College")

	if !catalogpolicy.CanManage(testutil.WithUser(httptest.NewRequest("DELETE", "/", nil), inst), inst.OID()) {
		t.Error("institution should manage its own catalog")
	}
	if catalogpolicy.CanManage(testutil.WithUser(httptest.NewRequest("DELETE", "/", nil), inst), primitive.NewObjectID()) {
		t.Error("institution should not manage another catalog")
	}
	if !catalogpolicy.CanManage(testutil.WithUser(httptest.NewRequest("DELETE", "/", nil), testutil.AdminUser()), primitive.NewObjectID()) {
		t.Error("admin should manage any catalog")
	}
	if catalogpolicy.CanManage(httptest.NewRequest("DELETE", "/", nil), inst.OID()) {
		t.Error("visitor should not manage")
	}
}
