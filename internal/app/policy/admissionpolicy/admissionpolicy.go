// Package admissionpolicy provides authorization policies for admissions.
//
// Authorization rules:
//   - Students see their own admissions and confirm one of them
//   - Institutions see, publish, and delete admissions for their own name
//   - Admins see, publish, and delete every admission
package admissionpolicy

import (
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope represents the admissions a user can list.
type ListScope struct {
	CanList     bool
	All         bool
	StudentID   primitive.ObjectID
	Institution string
}

// CanListAdmissions determines what scope of admissions the current user can list.
func CanListAdmissions(r *http.Request) ListScope {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return ListScope{}
	}
	switch {
	case actor.IsAdmin():
		return ListScope{CanList: true, All: true}
	case actor.IsStudent():
		return ListScope{CanList: true, StudentID: actor.ID}
	case actor.IsInstitution() && actor.Name != "":
		return ListScope{CanList: true, Institution: actor.Name}
	default:
		return ListScope{}
	}
}

// PublishScope says which admitted applications a publish run covers.
type PublishScope struct {
	CanPublish bool
	// Institution limits the run to one institution; "" means every institution.
	Institution string
}

// CanPublish determines whether and for whom the current user may publish.
func CanPublish(r *http.Request) PublishScope {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return PublishScope{}
	}
	switch {
	case actor.IsAdmin():
		return PublishScope{CanPublish: true}
	case actor.IsInstitution() && actor.Name != "":
		return PublishScope{CanPublish: true, Institution: actor.Name}
	default:
		return PublishScope{}
	}
}

// CanConfirm reports whether the current user is the student holding adm.
func CanConfirm(r *http.Request, adm models.Admission) bool {
	actor, ok := authz.ActorFrom(r)
	return ok && actor.IsStudent() && adm.StudentID == actor.ID
}

// CanDelete reports whether the current user may delete adm as staff.
func CanDelete(r *http.Request, adm models.Admission) bool {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.IsInstitution() && actor.Name != "" && actor.Name == adm.Institution
}
