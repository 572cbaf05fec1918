// Package catalogpolicy provides authorization policies for faculties and courses.
//
// Authorization rules:
//   - Institutions manage their own catalog
//   - Admins manage any institution's catalog and must name the institution
//   - Everyone signed in may browse
package catalogpolicy

import (
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerFor resolves which institution a new catalog entry belongs to.
// Institutions always create for themselves and may not name another
// institution; admins must name one. ok=false means the request is not allowed.
func OwnerFor(r *http.Request, requested primitive.ObjectID) (primitive.ObjectID, bool) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	switch {
	case actor.IsInstitution():
		if !requested.IsZero() && requested != actor.ID {
			return primitive.NilObjectID, false
		}
		return actor.ID, true
	case actor.IsAdmin():
		if requested.IsZero() {
			return primitive.NilObjectID, false
		}
		return requested, true
	default:
		return primitive.NilObjectID, false
	}
}

// CanManage reports whether the current user may change an entry owned by institutionID.
func CanManage(r *http.Request, institutionID primitive.ObjectID) bool {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.IsInstitution() && actor.ID == institutionID
}
