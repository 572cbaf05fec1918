// Package applicationpolicy provides authorization policies for course applications.
//
// Authorization rules:
//   - Students submit applications and see only their own
//   - Institutions see and review applications addressed to their name
//   - Admins see and review every application
//   - Companies have no access
package applicationpolicy

import (
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope represents the applications a user can list.
type ListScope struct {
	// CanList indicates whether the user can list applications at all.
	CanList bool
	// All indicates no restriction (admins).
	All bool
	// StudentID restricts the listing to one student's applications.
	StudentID primitive.ObjectID
	// Institution restricts the listing to applications to one institution name.
	Institution string
}

// CanListApplications determines what scope of applications the current user can list.
func CanListApplications(r *http.Request) ListScope {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return ListScope{}
	}
	switch {
	case actor.IsAdmin():
		return ListScope{CanList: true, All: true}
	case actor.IsStudent():
		return ListScope{CanList: true, StudentID: actor.ID}
	case actor.IsInstitution():
		if actor.Name == "" {
			return ListScope{}
		}
		return ListScope{CanList: true, Institution: actor.Name}
	default:
		return ListScope{}
	}
}

// CanSubmit reports whether the current user may submit a course application.
func CanSubmit(r *http.Request) bool {
	return authz.IsStudent(r)
}

// CanReview reports whether the current user may change the application's status:
// admins always, institutions only for applications naming them.
func CanReview(r *http.Request, app models.Application) bool {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.IsInstitution() && actor.Name != "" && actor.Name == app.Institution
}

// CanView reports whether the current user may see a single application.
func CanView(r *http.Request, app models.Application) bool {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		return false
	}
	if actor.IsStudent() {
		return app.StudentID == actor.ID
	}
	return CanReview(r, app)
}
