// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false, so ok=true always means a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// Actor is the resolved principal that policy functions reason about.
type Actor struct {
	ID   primitive.ObjectID
	Role string
	Name string
}

// ActorFrom returns the current actor, or ok=false when signed out.
func ActorFrom(r *http.Request) (Actor, bool) {
	role, name, id, ok := UserCtx(r)
	if !ok {
		return Actor{}, false
	}
	return Actor{ID: id, Role: role, Name: name}, true
}

func (a Actor) IsAdmin() bool       { return a.Role == models.RoleAdmin }
func (a Actor) IsStudent() bool     { return a.Role == models.RoleStudent }
func (a Actor) IsInstitution() bool { return a.Role == models.RoleInstitution }
func (a Actor) IsCompany() bool     { return a.Role == models.RoleCompany }

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleStudent
}

// IsInstitution reports whether the current request's user is an institution.
func IsInstitution(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleInstitution
}

// IsCompany reports whether the current request's user is a company.
func IsCompany(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleCompany
}

// HasAnyRole reports whether the signed-in user holds one of roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, ok := Role(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Role returns the current user's lowercased role and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}
