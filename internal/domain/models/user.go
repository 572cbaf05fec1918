// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles. A user's role is fixed at creation.
const (
	RoleStudent     = "student"
	RoleInstitution = "institution"
	RoleCompany     = "company"
	RoleAdmin       = "admin"
)

// Account statuses.
const (
	StatusActive    = "active"
	StatusApproved  = "approved"
	StatusSuspended = "suspended"
)

// SignupRoles are the roles a visitor may pick when registering.
var SignupRoles = []string{RoleStudent, RoleInstitution, RoleCompany}

// User represents students, institutions, companies, and admins.
//
// Institutions and companies are users too; applications refer to an
// institution by its Name, and jobs carry the company's ID and name.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role          string             `bson:"role" json:"role"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name" json:"name"`
	NameCI        string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Status        string             `bson:"status" json:"status"`
	EmailVerified bool               `bson:"email_verified" json:"email_verified"`
	PasswordHash  string             `bson:"password_hash,omitempty" json:"-"`

	// Student profile
	GPA             FlexFloat `bson:"gpa" json:"gpa"`
	Skills          string    `bson:"skills,omitempty" json:"skills,omitempty"`
	ExperienceYears FlexFloat `bson:"experience_years" json:"experience_years"`
	TranscriptURL   string    `bson:"transcript_url,omitempty" json:"transcript_url,omitempty"`
	CertificatesURL string    `bson:"certificates_url,omitempty" json:"certificates_url,omitempty"`
	Certificates    []string  `bson:"certificates,omitempty" json:"certificates,omitempty"`

	// Institution / company profile
	About    string `bson:"about,omitempty" json:"about,omitempty"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName is the name shown on applications, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r string) bool {
	switch r {
	case RoleStudent, RoleInstitution, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// IsValidStatus reports whether s is one of the known account statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusApproved, StatusSuspended:
		return true
	}
	return false
}
