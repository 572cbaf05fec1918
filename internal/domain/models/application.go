// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course application statuses.
const (
	ApplicationPending  = "Pending"
	ApplicationAdmitted = "Admitted"
	ApplicationRejected = "Rejected"

	// Set when the student confirms an admission: the confirmed
	// institution's application becomes Confirmed and every other open
	// application is Withdrawn.
	ApplicationConfirmed = "Confirmed"
	ApplicationWithdrawn = "Withdrawn"
)

// MaxCoursesPerApplication caps the courses a student may pick per institution.
const MaxCoursesPerApplication = 2

// Application is a student's course application to one institution.
// Institution holds the institution's name, not its ID; at most one
// application exists per (StudentID, Institution).
type Application struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName string             `bson:"student_name" json:"student_name"`
	Institution string             `bson:"institution" json:"institution"`
	Courses     []string           `bson:"courses" json:"courses"`
	Status      string             `bson:"status" json:"status"`
	Date        time.Time          `bson:"date" json:"date"`
}

// Admission is a published offer derived from an admitted Application.
// Its ID is deterministic (see eligibility.AdmissionID) so republishing
// overwrites instead of duplicating.
type Admission struct {
	ID          string             `bson:"_id" json:"id"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	Institution string             `bson:"institution" json:"institution"`
	Courses     []string           `bson:"courses" json:"courses"`
	Date        time.Time          `bson:"date" json:"date"`
}
