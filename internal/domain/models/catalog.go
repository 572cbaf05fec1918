// internal/domain/models/catalog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCourseMinGPA applies when a course has no usable minimum GPA.
const DefaultCourseMinGPA = 2.5

// Faculty is a department inside an institution.
// InstitutionName follows the institution through renames.
type Faculty struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	InstitutionID   primitive.ObjectID `bson:"institution_id" json:"institution_id"`
	InstitutionName string             `bson:"institution_name" json:"institution_name"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// Course is an offering students can select on a course application.
// Applications reference courses by Name, so names are matched exactly.
// FacultyName is a snapshot taken at creation.
type Course struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	InstitutionID   primitive.ObjectID  `bson:"institution_id" json:"institution_id"`
	InstitutionName string              `bson:"institution_name" json:"institution_name"`
	FacultyID       *primitive.ObjectID `bson:"faculty_id,omitempty" json:"faculty_id,omitempty"`
	FacultyName     string              `bson:"faculty_name,omitempty" json:"faculty_name,omitempty"`
	MinGPA          FlexFloat           `bson:"min_gpa" json:"min_gpa"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}
