// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job application statuses.
const (
	JobApplicationApplied     = "Applied"
	JobApplicationShortlisted = "Shortlisted"
	JobApplicationRejected    = "Rejected"
)

// DefaultJobMinGPA applies when a job has no usable minimum GPA.
const DefaultJobMinGPA = 2.5

// Job is a posting by a company.
// RequiredSkills are stored trimmed and lower-cased with empty entries dropped.
type Job struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID      primitive.ObjectID `bson:"company_id" json:"company_id"`
	CompanyName    string             `bson:"company_name" json:"company_name"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Salary         string             `bson:"salary,omitempty" json:"salary,omitempty"`
	MinGPA         FlexFloat          `bson:"min_gpa" json:"min_gpa"`
	MinExperience  FlexFloat          `bson:"min_experience" json:"min_experience"`
	RequiredSkills []string           `bson:"required_skills,omitempty" json:"required_skills,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// JobApplication links a student to a job.
type JobApplication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID       primitive.ObjectID `bson:"job_id" json:"job_id"`
	CompanyID   primitive.ObjectID `bson:"company_id" json:"company_id"`
	JobTitle    string             `bson:"job_title" json:"job_title"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName string             `bson:"student_name" json:"student_name"`
	Status      string             `bson:"status" json:"status"`
	Date        time.Time          `bson:"date" json:"date"`
}
