package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser creates an active user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Role:      role,
		Email:     strings.ToLower(email),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateStudent creates a student with a GPA, skills and experience.
func (f *Fixtures) CreateStudent(ctx context.Context, name string, gpa float64, skills string, experience float64) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u := models.User{
		ID:              primitive.NewObjectID(),
		Role:            models.RoleStudent,
		Email:           strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@student.test",
		Name:            name,
		NameCI:          text.Fold(name),
		Status:          models.StatusActive,
		GPA:             models.NewFlexFloat(gpa),
		Skills:          skills,
		ExperienceYears: models.NewFlexFloat(experience),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateCourse creates a course owned by institution.
func (f *Fixtures) CreateCourse(ctx context.Context, institution models.User, name string, minGPA float64) models.Course {
	f.t.Helper()
	c := models.Course{
		ID:              primitive.NewObjectID(),
		Name:            name,
		InstitutionID:   institution.ID,
		InstitutionName: institution.Name,
		MinGPA:          models.NewFlexFloat(minGPA),
		CreatedAt:       time.Now().UTC(),
	}
	f.insert(ctx, "courses", c)
	return c
}

// CreateFaculty creates a faculty owned by institution.
func (f *Fixtures) CreateFaculty(ctx context.Context, institution models.User, name string) models.Faculty {
	f.t.Helper()
	fac := models.Faculty{
		ID:              primitive.NewObjectID(),
		Name:            name,
		InstitutionID:   institution.ID,
		InstitutionName: institution.Name,
		CreatedAt:       time.Now().UTC(),
	}
	f.insert(ctx, "faculties", fac)
	return fac
}

// CreateApplication creates a course application in the given status.
func (f *Fixtures) CreateApplication(ctx context.Context, student models.User, institution, status string, courses ...string) models.Application {
	f.t.Helper()
	a := models.Application{
		ID:          primitive.NewObjectID(),
		StudentID:   student.ID,
		StudentName: student.DisplayName(),
		Institution: institution,
		Courses:     courses,
		Status:      status,
		Date:        time.Now().UTC(),
	}
	f.insert(ctx, "applications", a)
	return a
}

// CreateAdmission creates an admission with the deterministic ID format.
func (f *Fixtures) CreateAdmission(ctx context.Context, studentID primitive.ObjectID, institution string, courses ...string) models.Admission {
	f.t.Helper()
	a := models.Admission{
		ID:          studentID.Hex() + "-" + institution,
		StudentID:   studentID,
		Institution: institution,
		Courses:     courses,
		Date:        time.Now().UTC(),
	}
	f.insert(ctx, "admissions", a)
	return a
}

// CreateJob creates a job posted by company.
func (f *Fixtures) CreateJob(ctx context.Context, company models.User, title string, minGPA, minExp float64, skills ...string) models.Job {
	f.t.Helper()
	j := models.Job{
		ID:             primitive.NewObjectID(),
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		Title:          title,
		MinGPA:         models.NewFlexFloat(minGPA),
		MinExperience:  models.NewFlexFloat(minExp),
		RequiredSkills: skills,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "jobs", j)
	return j
}

// CreateJobApplication creates a job application in the given status.
func (f *Fixtures) CreateJobApplication(ctx context.Context, job models.Job, student models.User, status string) models.JobApplication {
	f.t.Helper()
	ja := models.JobApplication{
		ID:          primitive.NewObjectID(),
		JobID:       job.ID,
		CompanyID:   job.CompanyID,
		JobTitle:    job.Title,
		StudentID:   student.ID,
		StudentName: student.DisplayName(),
		Status:      status,
		Date:        time.Now().UTC(),
	}
	f.insert(ctx, "job_applications", ja)
	return ja
}
