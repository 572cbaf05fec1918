// internal/app/system/eligibility/guard.go
package eligibility

import (
	"strings"

	"github.com/dalemusser/careerhub/internal/domain/models"
)

// CourseApplicationRequest is a snapshot of everything the submission
// guard needs to decide on a course application.
type CourseApplicationRequest struct {
	Institution string
	Courses     []string
	StudentGPA  models.FlexFloat
	Catalog     []models.Course      // courses offered by Institution
	Existing    []models.Application // the student's current applications
}

// CheckCourseApplication runs the submission checks in order and returns
// the first failure, or nil when the application may be persisted.
func CheckCourseApplication(req CourseApplicationRequest) error {
	if err := checkSelection(req.Institution, req.Courses); err != nil {
		return err
	}
	if err := checkDuplicate(req.Existing, req.Institution); err != nil {
		return err
	}
	if err := checkOffered(req.Catalog, req.Courses); err != nil {
		return err
	}
	return checkGPA(req.Catalog, req.Courses, req.StudentGPA)
}

func checkSelection(institution string, courses []string) error {
	if strings.TrimSpace(institution) == "" || len(courses) == 0 {
		return ErrInvalidSelection
	}
	if len(courses) > models.MaxCoursesPerApplication {
		return ErrTooManyCourses
	}
	return nil
}

// Institution names are compared exactly; a renamed institution is a
// different institution as far as this rule is concerned.
func checkDuplicate(existing []models.Application, institution string) error {
	for _, a := range existing {
		if a.Institution == institution {
			return ErrDuplicateInstitutionApplication
		}
	}
	return nil
}

// Every selected course must be in the institution's catalog. An empty
// catalog means the institution is unknown or offers nothing.
func checkOffered(catalog []models.Course, courses []string) error {
	if len(catalog) == 0 {
		return ErrInvalidSelection
	}
	for _, name := range courses {
		found := false
		for _, c := range catalog {
			if c.Name == name {
				found = true
				break
			}
		}
		if !found {
			return ErrInvalidSelection
		}
	}
	return nil
}

func checkGPA(catalog []models.Course, courses []string, gpa models.FlexFloat) error {
	student := gpa.Or(0)
	for _, name := range courses {
		required := CourseMinGPA(catalog, name)
		if student < required {
			return &BelowMinimumGPAError{Course: name, Required: required}
		}
	}
	return nil
}

// CourseMinGPA resolves a course's minimum GPA by exact name. Courses
// without a usable minimum, or not found, get the default.
func CourseMinGPA(catalog []models.Course, name string) float64 {
	for _, c := range catalog {
		if c.Name == name {
			return c.MinGPA.Or(models.DefaultCourseMinGPA)
		}
	}
	return models.DefaultCourseMinGPA
}

// NormalizeCourseSelection trims names and drops blanks, keeping order.
func NormalizeCourseSelection(courses []string) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
