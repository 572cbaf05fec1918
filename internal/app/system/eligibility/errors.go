// internal/app/system/eligibility/errors.go
package eligibility

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidSelection: no institution or no courses were selected.
	ErrInvalidSelection = errors.New("select an institution and at least one course")
	// ErrTooManyCourses: more than MaxCoursesPerApplication courses were selected.
	ErrTooManyCourses = errors.New("you can select at most 2 courses per institution")
	// ErrDuplicateInstitutionApplication: the student already applied to this institution.
	ErrDuplicateInstitutionApplication = errors.New("you have already applied to this institution")
	// ErrBelowMinimumGPA is matched by every *BelowMinimumGPAError.
	ErrBelowMinimumGPA = errors.New("gpa below course minimum")
	// ErrNotQualified: the student fails the job's apply gate.
	ErrNotQualified = errors.New("you do not meet the requirements for this job")
	// ErrInvalidTransition: the requested status change is not allowed from the current status.
	ErrInvalidTransition = errors.New("status change not allowed")
	// ErrAdmissionNotFound: the chosen admission does not belong to the student.
	ErrAdmissionNotFound = errors.New("admission not found")
	// ErrNotFound: the referenced record does not exist or is not visible to the actor.
	ErrNotFound = errors.New("not found")
)

// BelowMinimumGPAError names the first selected course whose minimum the
// student's GPA does not meet.
type BelowMinimumGPAError struct {
	Course   string
	Required float64
}

func (e *BelowMinimumGPAError) Error() string {
	return fmt.Sprintf("your GPA does not meet the minimum of %s for %s",
		strconv.FormatFloat(e.Required, 'f', -1, 64), e.Course)
}

// Is lets errors.Is(err, ErrBelowMinimumGPA) match.
func (e *BelowMinimumGPAError) Is(target error) bool {
	return target == ErrBelowMinimumGPA
}

// RemoteOperationError wraps a failure of the document store.
type RemoteOperationError struct {
	Op  string
	Err error
}

func (e *RemoteOperationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

func remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteOperationError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteOperationError{Op: op, Err: err}
}

// Code returns a stable machine-readable code for an engine error, or ""
// when err is not one of the engine's rejections.
func Code(err error) string {
	var re *RemoteOperationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrTooManyCourses):
		return "too_many_courses"
	case errors.Is(err, ErrDuplicateInstitutionApplication):
		return "duplicate_institution_application"
	case errors.Is(err, ErrBelowMinimumGPA):
		return "below_minimum_gpa"
	case errors.Is(err, ErrNotQualified):
		return "not_qualified"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrAdmissionNotFound):
		return "admission_not_found"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &re):
		return "remote_operation_failed"
	}
	return ""
}
