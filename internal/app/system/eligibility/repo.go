// internal/app/system/eligibility/repo.go
package eligibility

import (
	"context"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationRepo persists course applications.
//
// Create must return ErrDuplicateInstitutionApplication when an application
// for the same (student, institution) already exists. UpdateStatus is a
// compare-and-swap: it reports false when the stored status was not from.
type ApplicationRepo interface {
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Application, error)
	Create(ctx context.Context, app models.Application) (models.Application, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error)
}

// CourseCatalog resolves the courses an institution offers.
type CourseCatalog interface {
	ListByInstitutionName(ctx context.Context, institution string) ([]models.Course, error)
}

// AdmissionRepo persists published admissions.
// Delete of a missing document is not an error.
type AdmissionRepo interface {
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Admission, error)
	Upsert(ctx context.Context, a models.Admission) error
	Delete(ctx context.Context, id string) error
}

// JobApplicationRepo persists job applications. UpdateStatus follows the
// same compare-and-swap contract as ApplicationRepo.
type JobApplicationRepo interface {
	Create(ctx context.Context, ja models.JobApplication) (models.JobApplication, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error)
}
