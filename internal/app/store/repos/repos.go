// Package repos wires the MongoDB stores into the eligibility engine.
package repos

import (
	admissionstore "github.com/dalemusser/careerhub/internal/app/store/admissions"
	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	coursestore "github.com/dalemusser/careerhub/internal/app/store/courses"
	jobapplicationstore "github.com/dalemusser/careerhub/internal/app/store/jobapplications"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Compile-time checks that the stores satisfy the engine's repositories.
var (
	_ eligibility.ApplicationRepo    = (*applicationstore.Store)(nil)
	_ eligibility.CourseCatalog      = (*coursestore.Store)(nil)
	_ eligibility.AdmissionRepo      = (*admissionstore.Store)(nil)
	_ eligibility.JobApplicationRepo = (*jobapplicationstore.Store)(nil)
)

// Engine builds an eligibility engine backed by db.
func Engine(db *mongo.Database, logger *zap.Logger) *eligibility.Engine {
	return eligibility.New(
		applicationstore.New(db),
		coursestore.New(db),
		admissionstore.New(db),
		jobapplicationstore.New(db),
		logger,
	)
}
