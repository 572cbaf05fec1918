package eligibility

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransitionApplication(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.ApplicationPending, models.ApplicationAdmitted, true},
		{models.ApplicationPending, models.ApplicationRejected, true},
		{models.ApplicationPending, models.ApplicationPending, false},
		{models.ApplicationAdmitted, models.ApplicationRejected, false},
		{models.ApplicationRejected, models.ApplicationPending, false},
		{models.ApplicationRejected, models.ApplicationAdmitted, false},
		{models.ApplicationPending, models.ApplicationWithdrawn, false},
		{models.ApplicationAdmitted, models.ApplicationConfirmed, false},
		{models.ApplicationWithdrawn, models.ApplicationAdmitted, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionApplication(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionJobApplication(t *testing.T) {
	assert.True(t, CanTransitionJobApplication(models.JobApplicationApplied, models.JobApplicationShortlisted))
	assert.True(t, CanTransitionJobApplication(models.JobApplicationApplied, models.JobApplicationRejected))
	assert.False(t, CanTransitionJobApplication(models.JobApplicationShortlisted, models.JobApplicationRejected))
	assert.False(t, CanTransitionJobApplication(models.JobApplicationRejected, models.JobApplicationApplied))
}

func TestUpdateApplicationStatus(t *testing.T) {
	te := newTestEngine()
	app := models.Application{ID: primitive.NewObjectID(), Status: models.ApplicationPending, Institution: "City College"}
	te.apps.apps = []models.Application{app}

	updated, err := te.UpdateApplicationStatus(context.Background(), app, models.ApplicationAdmitted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAdmitted, updated.Status)
	assert.Equal(t, models.ApplicationAdmitted, te.apps.apps[0].Status)

	_, err = te.UpdateApplicationStatus(context.Background(), updated, models.ApplicationRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition, "admitted is terminal")
}

func TestUpdateApplicationStatus_StaleRead(t *testing.T) {
	te := newTestEngine()
	app := models.Application{ID: primitive.NewObjectID(), Status: models.ApplicationPending}
	te.apps.apps = []models.Application{app}

	// Another reviewer got there first.
	_, err := te.UpdateApplicationStatus(context.Background(), app, models.ApplicationRejected)
	require.NoError(t, err)

	_, err = te.UpdateApplicationStatus(context.Background(), app, models.ApplicationAdmitted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ApplicationRejected, te.apps.apps[0].Status)
}

func TestUpdateApplicationStatus_StoreFailure(t *testing.T) {
	te := newTestEngine()
	te.apps.updateErr = errStoreDown
	app := models.Application{ID: primitive.NewObjectID(), Status: models.ApplicationPending}

	_, err := te.UpdateApplicationStatus(context.Background(), app, models.ApplicationAdmitted)
	var re *RemoteOperationError
	assert.True(t, errors.As(err, &re))
}

func TestUpdateJobApplicationStatus(t *testing.T) {
	te := newTestEngine()
	ja, err := te.jobApps.Create(context.Background(), models.JobApplication{Status: models.JobApplicationApplied})
	require.NoError(t, err)

	updated, err := te.UpdateJobApplicationStatus(context.Background(), ja, models.JobApplicationShortlisted)
	require.NoError(t, err)
	assert.Equal(t, models.JobApplicationShortlisted, updated.Status)

	_, err = te.UpdateJobApplicationStatus(context.Background(), ja, models.JobApplicationRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition, "stale status loses the compare-and-swap")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "", Code(nil))
	assert.Equal(t, "", Code(errors.New("other")))
	assert.Equal(t, "below_minimum_gpa", Code(&BelowMinimumGPAError{Course: "Art", Required: 2.5}))
	assert.Equal(t, "invalid_transition", Code(ErrInvalidTransition))
	assert.Equal(t, "not_qualified", Code(ErrNotQualified))
}
