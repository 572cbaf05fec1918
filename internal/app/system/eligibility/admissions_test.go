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

func admissionFor(studentID primitive.ObjectID, institution string) models.Admission {
	return models.Admission{
		ID:          AdmissionID(studentID, institution),
		StudentID:   studentID,
		Institution: institution,
		Courses:     []string{"Art"},
	}
}

func TestConfirmAdmission_KeepsOnlyChosen(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	other := primitive.NewObjectID()
	a := admissionFor(sid, "City College")
	b := admissionFor(sid, "State University")
	c := admissionFor(sid, "Tech Institute")
	foreign := admissionFor(other, "City College")
	te.admissions = newMemAdmissions(a, b, c, foreign)
	te.Engine.admissions = te.admissions

	res, err := te.ConfirmAdmission(context.Background(), sid, b.ID)
	require.NoError(t, err)

	assert.Equal(t, b.ID, res.Kept)
	assert.ElementsMatch(t, []string{a.ID, c.ID}, res.Deleted)
	assert.Empty(t, res.Failed)

	held, _ := te.admissions.ListByStudent(context.Background(), sid)
	require.Len(t, held, 1)
	assert.Equal(t, b, held[0], "chosen admission is untouched")
	assert.Contains(t, te.admissions.docs, foreign.ID, "other students are unaffected")
}

func TestConfirmAdmission_NotHeld(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	a := admissionFor(sid, "City College")
	te.admissions = newMemAdmissions(a)
	te.Engine.admissions = te.admissions

	_, err := te.ConfirmAdmission(context.Background(), sid, AdmissionID(primitive.NewObjectID(), "City College"))
	assert.ErrorIs(t, err, ErrAdmissionNotFound)
	assert.Zero(t, te.admissions.deletes)
}

func TestConfirmAdmission_SingleAdmissionIsNoop(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	a := admissionFor(sid, "City College")
	te.admissions = newMemAdmissions(a)
	te.Engine.admissions = te.admissions

	res, err := te.ConfirmAdmission(context.Background(), sid, a.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Deleted)
	assert.Zero(t, te.admissions.deletes)
}

func TestConfirmAdmission_PartialFailureIsWarning(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	a := admissionFor(sid, "City College")
	b := admissionFor(sid, "State University")
	c := admissionFor(sid, "Tech Institute")
	te.admissions = newMemAdmissions(a, b, c)
	te.admissions.deleteErrs = map[string]error{c.ID: errStoreDown}
	te.Engine.admissions = te.admissions

	res, err := te.ConfirmAdmission(context.Background(), sid, a.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{b.ID}, res.Deleted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, c.ID, res.Failed[0].AdmissionID)
	assert.Equal(t, 2, te.admissions.deletes, "loop continues past the failure")
}

func TestConfirmAdmission_Twice(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	a := admissionFor(sid, "City College")
	b := admissionFor(sid, "State University")
	te.admissions = newMemAdmissions(a, b)
	te.Engine.admissions = te.admissions

	_, err := te.ConfirmAdmission(context.Background(), sid, a.ID)
	require.NoError(t, err)
	res, err := te.ConfirmAdmission(context.Background(), sid, a.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Deleted)

	held, _ := te.admissions.ListByStudent(context.Background(), sid)
	assert.Len(t, held, 1)
}

func TestConfirmAdmission_ListFailure(t *testing.T) {
	te := newTestEngine()
	te.admissions.listErr = errStoreDown

	_, err := te.ConfirmAdmission(context.Background(), primitive.NewObjectID(), "x")
	var re *RemoteOperationError
	assert.True(t, errors.As(err, &re))
}

func TestAdmissionID(t *testing.T) {
	sid, err := primitive.ObjectIDFromHex("65f0c0ffee0000000000abcd")
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd-City College", AdmissionID(sid, "City College"))
}

func TestPublishAdmissions_OnlyAdmitted(t *testing.T) {
	te := newTestEngine()
	s1, s2 := primitive.NewObjectID(), primitive.NewObjectID()
	apps := []models.Application{
		{ID: primitive.NewObjectID(), StudentID: s1, Institution: "City College", Courses: []string{"Art"}, Status: models.ApplicationAdmitted},
		{ID: primitive.NewObjectID(), StudentID: s2, Institution: "City College", Courses: []string{"Art"}, Status: models.ApplicationPending},
		{ID: primitive.NewObjectID(), StudentID: s2, Institution: "State University", Courses: []string{"Law"}, Status: models.ApplicationRejected},
	}

	res := te.PublishAdmissions(context.Background(), apps)
	require.Len(t, res.Published, 1)
	assert.Empty(t, res.Failed)

	adm := te.admissions.docs[AdmissionID(s1, "City College")]
	assert.Equal(t, s1, adm.StudentID)
	assert.Equal(t, []string{"Art"}, adm.Courses)
	assert.Equal(t, fixedNow, adm.Date)
	assert.Len(t, te.admissions.docs, 1)
}

func TestPublishAdmissions_Idempotent(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	apps := []models.Application{
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "City College", Status: models.ApplicationAdmitted},
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "State University", Status: models.ApplicationAdmitted},
	}

	te.PublishAdmissions(context.Background(), apps)
	te.PublishAdmissions(context.Background(), apps)

	assert.Len(t, te.admissions.docs, 2)
}

func TestPublishAdmissions_ContinuesPastFailures(t *testing.T) {
	te := newTestEngine()
	s1, s2 := primitive.NewObjectID(), primitive.NewObjectID()
	te.admissions.upsertErrs = map[string]error{AdmissionID(s1, "City College"): errStoreDown}
	apps := []models.Application{
		{ID: primitive.NewObjectID(), StudentID: s1, Institution: "City College", Status: models.ApplicationAdmitted},
		{ID: primitive.NewObjectID(), StudentID: s2, Institution: "City College", Status: models.ApplicationAdmitted},
	}

	res := te.PublishAdmissions(context.Background(), apps)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, apps[0].ID, res.Failed[0].ApplicationID)
	require.Len(t, res.Published, 1)
	assert.Equal(t, s2, res.Published[0].StudentID)
}

func TestConfirmAdmission_RepublishKeepsOne(t *testing.T) {
	te := newTestEngine()
	ctx := context.Background()
	sid := primitive.NewObjectID()
	apps := []models.Application{
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "City College", Courses: []string{"Art"}, Status: models.ApplicationAdmitted},
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "State University", Courses: []string{"Law"}, Status: models.ApplicationAdmitted},
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "Tech Institute", Courses: []string{"CS"}, Status: models.ApplicationPending},
	}
	te.apps.apps = append([]models.Application(nil), apps...)

	first := te.PublishAdmissions(ctx, apps)
	require.Len(t, first.Published, 2)

	res, err := te.ConfirmAdmission(ctx, sid, AdmissionID(sid, "City College"))
	require.NoError(t, err)
	assert.Equal(t, []string{AdmissionID(sid, "State University")}, res.Deleted)
	assert.ElementsMatch(t, []string{apps[1].ID.Hex(), apps[2].ID.Hex()}, res.Withdrawn)
	assert.Empty(t, res.Unsettled)

	assert.Equal(t, models.ApplicationConfirmed, te.apps.apps[0].Status)
	assert.Equal(t, models.ApplicationWithdrawn, te.apps.apps[1].Status)
	assert.Equal(t, models.ApplicationWithdrawn, te.apps.apps[2].Status)

	// A caller still holding the pre-confirm list must not restore the
	// deleted admission.
	again := te.PublishAdmissions(ctx, apps)
	assert.Empty(t, again.Published)
	assert.Len(t, again.Skipped, 2)

	held, err := te.admissions.ListByStudent(ctx, sid)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, AdmissionID(sid, "City College"), held[0].ID)
}

func TestConfirmAdmission_SettleIsBestEffort(t *testing.T) {
	te := newTestEngine()
	sid := primitive.NewObjectID()
	a := admissionFor(sid, "City College")
	te.admissions = newMemAdmissions(a)
	te.Engine.admissions = te.admissions
	te.apps.apps = []models.Application{
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "City College", Status: models.ApplicationAdmitted},
	}
	te.apps.updateErr = errStoreDown

	res, err := te.ConfirmAdmission(context.Background(), sid, a.ID)
	require.NoError(t, err, "confirmation stands when settling fails")
	assert.Equal(t, []string{te.apps.apps[0].ID.Hex()}, res.Unsettled)
}

func TestPublishAdmissions_StudentLookupFailure(t *testing.T) {
	te := newTestEngine()
	te.apps.listErr = errStoreDown
	sid := primitive.NewObjectID()
	apps := []models.Application{
		{ID: primitive.NewObjectID(), StudentID: sid, Institution: "City College", Status: models.ApplicationAdmitted},
	}

	res := te.PublishAdmissions(context.Background(), apps)
	assert.Empty(t, res.Published)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, AdmissionID(sid, "City College"), res.Failed[0].AdmissionID)
	assert.Empty(t, te.admissions.docs)
}
