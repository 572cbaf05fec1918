package eligibility

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store unavailable")

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type memApps struct {
	mu        sync.Mutex
	apps      []models.Application
	listErr   error
	createErr error
	updateErr error
}

func (m *memApps) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Application
	for _, a := range m.apps {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApps) Create(_ context.Context, app models.Application) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return models.Application{}, m.createErr
	}
	for _, a := range m.apps {
		if a.StudentID == app.StudentID && a.Institution == app.Institution {
			return models.Application{}, ErrDuplicateInstitutionApplication
		}
	}
	app.ID = primitive.NewObjectID()
	m.apps = append(m.apps, app)
	return app, nil
}

func (m *memApps) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return false, m.updateErr
	}
	for i := range m.apps {
		if m.apps[i].ID == id && m.apps[i].Status == from {
			m.apps[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

type memCourses struct {
	byInstitution map[string][]models.Course
	err           error
}

func (m *memCourses) ListByInstitutionName(_ context.Context, institution string) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byInstitution[institution], nil
}

type memAdmissions struct {
	mu         sync.Mutex
	docs       map[string]models.Admission
	deleteErrs map[string]error
	upsertErrs map[string]error
	listErr    error
	deletes    int
}

func newMemAdmissions(docs ...models.Admission) *memAdmissions {
	m := &memAdmissions{docs: map[string]models.Admission{}}
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return m
}

func (m *memAdmissions) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Admission
	for _, d := range m.docs {
		if d.StudentID == studentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memAdmissions) Upsert(_ context.Context, a models.Admission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.upsertErrs[a.ID]; err != nil {
		return err
	}
	m.docs[a.ID] = a
	return nil
}

func (m *memAdmissions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if err := m.deleteErrs[id]; err != nil {
		return err
	}
	delete(m.docs, id)
	return nil
}

type memJobApps struct {
	mu   sync.Mutex
	apps []models.JobApplication
}

func (m *memJobApps) Create(_ context.Context, ja models.JobApplication) (models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ja.ID = primitive.NewObjectID()
	m.apps = append(m.apps, ja)
	return ja, nil
}

func (m *memJobApps) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.apps {
		if m.apps[i].ID == id && m.apps[i].Status == from {
			m.apps[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

type testEngine struct {
	*Engine
	apps       *memApps
	courses    *memCourses
	admissions *memAdmissions
	jobApps    *memJobApps
}

func newTestEngine() *testEngine {
	te := &testEngine{
		apps:       &memApps{},
		courses:    &memCourses{byInstitution: map[string][]models.Course{}},
		admissions: newMemAdmissions(),
		jobApps:    &memJobApps{},
	}
	te.Engine = New(te.apps, te.courses, te.admissions, te.jobApps, zap.NewNop())
	te.Engine.now = func() time.Time { return fixedNow }
	return te
}

func course(name string, min float64) models.Course {
	return models.Course{ID: primitive.NewObjectID(), Name: name, MinGPA: models.NewFlexFloat(min)}
}

func student(gpa float64) models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Role:  models.RoleStudent,
		Email: "student@example.com",
		Name:  "Ada Student",
		GPA:   models.NewFlexFloat(gpa),
	}
}
