// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"

	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists course applications. It satisfies eligibility.ApplicationRepo.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// Create inserts an application. The unique (student_id, institution)
// index turns a second application to the same institution into
// eligibility.ErrDuplicateInstitutionApplication.
func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, eligibility.ErrDuplicateInstitutionApplication
		}
		return models.Application{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Application{}, err
	}
	return a, nil
}

// ListByStudent returns a student's applications, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Application, error) {
	return s.find(ctx, bson.M{"student_id": studentID})
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Institution string
	Status      string
}

func (f Filter) bson() bson.M {
	m := bson.M{}
	if f.Institution != "" {
		m["institution"] = f.Institution
	}
	if f.Status != "" {
		m["status"] = f.Status
	}
	return m
}

// List returns applications matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Application, error) {
	return s.find(ctx, f.bson())
}

// Count returns the number of applications matching f.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Application{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the status to `to` only while it is still `from`.
// It reports false when the application is missing or was already moved.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// DeleteByStudent removes every application a student made.
func (s *Store) DeleteByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
