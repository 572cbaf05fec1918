// internal/app/store/admissions/admissionstore.go
package admissionstore

import (
	"context"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists published admissions. It satisfies eligibility.AdmissionRepo.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admissions")}
}

// Upsert writes the admission under its explicit ID, replacing any
// earlier document with the same ID.
func (s *Store) Upsert(ctx context.Context, a models.Admission) error {
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Admission, error) {
	var a models.Admission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Admission{}, err
	}
	return a, nil
}

// ListByStudent returns a student's admissions, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Admission, error) {
	return s.find(ctx, bson.M{"student_id": studentID})
}

// List returns admissions for one institution, or all when institution is "".
func (s *Store) List(ctx context.Context, institution string) ([]models.Admission, error) {
	filter := bson.M{}
	if institution != "" {
		filter["institution"] = institution
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Admission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Admission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an admission. Deleting a missing admission is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count returns the number of admissions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// DeleteByStudent removes every admission a student holds.
func (s *Store) DeleteByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
