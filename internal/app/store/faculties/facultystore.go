// internal/app/store/faculties/facultystore.go
package facultystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var errNameNeeded = errors.New("faculty name is required")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("faculties")}
}

// Create inserts a faculty.
func (s *Store) Create(ctx context.Context, f models.Faculty) (models.Faculty, error) {
	f.ID = primitive.NewObjectID()
	f.Name = normalize.Name(f.Name)
	if f.Name == "" {
		return models.Faculty{}, errNameNeeded
	}
	f.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Faculty{}, err
	}
	return f, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Faculty, error) {
	var f models.Faculty
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.Faculty{}, err
	}
	return f, nil
}

// List returns faculties ordered by name. A nil institutionID lists all.
func (s *Store) List(ctx context.Context, institutionID *primitive.ObjectID) ([]models.Faculty, error) {
	filter := bson.M{}
	if institutionID != nil {
		filter["institution_id"] = *institutionID
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Faculty{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Rename changes a faculty's name. Courses keep the faculty name they were
// created with.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	name = normalize.Name(name)
	if name == "" {
		return errNameNeeded
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a faculty by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByInstitution removes every faculty owned by an institution.
func (s *Store) DeleteByInstitution(ctx context.Context, institutionID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"institution_id": institutionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetInstitutionName rewrites the denormalized institution name on every
// entry owned by institutionID.
func (s *Store) SetInstitutionName(ctx context.Context, institutionID primitive.ObjectID, name string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"institution_id": institutionID},
		bson.M{"$set": bson.M{"institution_name": name}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
