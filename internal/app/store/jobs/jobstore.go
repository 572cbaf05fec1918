// internal/app/store/jobs/jobstore.go
package jobstore

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

var errTitleNeeded = errors.New("job title is required")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("jobs")}
}

// Create inserts a job. A blank, unparseable, or non-positive minimum GPA
// is stored as models.DefaultJobMinGPA; an unset or negative minimum
// experience is stored as 0. Required skills are expected already parsed.
func (s *Store) Create(ctx context.Context, j models.Job) (models.Job, error) {
	j.ID = primitive.NewObjectID()
	j.Title = normalize.Name(j.Title)
	if j.Title == "" {
		return models.Job{}, errTitleNeeded
	}
	if !j.MinGPA.Set || j.MinGPA.Value <= 0 {
		j.MinGPA = models.NewFlexFloat(models.DefaultJobMinGPA)
	}
	if !j.MinExperience.Set || j.MinExperience.Value < 0 {
		j.MinExperience = models.NewFlexFloat(0)
	}
	j.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, j); err != nil {
		return models.Job{}, err
	}
	return j, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Job, error) {
	var j models.Job
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&j); err != nil {
		return models.Job{}, err
	}
	return j, nil
}

// List returns jobs newest first. A nil companyID lists every company's jobs.
func (s *Store) List(ctx context.Context, companyID *primitive.ObjectID) ([]models.Job, error) {
	filter := bson.M{}
	if companyID != nil {
		filter["company_id"] = *companyID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Job{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of posted jobs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Delete removes a job by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
