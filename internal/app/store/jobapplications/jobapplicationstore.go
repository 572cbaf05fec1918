// internal/app/store/jobapplications/jobapplicationstore.go
package jobapplicationstore

import (
	"context"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists job applications. It satisfies eligibility.JobApplicationRepo.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("job_applications")}
}

func (s *Store) Create(ctx context.Context, ja models.JobApplication) (models.JobApplication, error) {
	if ja.ID.IsZero() {
		ja.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, ja); err != nil {
		return models.JobApplication{}, err
	}
	return ja, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JobApplication, error) {
	var ja models.JobApplication
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ja); err != nil {
		return models.JobApplication{}, err
	}
	return ja, nil
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

// ListByJob returns the applications to one job, newest first.
func (s *Store) ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.JobApplication, error) {
	return s.find(ctx, bson.M{"job_id": jobID})
}

// ListByStudent returns a student's job applications, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.JobApplication, error) {
	return s.find(ctx, bson.M{"student_id": studentID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.JobApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.JobApplication{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of job applications.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// DeleteByJob removes every application to a job.
func (s *Store) DeleteByJob(ctx context.Context, jobID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByStudent removes every job application a student made.
func (s *Store) DeleteByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
