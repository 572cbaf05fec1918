// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var errNameNeeded = errors.New("course name is required")

// ErrDuplicateCourse is returned when the institution already offers a
// course with the same name.
var ErrDuplicateCourse = errors.New("this institution already offers a course with that name")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// Create inserts a course. A blank, unparseable, or non-positive minimum
// GPA is stored as models.DefaultCourseMinGPA. The unique
// (institution_id, name) index turns a repeated name into ErrDuplicateCourse.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	if c.Name == "" {
		return models.Course{}, errNameNeeded
	}
	if !c.MinGPA.Set || c.MinGPA.Value <= 0 {
		c.MinGPA = models.NewFlexFloat(models.DefaultCourseMinGPA)
	}
	c.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, ErrDuplicateCourse
		}
		return models.Course{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// List returns courses ordered by name. A nil institutionID lists all.
func (s *Store) List(ctx context.Context, institutionID *primitive.ObjectID) ([]models.Course, error) {
	filter := bson.M{}
	if institutionID != nil {
		filter["institution_id"] = *institutionID
	}
	return s.find(ctx, filter)
}

// ListByInstitutionName returns the catalog of the institution with the
// exact name. It satisfies eligibility.CourseCatalog.
func (s *Store) ListByInstitutionName(ctx context.Context, institution string) ([]models.Course, error) {
	return s.find(ctx, bson.M{"institution_name": institution})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Course, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a course by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByInstitution removes every course owned by an institution.
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
