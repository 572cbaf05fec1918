package metricsstore

import (
	"context"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StudentCounts summarizes one student's activity.
type StudentCounts struct {
	Applications    map[string]int64 `json:"applications"` // by status
	Admissions      int64            `json:"admissions"`
	JobApplications map[string]int64 `json:"job_applications"` // by status
}

// InstitutionCounts summarizes one institution's catalog and intake.
type InstitutionCounts struct {
	Faculties    int64            `json:"faculties"`
	Courses      int64            `json:"courses"`
	Applications map[string]int64 `json:"applications"` // by status
	Admissions   int64            `json:"admissions"`
}

// CompanyCounts summarizes one company's postings.
type CompanyCounts struct {
	Jobs            int64            `json:"jobs"`
	JobApplications map[string]int64 `json:"job_applications"` // by status
}

// PlatformCounts is the admin overview.
type PlatformCounts struct {
	Users           map[string]int64 `json:"users"` // by role
	Applications    map[string]int64 `json:"applications"`
	Admissions      int64            `json:"admissions"`
	Jobs            int64            `json:"jobs"`
	JobApplications map[string]int64 `json:"job_applications"`
}

// Counters below are tolerant: on error a counter reads 0 (or an empty map).

func FetchStudentCounts(ctx context.Context, db *mongo.Database, studentID primitive.ObjectID) StudentCounts {
	f := bson.M{"student_id": studentID}
	return StudentCounts{
		Applications:    groupCount(ctx, db.Collection("applications"), f, "$status"),
		Admissions:      count(ctx, db.Collection("admissions"), f),
		JobApplications: groupCount(ctx, db.Collection("job_applications"), f, "$status"),
	}
}

// FetchInstitutionCounts counts by id for the catalog and by name for
// applications and admissions, which record the institution by name.
func FetchInstitutionCounts(ctx context.Context, db *mongo.Database, institution models.User) InstitutionCounts {
	byID := bson.M{"institution_id": institution.ID}
	byName := bson.M{"institution": institution.Name}
	return InstitutionCounts{
		Faculties:    count(ctx, db.Collection("faculties"), byID),
		Courses:      count(ctx, db.Collection("courses"), byID),
		Applications: groupCount(ctx, db.Collection("applications"), byName, "$status"),
		Admissions:   count(ctx, db.Collection("admissions"), byName),
	}
}

func FetchCompanyCounts(ctx context.Context, db *mongo.Database, companyID primitive.ObjectID) CompanyCounts {
	f := bson.M{"company_id": companyID}
	return CompanyCounts{
		Jobs:            count(ctx, db.Collection("jobs"), f),
		JobApplications: groupCount(ctx, db.Collection("job_applications"), f, "$status"),
	}
}

func FetchPlatformCounts(ctx context.Context, db *mongo.Database) PlatformCounts {
	all := bson.M{}
	return PlatformCounts{
		Users:           groupCount(ctx, db.Collection("users"), all, "$role"),
		Applications:    groupCount(ctx, db.Collection("applications"), all, "$status"),
		Admissions:      count(ctx, db.Collection("admissions"), all),
		Jobs:            count(ctx, db.Collection("jobs"), all),
		JobApplications: groupCount(ctx, db.Collection("job_applications"), all, "$status"),
	}
}

func count(ctx context.Context, c *mongo.Collection, filter bson.M) int64 {
	n, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return 0
	}
	return n
}

// groupCount returns the number of documents matching filter per value of field.
func groupCount(ctx context.Context, c *mongo.Collection, filter bson.M, field string) map[string]int64 {
	out := map[string]int64{}
	cur, err := c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			Key string `bson:"_id"`
			N   int64  `bson:"n"`
		}
		if cur.Decode(&row) == nil {
			out[row.Key] = row.N
		}
	}
	return out
}
