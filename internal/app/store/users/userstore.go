package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrDuplicateInstitutionName is returned when another institution already uses the name.
	ErrDuplicateInstitutionName = errors.New("an institution with this name already exists")
	errBadRole                  = errors.New(`role must be "student"|"institution"|"company"|"admin"`)
	errBadStatus                = errors.New(`status must be "active"|"approved"|"suspended"`)
	errNameNeeded               = errors.New("institutions and companies must have a name")
)

// dupErr maps a duplicate-key error to the index that rejected it.
func dupErr(err error) error {
	if strings.Contains(err.Error(), "uniq_users_institution_name") {
		return ErrDuplicateInstitutionName
	}
	return ErrDuplicateEmail
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDAndRole loads a user by ObjectID, returning mongo.ErrNoDocuments
// when the user does not exist or has a different role.
func (s *Store) GetByIDAndRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": role}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetInstitutionByName resolves an institution by its exact name.
func (s *Store) GetInstitutionByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	filter := bson.M{"role": models.RoleInstitution, "name": normalize.Name(name)}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByIDs loads the users with the given IDs, keyed by ID.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !models.IsValidStatus(u.Status) {
		return models.User{}, errBadStatus
	}
	if (u.Role == models.RoleInstitution || u.Role == models.RoleCompany) && u.Name == "" {
		return models.User{}, errNameNeeded
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, dupErr(err)
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the profile fields a user may change. Nil fields are
// left untouched. Role, email and status are never part of a profile update.
type ProfileUpdate struct {
	Name            *string
	GPA             *models.FlexFloat
	Skills          *string
	ExperienceYears *models.FlexFloat
	About           *string
	Location        *string
}

func (p ProfileUpdate) set() bson.M {
	set := bson.M{}
	if p.Name != nil {
		name := normalize.Name(*p.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if p.GPA != nil {
		set["gpa"] = *p.GPA
	}
	if p.Skills != nil {
		set["skills"] = strings.TrimSpace(*p.Skills)
	}
	if p.ExperienceYears != nil {
		set["experience_years"] = *p.ExperienceYears
	}
	if p.About != nil {
		set["about"] = *p.About
	}
	if p.Location != nil {
		set["location"] = strings.TrimSpace(*p.Location)
	}
	return set
}

// UpdateProfile applies upd and returns the updated user.
// Returns mongo.ErrNoDocuments when no user has the ID.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := upd.set()
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, dupErr(err)
		}
		return nil, err
	}
	return &u, nil
}

// SetTranscriptURL stamps an uploaded transcript on the user.
func (s *Store) SetTranscriptURL(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"transcript_url": url,
		"updated_at":     time.Now().UTC(),
	}})
}

// AddCertificate records the latest certificate upload and appends it to
// the user's certificate list.
func (s *Store) AddCertificate(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.updateByID(ctx, id, bson.M{
		"$set":  bson.M{"certificates_url": url, "updated_at": time.Now().UTC()},
		"$push": bson.M{"certificates": url},
	})
}

// SetPasswordHash replaces the stored password hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
}

// PromoteToAdmin makes an existing user an active admin.
func (s *Store) PromoteToAdmin(ctx context.Context, id primitive.ObjectID) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       models.RoleAdmin,
		"status":     models.StatusActive,
		"updated_at": time.Now().UTC(),
	}})
}

// SetStatus changes a user's account status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	st = normalize.Status(st)
	if !models.IsValidStatus(st) {
		return errBadStatus
	}
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
}

func (s *Store) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Role   string
	Status string
}

// List returns users ordered by folded name.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = normalize.Role(f.Role)
	}
	if f.Status != "" {
		filter["status"] = normalize.Status(f.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByRole returns the number of users per role.
func (s *Store) CountByRole(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Role string `bson:"_id"`
			N    int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Role] = row.N
	}
	return out, cur.Err()
}
