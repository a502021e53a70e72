package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

const (
	usersCollection = "users"
	userEntity      = "user account"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Locked       bool               `bson:"locked"`
	Activated    bool               `bson:"activated"`
	Addresses    []string           `bson:"addresses"`
	PhoneNumbers []string           `bson:"phone_numbers"`
	RoleID       primitive.ObjectID `bson:"role_id"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func toMongoUser(u *domain.User) (mongoUser, error) {
	roleID, err := primitive.ObjectIDFromHex(u.RoleID)
	if err != nil {
		return mongoUser{}, domain.NewNotFound("user role", "id", u.RoleID)
	}
	doc := mongoUser{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Locked:       u.Locked,
		Activated:    u.Activated,
		Addresses:    u.Addresses,
		PhoneNumbers: u.PhoneNumbers,
		RoleID:       roleID,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
	if u.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(u.ID); err != nil {
			return mongoUser{}, domain.NewNotFound(userEntity, "id", u.ID)
		}
	}
	return doc, nil
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Locked:       mu.Locked,
		Activated:    mu.Activated,
		Addresses:    nonNil(mu.Addresses),
		PhoneNumbers: nonNil(mu.PhoneNumbers),
		RoleID:       mu.RoleID.Hex(),
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoUser(user)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, writeErr(err, userEntity, "insert", "username", "email")
	}
	return doc.toDomain(), nil
}

// Update replaces the whole document in a single write.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoUser(user)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return writeErr(err, userEntity, "update", "username", "email")
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound(userEntity, "id", user.ID)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewNotFound(userEntity, "id", id)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email", email)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, field, key string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		return nil, readErr(err, userEntity, field, key)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error) {
	return r.find(ctx, bson.M{"username": bson.M{"$in": usernames}})
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, readErr(err, userEntity, "", "")
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, readErr(err, userEntity, "", "")
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepository) CountByRoleIDs(ctx context.Context, roleIDs []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"role_id": bson.M{"$in": objectIDs(roleIDs)}})
}

func (r *UserRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
	return writeErr(err, userEntity, "delete")
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role_id", Value: 1}}},
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
