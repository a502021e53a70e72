package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

const (
	rolesCollection = "roles"
	roleEntity      = "user role"
)

// RoleRepository stores each role with its permission id-set embedded as an array.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Description   string               `bson:"description"`
	PermissionIDs []primitive.ObjectID `bson:"permission_ids"`
	CreatedAt     int64                `bson:"created_at"`
	UpdatedAt     int64                `bson:"updated_at"`
}

func (mr mongoRole) toDomain() *domain.Role {
	return &domain.Role{
		ID:            mr.ID.Hex(),
		Name:          mr.Name,
		Description:   mr.Description,
		PermissionIDs: hexIDs(mr.PermissionIDs),
		CreatedAt:     unixToTime(mr.CreatedAt),
		UpdatedAt:     unixToTime(mr.UpdatedAt),
	}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRole{
		ID:            primitive.NewObjectID(),
		Name:          role.Name,
		Description:   role.Description,
		PermissionIDs: objectIDs(domain.UniqueNames(role.PermissionIDs)),
		CreatedAt:     role.CreatedAt.Unix(),
		UpdatedAt:     role.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, writeErr(err, roleEntity, "insert", "name")
	}
	return doc.toDomain(), nil
}

// Update rewrites name, description and the whole permission set in one
// document update, so readers see either the old or the new role.
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(role.ID)
	if err != nil {
		return domain.NewNotFound(roleEntity, "id", role.ID)
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":           role.Name,
		"description":    role.Description,
		"permission_ids": objectIDs(domain.UniqueNames(role.PermissionIDs)),
		"updated_at":     role.UpdatedAt.Unix(),
	}})
	if err != nil {
		return writeErr(err, roleEntity, "update", "name")
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound(roleEntity, "id", role.ID)
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewNotFound(roleEntity, "id", id)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "id", id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name}, "name", name)
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M, field, key string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRole
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, readErr(err, roleEntity, field, key)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) FindByNames(ctx context.Context, names []string) ([]*domain.Role, error) {
	return r.find(ctx, bson.M{"name": bson.M{"$in": names}})
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, readErr(err, roleEntity, "", "")
	}
	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, readErr(err, roleEntity, "", "")
	}
	out := make([]*domain.Role, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *RoleRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
	return writeErr(err, roleEntity, "delete")
}

func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
