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
	permissionsCollection = "permissions"
	permissionEntity      = "user permission"
)

type PermissionRepository struct {
	coll *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{coll: db.Collection(permissionsCollection)}
}

type mongoPermission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	CreatedAt   int64              `bson:"created_at"`
}

func (mp mongoPermission) toDomain() domain.Permission {
	return domain.Permission{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Description: mp.Description,
		CreatedAt:   unixToTime(mp.CreatedAt),
	}
}

func (r *PermissionRepository) Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPermission{
		ID:          primitive.NewObjectID(),
		Name:        perm.Name,
		Description: perm.Description,
		CreatedAt:   perm.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, writeErr(err, permissionEntity, "insert", "name")
	}
	p := doc.toDomain()
	return &p, nil
}

func (r *PermissionRepository) FindByNames(ctx context.Context, names []string) ([]domain.Permission, error) {
	return r.find(ctx, bson.M{"name": bson.M{"$in": names}})
}

func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Permission, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
}

func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	return r.find(ctx, bson.M{})
}

func (r *PermissionRepository) find(ctx context.Context, filter bson.M) ([]domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, readErr(err, permissionEntity, "", "")
	}
	var docs []mongoPermission
	if err := cur.All(ctx, &docs); err != nil {
		return nil, readErr(err, permissionEntity, "", "")
	}
	out := make([]domain.Permission, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PermissionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
