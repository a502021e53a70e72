package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

const (
	resetCollection = "password_reset_requests"
	resetEntity     = "password reset request"
)

// ResetRequestRepository keeps one document per user, enforced by a unique
// index on user_id and by upserting on that key.
type ResetRequestRepository struct {
	coll *mongo.Collection
}

func NewResetRequestRepository(db *mongo.Database) *ResetRequestRepository {
	return &ResetRequestRepository{coll: db.Collection(resetCollection)}
}

type mongoResetRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Token     string             `bson:"token"`
	CreatedAt int64              `bson:"created_at"`
}

func (m mongoResetRequest) toDomain() *domain.PasswordResetRequest {
	return &domain.PasswordResetRequest{
		ID:        m.ID.Hex(),
		UserID:    m.UserID,
		Token:     m.Token,
		CreatedAt: unixToTime(m.CreatedAt),
	}
}

// ReplaceForUser swaps the user's request for req in a single upsert, so two
// concurrent calls can never leave two live tokens.
func (r *ResetRequestRepository) ReplaceForUser(ctx context.Context, req *domain.PasswordResetRequest) (*domain.PasswordResetRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"token":      req.Token,
			"created_at": req.CreatedAt.Unix(),
		},
		"$setOnInsert": bson.M{"user_id": req.UserID},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc mongoResetRequest
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user_id": req.UserID}, update, opts).Decode(&doc)
	if err != nil {
		return nil, writeErr(err, resetEntity, "replace", "token", "user_id")
	}
	return doc.toDomain(), nil
}

func (r *ResetRequestRepository) FindByUserID(ctx context.Context, userID string) (*domain.PasswordResetRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResetRequest
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		return nil, readErr(err, resetEntity, "user id", userID)
	}
	return doc.toDomain(), nil
}

// FindByToken reports a miss as the bare domain.ErrNotFound so the token is
// never echoed in an error message.
func (r *ResetRequestRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordResetRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResetRequest
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		return nil, tokenErr(err)
	}
	return doc.toDomain(), nil
}

func (r *ResetRequestRepository) ConsumeByToken(ctx context.Context, token string) (*domain.PasswordResetRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResetRequest
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		return nil, tokenErr(err)
	}
	return doc.toDomain(), nil
}

func (r *ResetRequestRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func tokenErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
