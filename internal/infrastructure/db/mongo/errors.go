package mongo

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// writeErr maps duplicate-key failures to *domain.ConflictError. The offending
// field is read from the index name reported by the server ("<field>_1").
func writeErr(err error, entity, op string, fields ...string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		for _, f := range fields {
			if strings.Contains(msg, f+"_1") {
				return &domain.ConflictError{Entity: entity, Field: f}
			}
		}
		return &domain.ConflictError{Entity: entity}
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}

// readErr maps an empty result to a *domain.NotFoundError for key.
func readErr(err error, entity, field, key string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewNotFound(entity, field, key)
	}
	return fmt.Errorf("find %s: %w", entity, err)
}

// objectIDs parses hex ids, dropping the ones that cannot exist.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}
