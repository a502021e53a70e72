package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

func duplicateKey(index string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: shop.users index: %s dup key", index),
	}}}
}

func TestWriteErr_DuplicateKeyNamesField(t *testing.T) {
	err := writeErr(duplicateKey("email_1"), userEntity, "insert", "username", "email")

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
	assert.Equal(t, "user account with this email already exists", err.Error())
}

func TestWriteErr_OtherErrorsWrapped(t *testing.T) {
	cause := errors.New("socket closed")
	err := writeErr(cause, roleEntity, "update", "name")
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, writeErr(nil, roleEntity, "update"))
}

func TestReadErr(t *testing.T) {
	err := readErr(mongo.ErrNoDocuments, roleEntity, "name", "TEMP")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "no user role found with name: 'TEMP'", err.Error())

	assert.ErrorIs(t, tokenErr(mongo.ErrNoDocuments), domain.ErrNotFound)
}

func TestObjectIDs_DropsInvalid(t *testing.T) {
	oid := primitive.NewObjectID()
	got := objectIDs([]string{oid.Hex(), "not-hex"})
	require.Len(t, got, 1)
	assert.Equal(t, []string{oid.Hex()}, hexIDs(got))
}
