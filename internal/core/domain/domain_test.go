package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Messages(t *testing.T) {
	single := NewNotFound("user role", "name", "TEMP")
	assert.Equal(t, "no user role found with name: 'TEMP'", single.Error())
	assert.True(t, errors.Is(single, ErrNotFound))

	batch := NewNotFound("user permission", "name", "A_PERM", "B_PERM")
	assert.Equal(t, "no user permissions found with names: 'A_PERM', 'B_PERM'", batch.Error())
}

func TestGuardRoleMutation(t *testing.T) {
	assert.NoError(t, GuardRoleMutation("remove", "TEMP", "SPARE"))

	err := GuardRoleMutation("remove", "USER", "TEMP", "USER", "ADMIN")
	var illegal *IllegalOperationError
	assert.ErrorAs(t, err, &illegal)
	assert.Equal(t, []string{"USER", "ADMIN"}, illegal.Names)
	assert.Equal(t, "cannot remove read-only user roles with names: 'USER', 'ADMIN'", err.Error())
	assert.ErrorIs(t, err, ErrIllegalOperation)
}

func TestResolvePermissionNames(t *testing.T) {
	found := []Permission{{ID: "1", Name: "A_PERM"}, {ID: "2", Name: "B_PERM"}}

	resolved, missing := ResolvePermissionNames([]string{"B_PERM", "X_PERM", "A_PERM", "B_PERM", "Y_PERM"}, found)
	assert.Equal(t, []string{"B_PERM", "A_PERM"}, PermissionNames(resolved))
	assert.Equal(t, []string{"X_PERM", "Y_PERM"}, missing)
	assert.Equal(t, []string{"2", "1"}, PermissionIDs(resolved))
}

func TestPrincipal_HasPermission(t *testing.T) {
	var anon *Principal
	assert.False(t, anon.HasPermission("A_PERM"))
	assert.True(t, (&Principal{Permissions: []string{"A_PERM"}}).HasPermission("A_PERM"))
}

func TestPasswordResetRequest_Expired(t *testing.T) {
	now := time.Now()
	req := &PasswordResetRequest{CreatedAt: now.Add(-2 * time.Hour)}
	assert.True(t, req.Expired(now, time.Hour))
	assert.False(t, req.Expired(now, 3*time.Hour))
	assert.False(t, req.Expired(now, 0))
}
