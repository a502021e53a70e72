package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)

	u := f.register(t, "alice01", "pass1234", "")
	assert.NotEqual(t, "pass1234", u.PasswordHash)
	assert.NoError(t, f.hasher.Compare(u.PasswordHash, "pass1234"))
	assert.False(t, u.Locked)
	assert.False(t, u.Activated)
	require.NotNil(t, u.Role)
	assert.Equal(t, domain.RoleUser, u.Role.Name)

	_, err := f.users.Register(context.Background(), ports.UserInput{
		Username: "alice01", Email: "other@shop.test", Password: "pass1234",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.users.Provision(context.Background(), ports.UserInput{
		Username: "dave001", Email: "dave@shop.test", Password: "pass1234", RoleName: "GHOST",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_RegisterIgnoresRequestedRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, ports.UserInput{
		Username: "mallory", Email: "mallory@shop.test", Password: "pass1234", RoleName: domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.NotNil(t, u.Role)
	assert.Equal(t, domain.RoleUser, u.Role.Name)

	_, principal, err := f.auth.Authenticate(ctx, "mallory", "pass1234")
	require.NoError(t, err)
	assert.Empty(t, principal.Permissions)
}

func TestUserService_ProvisionHonoursRole(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Provision(context.Background(), ports.UserInput{
		Username: "root0001", Email: "root@shop.test", Password: "pass1234", RoleName: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role.Name)
}

func TestUserService_UpdateRehashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.register(t, "alice01", "pass1234", "")

	after, err := f.users.Update(ctx, "alice01", ports.UserInput{
		FirstName: "Alice", LastName: "Liddell", Username: "alice01", Email: "alice@shop.test",
		Password: "new-pass-5678",
	})
	require.NoError(t, err)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
	assert.NoError(t, f.hasher.Compare(after.PasswordHash, "new-pass-5678"))
	assert.Equal(t, domain.RoleUser, after.Role.Name)

	kept, err := f.users.Update(ctx, "alice01", ports.UserInput{
		FirstName: "Alice", LastName: "Liddell", Username: "alice01", Email: "alice@shop.test",
	})
	require.NoError(t, err)
	assert.Equal(t, after.PasswordHash, kept.PasswordHash)
}

func TestUserService_DeleteReportsAllMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice01", "pass1234", "")
	f.register(t, "bobby01", "pass1234", "")

	err := f.users.Delete(ctx, []string{"alice01", "ghost01", "ghost02"})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"ghost01", "ghost02"}, nf.Names)

	exists, err := f.users.UsernameExists(ctx, "alice01")
	require.NoError(t, err)
	assert.True(t, exists, "nothing is deleted when any username is unknown")

	require.NoError(t, f.users.Delete(ctx, []string{"alice01", "bobby01"}))
	exists, err = f.users.EmailExists(ctx, "alice01@shop.test")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserService_Self(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice01", "pass1234", "")

	_, err := f.users.Self(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	ctx := domain.WithPrincipal(context.Background(), &domain.Principal{Username: "alice01"})
	me, err := f.users.Self(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice01", me.Username)
}
