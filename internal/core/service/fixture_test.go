package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/infrastructure/db/memory"
)

const testSecret = "test-signing-key"

type fixture struct {
	store    *memory.Store
	hasher   *BcryptHasher
	tokens   *TokenService
	resolver *PermissionResolver
	auth     *AuthService
	users    *UserService
	roles    *RoleService
	notifier *stubNotifier
	resets   *ResetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	store := memory.New()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	tokens, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	resolver := NewPermissionResolver(store.Roles(), store.Permissions(), nil, log)
	auth, err := NewAuthService(store.Users(), resolver, hasher, tokens, log)
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		resolver: resolver,
		auth:     auth,
		users:    NewUserService(store.Users(), store.Roles(), resolver, hasher, log),
		roles:    NewRoleService(store.Roles(), store.Users(), resolver, log),
		notifier: &stubNotifier{},
	}
	f.resets = NewResetService(store.Users(), store.Resets(), f.notifier, hasher,
		ResetConfig{LinkBase: "https://shop.test/reset-password", TokenTTL: time.Hour}, log)

	perms := NewPermissionService(store.Permissions(), resolver)
	for _, name := range []string{domain.PermReadAnyRole, domain.PermDeleteAnyRole, domain.PermUpdateAnyRole} {
		_, err := perms.Create(ctx, name, "grants "+name)
		require.NoError(t, err)
	}
	_, err = store.Roles().Create(ctx, &domain.Role{Name: domain.RoleUser, Description: "default role"})
	require.NoError(t, err)
	_, err = store.Roles().Create(ctx, &domain.Role{Name: domain.RoleModerator, Description: "moderators"})
	require.NoError(t, err)
	all, err := store.Permissions().List(ctx)
	require.NoError(t, err)
	_, err = store.Roles().Create(ctx, &domain.Role{
		Name:          domain.RoleAdmin,
		Description:   "administrators",
		PermissionIDs: domain.PermissionIDs(all),
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) register(t *testing.T, username, password, role string) *domain.User {
	t.Helper()
	u, err := f.users.Provision(context.Background(), ports.UserInput{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     username + "@shop.test",
		Password:  password,
		RoleName:  role,
	})
	require.NoError(t, err)
	return u
}

type sentMail struct {
	to, subject, body string
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *stubNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
