// Package memory is an in-process Identity Store. It enforces the same
// uniqueness rules as the MongoDB store and is used for local runs and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// Store holds all identity collections behind one lock so multi-record
// operations are atomic.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	roles  map[string]*domain.Role
	perms  map[string]domain.Permission
	resets map[string]*domain.PasswordResetRequest // keyed by user id
}

func New() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		roles:  make(map[string]*domain.Role),
		perms:  make(map[string]domain.Permission),
		resets: make(map[string]*domain.PasswordResetRequest),
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Roles() *RoleRepository             { return &RoleRepository{s: s} }
func (s *Store) Permissions() *PermissionRepository { return &PermissionRepository{s: s} }
func (s *Store) Resets() *ResetRequestRepository    { return &ResetRequestRepository{s: s} }

// Ping satisfies the readiness check.
func (s *Store) Ping(context.Context) error { return nil }

func newID() string { return uuid.NewString() }

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Addresses = slices.Clone(u.Addresses)
	c.PhoneNumbers = slices.Clone(u.PhoneNumbers)
	c.Role = nil
	return &c
}

func cloneRole(r *domain.Role) *domain.Role {
	c := *r
	c.PermissionIDs = slices.Clone(r.PermissionIDs)
	c.Permissions = nil
	return &c
}

func cloneReset(r *domain.PasswordResetRequest) *domain.PasswordResetRequest {
	c := *r
	return &c
}

// --- users ---

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(user, ""); err != nil {
		return nil, err
	}
	c := cloneUser(user)
	c.ID = newID()
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return domain.NewNotFound("user account", "id", user.ID)
	}
	if err := r.checkUnique(user, user.ID); err != nil {
		return err
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) checkUnique(user *domain.User, selfID string) error {
	for id, u := range r.s.users {
		if id == selfID {
			continue
		}
		if u.Username == user.Username {
			return &domain.ConflictError{Entity: "user account", Field: "username"}
		}
		if u.Email == user.Email {
			return &domain.ConflictError{Entity: "user account", Field: "email"}
		}
	}
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NewNotFound("user account", "id", id)
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findOne("username", username, func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findOne("email", email, func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) findOne(field, value string, match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NewNotFound("user account", field, value)
}

func (r *UserRepository) FindByUsernames(_ context.Context, usernames []string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.User
	for _, u := range r.s.users {
		if slices.Contains(usernames, u.Username) {
			out = append(out, cloneUser(u))
		}
	}
	sortUsers(out)
	return out, nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sortUsers(out)
	return out, nil
}

func (r *UserRepository) CountByRoleIDs(_ context.Context, roleIDs []string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if slices.Contains(roleIDs, u.RoleID) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) DeleteByIDs(_ context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		delete(r.s.users, id)
		delete(r.s.resets, id)
	}
	return nil
}

func sortUsers(us []*domain.User) {
	slices.SortFunc(us, func(a, b *domain.User) int { return strings.Compare(a.Username, b.Username) })
}
