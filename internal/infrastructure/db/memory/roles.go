package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

type RoleRepository struct{ s *Store }

func (r *RoleRepository) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(role.Name, "") {
		return nil, &domain.ConflictError{Entity: "user role", Field: "name"}
	}
	c := cloneRole(role)
	c.ID = newID()
	c.PermissionIDs = dedupe(c.PermissionIDs)
	r.s.roles[c.ID] = c
	return cloneRole(c), nil
}

func (r *RoleRepository) Update(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[role.ID]; !ok {
		return domain.NewNotFound("user role", "id", role.ID)
	}
	if r.nameTaken(role.Name, role.ID) {
		return &domain.ConflictError{Entity: "user role", Field: "name"}
	}
	c := cloneRole(role)
	c.PermissionIDs = dedupe(c.PermissionIDs)
	r.s.roles[role.ID] = c
	return nil
}

func (r *RoleRepository) nameTaken(name, selfID string) bool {
	for id, existing := range r.s.roles {
		if id != selfID && existing.Name == name {
			return true
		}
	}
	return false
}

func (r *RoleRepository) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok {
		return nil, domain.NewNotFound("user role", "id", id)
	}
	return cloneRole(role), nil
}

func (r *RoleRepository) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role.Name == name {
			return cloneRole(role), nil
		}
	}
	return nil, domain.NewNotFound("user role", "name", name)
}

func (r *RoleRepository) FindByNames(_ context.Context, names []string) ([]*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Role
	for _, role := range r.s.roles {
		if slices.Contains(names, role.Name) {
			out = append(out, cloneRole(role))
		}
	}
	sortRoles(out)
	return out, nil
}

func (r *RoleRepository) List(_ context.Context) ([]*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		out = append(out, cloneRole(role))
	}
	sortRoles(out)
	return out, nil
}

func (r *RoleRepository) DeleteByIDs(_ context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		delete(r.s.roles, id)
	}
	return nil
}

func sortRoles(rs []*domain.Role) {
	slices.SortFunc(rs, func(a, b *domain.Role) int { return strings.Compare(a.Name, b.Name) })
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// --- permissions ---

type PermissionRepository struct{ s *Store }

func (r *PermissionRepository) Create(_ context.Context, perm *domain.Permission) (*domain.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.perms {
		if p.Name == perm.Name {
			return nil, &domain.ConflictError{Entity: "user permission", Field: "name"}
		}
	}
	c := *perm
	c.ID = newID()
	r.s.perms[c.ID] = c
	return &c, nil
}

func (r *PermissionRepository) FindByNames(_ context.Context, names []string) ([]domain.Permission, error) {
	return r.filter(func(p domain.Permission) bool { return slices.Contains(names, p.Name) }), nil
}

func (r *PermissionRepository) FindByIDs(_ context.Context, ids []string) ([]domain.Permission, error) {
	return r.filter(func(p domain.Permission) bool { return slices.Contains(ids, p.ID) }), nil
}

func (r *PermissionRepository) List(_ context.Context) ([]domain.Permission, error) {
	return r.filter(func(domain.Permission) bool { return true }), nil
}

func (r *PermissionRepository) filter(keep func(domain.Permission) bool) []domain.Permission {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Permission{}
	for _, p := range r.s.perms {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Permission) int { return strings.Compare(a.Name, b.Name) })
	return out
}
