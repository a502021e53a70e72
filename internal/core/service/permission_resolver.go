package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

// PermissionResolver turns a role's stored id-set into permission names, the
// form carried in tokens. The cache is optional and advisory.
type PermissionResolver struct {
	roles ports.RoleRepository
	perms ports.PermissionRepository
	cache ports.PermissionCache
	log   zerolog.Logger
}

func NewPermissionResolver(
	roles ports.RoleRepository,
	perms ports.PermissionRepository,
	cache ports.PermissionCache,
	log zerolog.Logger,
) *PermissionResolver {
	return &PermissionResolver{roles: roles, perms: perms, cache: cache, log: log}
}

// RolePermissions returns the permission names granted by roleID.
func (r *PermissionResolver) RolePermissions(ctx context.Context, roleID string) ([]string, error) {
	if r.cache != nil {
		names, ok, err := r.cache.Get(ctx, roleID)
		if err != nil {
			r.log.Warn().Err(err).Str("role_id", roleID).Msg("permission cache read failed, using store")
		} else if ok {
			return names, nil
		}
	}

	role, err := r.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("resolve role permissions: %w", err)
	}
	perms, err := r.Load(ctx, role)
	if err != nil {
		return nil, err
	}
	names := domain.PermissionNames(perms)

	if r.cache != nil {
		if err := r.cache.Set(ctx, roleID, names); err != nil {
			r.log.Warn().Err(err).Str("role_id", roleID).Msg("permission cache write failed")
		}
	}
	return names, nil
}

// Load fetches the permission entities referenced by role.PermissionIDs.
func (r *PermissionResolver) Load(ctx context.Context, role *domain.Role) ([]domain.Permission, error) {
	if len(role.PermissionIDs) == 0 {
		return []domain.Permission{}, nil
	}
	perms, err := r.perms.FindByIDs(ctx, role.PermissionIDs)
	if err != nil {
		return nil, fmt.Errorf("load permissions of role %s: %w", role.Name, err)
	}
	return perms, nil
}

// Attach fills role.Permissions from its id-set.
func (r *PermissionResolver) Attach(ctx context.Context, role *domain.Role) error {
	perms, err := r.Load(ctx, role)
	if err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}

// ByNames maps wire names to entities, reporting every unknown name at once.
func (r *PermissionResolver) ByNames(ctx context.Context, names []string) ([]domain.Permission, error) {
	names = domain.UniqueNames(names)
	if len(names) == 0 {
		return []domain.Permission{}, nil
	}
	found, err := r.perms.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	resolved, missing := domain.ResolvePermissionNames(names, found)
	if len(missing) > 0 {
		return nil, domain.NewNotFound("user permission", "name", missing...)
	}
	return resolved, nil
}

// Forget drops cached grants of the given roles.
func (r *PermissionResolver) Forget(ctx context.Context, roleIDs ...string) {
	if r.cache == nil || len(roleIDs) == 0 {
		return
	}
	if err := r.cache.Invalidate(ctx, roleIDs...); err != nil {
		r.log.Warn().Err(err).Strs("role_ids", roleIDs).Msg("permission cache invalidation failed")
	}
}
