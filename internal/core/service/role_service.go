package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

// RoleService manages roles and guards the protected system roles.
type RoleService struct {
	roles    ports.RoleRepository
	users    ports.UserRepository
	resolver *PermissionResolver
	log      zerolog.Logger
}

func NewRoleService(
	roles ports.RoleRepository,
	users ports.UserRepository,
	resolver *PermissionResolver,
	log zerolog.Logger,
) *RoleService {
	return &RoleService{roles: roles, users: users, resolver: resolver, log: log}
}

func (s *RoleService) Create(ctx context.Context, in ports.RoleInput) (*domain.Role, error) {
	perms, err := s.resolver.ByNames(ctx, in.PermissionNames)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.roles.Create(ctx, &domain.Role{
		Name:          in.Name,
		Description:   in.Description,
		PermissionIDs: domain.PermissionIDs(perms),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}
	created.Permissions = perms
	s.log.Info().Str("role", created.Name).Strs("permissions", domain.PermissionNames(perms)).Msg("role created")
	return created, nil
}

// Update replaces name, description and permissions of the role called name.
// Protected roles are rejected before the store is consulted.
func (s *RoleService) Update(ctx context.Context, name string, in ports.RoleInput) (*domain.Role, error) {
	if err := domain.GuardRoleMutation("modify", name); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	perms, err := s.resolver.ByNames(ctx, in.PermissionNames)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		role.Name = in.Name
	}
	role.Description = in.Description
	role.PermissionIDs = domain.PermissionIDs(perms)
	role.UpdatedAt = time.Now().UTC()

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	s.resolver.Forget(ctx, role.ID)

	role.Permissions = perms
	s.log.Info().Str("role", name).Str("new_name", role.Name).Msg("role updated")
	return role, nil
}

// Delete removes every named role. Protected names are all reported before the
// store is consulted; unknown names are all reported before anything is deleted.
func (s *RoleService) Delete(ctx context.Context, names []string) error {
	names = domain.UniqueNames(names)
	if len(names) == 0 {
		return fmt.Errorf("%w: no role names given", domain.ErrInvalidInput)
	}
	if err := domain.GuardRoleMutation("remove", names...); err != nil {
		return err
	}

	found, err := s.roles.FindByNames(ctx, names)
	if err != nil {
		return err
	}
	have := make([]string, 0, len(found))
	ids := make([]string, 0, len(found))
	for _, r := range found {
		have = append(have, r.Name)
		ids = append(ids, r.ID)
	}
	if missing := domain.MissingNames(names, have); len(missing) > 0 {
		return domain.NewNotFound("user role", "name", missing...)
	}

	assigned, err := s.users.CountByRoleIDs(ctx, ids)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return fmt.Errorf("%w: %d user account(s) still hold the roles being removed", domain.ErrConflict, assigned)
	}

	if err := s.roles.DeleteByIDs(ctx, ids); err != nil {
		return err
	}
	s.resolver.Forget(ctx, ids...)
	s.log.Info().Strs("roles", names).Msg("roles deleted")
	return nil
}

func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if err := s.resolver.Attach(ctx, r); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func (s *RoleService) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Attach(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}
