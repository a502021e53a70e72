package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

var builtinPermissions = []domain.Permission{
	{Name: domain.PermReadAnyUser, Description: "read any user account"},
	{Name: domain.PermUpdateAnyUser, Description: "update any user account"},
	{Name: domain.PermDeleteAnyUser, Description: "delete any user account"},
	{Name: domain.PermReadAnyRole, Description: "read any user role"},
	{Name: domain.PermCreateAnyRole, Description: "create user roles"},
	{Name: domain.PermUpdateAnyRole, Description: "update any user role"},
	{Name: domain.PermDeleteAnyRole, Description: "delete any user role"},
	{Name: domain.PermReadAnyPermission, Description: "read any user permission"},
}

type builtinRole struct {
	name        string
	description string
	permissions []string // nil grants every built-in permission
}

var builtinRoles = []builtinRole{
	{name: domain.RoleUser, description: "regular shop customer", permissions: []string{}},
	{name: domain.RoleModerator, description: "reads accounts and roles", permissions: []string{
		domain.PermReadAnyUser, domain.PermReadAnyRole, domain.PermReadAnyPermission,
	}},
	{name: domain.RoleAdmin, description: "full account administration"},
}

// SeedReport lists what a Seeder run created.
type SeedReport struct {
	Permissions []string
	Roles       []string
}

// Seeder creates the built-in permissions and protected roles. Existing
// entries are left as they are, so running it again is harmless.
type Seeder struct {
	perms ports.PermissionRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewSeeder(perms ports.PermissionRepository, roles ports.RoleRepository, log zerolog.Logger) *Seeder {
	return &Seeder{perms: perms, roles: roles, log: log}
}

func (s *Seeder) Run(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	existing, err := s.perms.FindByNames(ctx, domain.PermissionNames(builtinPermissions))
	if err != nil {
		return report, fmt.Errorf("load permissions: %w", err)
	}
	all := existing
	for _, name := range domain.MissingNames(domain.PermissionNames(builtinPermissions), domain.PermissionNames(existing)) {
		p := builtinPermission(name)
		p.CreatedAt = time.Now().UTC()
		created, err := s.perms.Create(ctx, &p)
		if err != nil {
			return report, fmt.Errorf("create permission %s: %w", name, err)
		}
		all = append(all, *created)
		report.Permissions = append(report.Permissions, name)
	}

	for _, r := range builtinRoles {
		_, err := s.roles.FindByName(ctx, r.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return report, fmt.Errorf("load role %s: %w", r.name, err)
		}

		grants := all
		if r.permissions != nil {
			grants, _ = domain.ResolvePermissionNames(r.permissions, all)
		}
		now := time.Now().UTC()
		if _, err := s.roles.Create(ctx, &domain.Role{
			Name:          r.name,
			Description:   r.description,
			PermissionIDs: domain.PermissionIDs(grants),
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return report, fmt.Errorf("create role %s: %w", r.name, err)
		}
		report.Roles = append(report.Roles, r.name)
	}

	s.log.Info().
		Strs("permissions", report.Permissions).
		Strs("roles", report.Roles).
		Msg("seed completed")
	return report, nil
}

func builtinPermission(name string) domain.Permission {
	for _, p := range builtinPermissions {
		if p.Name == name {
			return p
		}
	}
	return domain.Permission{Name: name}
}
