package ports

import (
	"context"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// UserRepository persists user accounts. Lookups that match nothing return
// a *domain.NotFoundError; uniqueness violations return a *domain.ConflictError.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernames returns the users that exist; callers diff for misses.
	FindByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	CountByRoleIDs(ctx context.Context, roleIDs []string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// RoleRepository persists roles with their permission id-sets.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// Update replaces name, description and permission ids of role.ID in one write.
	Update(ctx context.Context, role *domain.Role) error
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindByNames(ctx context.Context, names []string) ([]*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// PermissionRepository persists permissions.
type PermissionRepository interface {
	Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error)
	FindByNames(ctx context.Context, names []string) ([]domain.Permission, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
}
