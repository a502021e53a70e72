package ports

import (
	"context"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// UserInput carries the writable fields of a user account.
type UserInput struct {
	FirstName    string
	LastName     string
	Username     string
	Email        string
	Password     string // raw; empty on update keeps the current hash
	Addresses    []string
	PhoneNumbers []string
	RoleName     string // ignored by Register; empty on Update keeps the role
}

// RoleInput carries the writable fields of a role.
type RoleInput struct {
	Name            string
	Description     string
	PermissionNames []string
}

type UserService interface {
	Register(ctx context.Context, in UserInput) (*domain.User, error)
	Update(ctx context.Context, username string, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, usernames []string) error
	List(ctx context.Context) ([]*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Self returns the account of the principal stored on ctx.
	Self(ctx context.Context) (*domain.User, error)
}

type RoleService interface {
	Create(ctx context.Context, in RoleInput) (*domain.Role, error)
	Update(ctx context.Context, name string, in RoleInput) (*domain.Role, error)
	Delete(ctx context.Context, names []string) error
	List(ctx context.Context) ([]*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

type PermissionService interface {
	Create(ctx context.Context, name, description string) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	FindByNames(ctx context.Context, names []string) ([]domain.Permission, error)
}

type ResetService interface {
	RequestReset(ctx context.Context, identifier string) (*domain.PasswordResetRequest, error)
	RequestResetByUsername(ctx context.Context, username string) (*domain.PasswordResetRequest, error)
	RequestResetByEmail(ctx context.Context, email string) (*domain.PasswordResetRequest, error)
	GetRequestByUsername(ctx context.Context, username string) (*domain.PasswordResetRequest, error)
	GetRequestByEmail(ctx context.Context, email string) (*domain.PasswordResetRequest, error)
	CompleteReset(ctx context.Context, token, newPassword string) error
}
