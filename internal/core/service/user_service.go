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

type UserService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	resolver *PermissionResolver
	hasher   domain.PasswordHasher
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	resolver *PermissionResolver,
	hasher domain.PasswordHasher,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, roles: roles, resolver: resolver, hasher: hasher, log: log}
}

// Register creates an unlocked, not yet activated account for a self-service
// signup. The account always gets USER; in.RoleName is ignored.
func (s *UserService) Register(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	in.RoleName = domain.RoleUser
	return s.Provision(ctx, in)
}

// Provision creates an account with in.RoleName, defaulting to USER. It is
// for operator tooling only and is not reachable over HTTP.
func (s *UserService) Provision(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	roleName := in.RoleName
	if roleName == "" {
		roleName = domain.RoleUser
	}
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		Addresses:    nonNil(in.Addresses),
		PhoneNumbers: nonNil(in.PhoneNumbers),
		RoleID:       role.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.SetPassword(s.hasher, in.Password); err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	created.Role = role
	s.log.Info().Str("username", created.Username).Str("role", role.Name).Msg("user registered")
	return created, nil
}

// Update replaces the account fields of username. An empty password keeps the
// current hash and an empty role name keeps the current role.
func (s *UserService) Update(ctx context.Context, username string, in ports.UserInput) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Username = in.Username
	user.Email = in.Email
	user.Addresses = nonNil(in.Addresses)
	user.PhoneNumbers = nonNil(in.PhoneNumbers)
	user.UpdatedAt = time.Now().UTC()

	if in.Password != "" {
		if err := user.SetPassword(s.hasher, in.Password); err != nil {
			return nil, err
		}
	}
	if in.RoleName != "" {
		role, err := s.roles.FindByName(ctx, in.RoleName)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.attachRole(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes every listed account, or none when any username is unknown.
func (s *UserService) Delete(ctx context.Context, usernames []string) error {
	usernames = domain.UniqueNames(usernames)
	if len(usernames) == 0 {
		return fmt.Errorf("%w: no usernames given", domain.ErrInvalidInput)
	}

	found, err := s.users.FindByUsernames(ctx, usernames)
	if err != nil {
		return err
	}
	have := make([]string, 0, len(found))
	ids := make([]string, 0, len(found))
	for _, u := range found {
		have = append(have, u.Username)
		ids = append(ids, u.ID)
	}
	if missing := domain.MissingNames(usernames, have); len(missing) > 0 {
		return domain.NewNotFound("user account", "username", missing...)
	}

	if err := s.users.DeleteByIDs(ctx, ids); err != nil {
		return err
	}
	s.log.Info().Strs("usernames", usernames).Msg("users deleted")
	return nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := s.attachRole(ctx, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.attachRole(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.attachRole(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return exists(s.users.FindByUsername(ctx, username))
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return exists(s.users.FindByEmail(ctx, email))
}

// Self returns the caller's own account.
func (s *UserService) Self(ctx context.Context) (*domain.User, error) {
	p := domain.PrincipalFrom(ctx)
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.FindByUsername(ctx, p.Username)
}

func (s *UserService) attachRole(ctx context.Context, u *domain.User) error {
	role, err := s.roles.FindByID(ctx, u.RoleID)
	if err != nil {
		return fmt.Errorf("load role of %s: %w", u.Username, err)
	}
	if err := s.resolver.Attach(ctx, role); err != nil {
		return err
	}
	u.Role = role
	return nil
}

func exists(_ *domain.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
