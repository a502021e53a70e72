package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

// AuthService is the credential verifier and token front door.
type AuthService struct {
	users     ports.UserRepository
	resolver  *PermissionResolver
	hasher    domain.PasswordHasher
	tokens    *TokenService
	dummyHash string
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	resolver *PermissionResolver,
	hasher domain.PasswordHasher,
	tokens *TokenService,
	log zerolog.Logger,
) (*AuthService, error) {
	// Compared against when the username is unknown so both paths cost one hash check.
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		resolver:  resolver,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
		log:       log,
	}, nil
}

// Authenticate checks username and password and returns a signed token with
// the principal it encodes. Unknown user, wrong password and locked account
// all yield domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			return "", nil, domain.ErrUnauthenticated
		}
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrUnauthenticated
	}
	if user.Locked {
		s.log.Info().Str("username", user.Username).Msg("login refused for locked account")
		return "", nil, domain.ErrUnauthenticated
	}

	perms, err := s.resolver.RolePermissions(ctx, user.RoleID)
	if err != nil {
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	token, principal, err := s.tokens.Issue(user.Username, perms)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Debug().Str("username", user.Username).Int("permissions", len(perms)).Msg("token issued")
	return token, principal, nil
}

func (s *AuthService) Verify(token string) (*domain.Principal, error) {
	return s.tokens.Verify(token)
}
