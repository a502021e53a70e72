package ports

import (
	"context"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// TokenVerifier turns a bearer token into a principal without any store access.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// AuthService checks credentials and issues tokens.
type AuthService interface {
	TokenVerifier
	Authenticate(ctx context.Context, username, password string) (string, *domain.Principal, error)
}
