package ports

import (
	"context"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// ResetRequestRepository persists password reset requests, at most one per user.
type ResetRequestRepository interface {
	// ReplaceForUser atomically drops any request of req.UserID and stores req.
	ReplaceForUser(ctx context.Context, req *domain.PasswordResetRequest) (*domain.PasswordResetRequest, error)
	FindByUserID(ctx context.Context, userID string) (*domain.PasswordResetRequest, error)
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetRequest, error)
	// ConsumeByToken deletes and returns the request holding token.
	ConsumeByToken(ctx context.Context, token string) (*domain.PasswordResetRequest, error)
}
