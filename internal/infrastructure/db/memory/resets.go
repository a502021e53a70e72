package memory

import (
	"context"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

type ResetRequestRepository struct{ s *Store }

func (r *ResetRequestRepository) ReplaceForUser(_ context.Context, req *domain.PasswordResetRequest) (*domain.PasswordResetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for uid, existing := range r.s.resets {
		if uid != req.UserID && existing.Token == req.Token {
			return nil, &domain.ConflictError{Entity: "password reset request", Field: "token"}
		}
	}
	c := cloneReset(req)
	c.ID = newID()
	r.s.resets[req.UserID] = c
	return cloneReset(c), nil
}

func (r *ResetRequestRepository) FindByUserID(_ context.Context, userID string) (*domain.PasswordResetRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.resets[userID]
	if !ok {
		return nil, domain.NewNotFound("password reset request", "user id", userID)
	}
	return cloneReset(req), nil
}

func (r *ResetRequestRepository) FindByToken(_ context.Context, token string) (*domain.PasswordResetRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, req := range r.s.resets {
		if req.Token == token {
			return cloneReset(req), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ResetRequestRepository) ConsumeByToken(_ context.Context, token string) (*domain.PasswordResetRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for uid, req := range r.s.resets {
		if req.Token == token {
			delete(r.s.resets, uid)
			return cloneReset(req), nil
		}
	}
	return nil, domain.ErrNotFound
}

// Count reports how many reset requests exist.
func (r *ResetRequestRepository) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.resets)
}
