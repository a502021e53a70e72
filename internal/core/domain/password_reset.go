package domain

import "time"

// PasswordResetRequest is the single live reset token of a user.
type PasswordResetRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the request is older than ttl. A zero ttl never expires.
func (r *PasswordResetRequest) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(r.CreatedAt) > ttl
}
