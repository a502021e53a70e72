package domain

import (
	"context"
	"slices"
	"time"
)

// Principal is the authenticated identity attached to a request, built solely
// from token claims.
type Principal struct {
	Username    string    `json:"username"`
	Permissions []string  `json:"permissions"`
	TokenID     string    `json:"-"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (p *Principal) HasPermission(name string) bool {
	return p != nil && slices.Contains(p.Permissions, name)
}

type principalKey struct{}

// WithPrincipal stores p on ctx for services that act on behalf of the caller.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
