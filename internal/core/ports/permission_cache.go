package ports

import "context"

// PermissionCache memoises the permission names granted by a role.
type PermissionCache interface {
	Get(ctx context.Context, roleID string) ([]string, bool, error)
	Set(ctx context.Context, roleID string, names []string) error
	Invalidate(ctx context.Context, roleIDs ...string) error
}
