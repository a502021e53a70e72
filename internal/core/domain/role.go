package domain

import "time"

// Protected role names. They can be read but never updated or deleted.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

var protectedRoles = map[string]struct{}{
	RoleUser:      {},
	RoleModerator: {},
	RoleAdmin:     {},
}

// Role groups a set of permissions. PermissionIDs is the stored id-set;
// Permissions is filled in only when a caller resolves it.
type Role struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	PermissionIDs []string     `json:"-"`
	Permissions   []Permission `json:"permissions,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsProtectedRole reports whether name belongs to the read-only system roles.
func IsProtectedRole(name string) bool {
	_, ok := protectedRoles[name]
	return ok
}

// ProtectedRoleNames returns, in request order, every targeted name that is protected.
func ProtectedRoleNames(names []string) []string {
	var hit []string
	for _, n := range UniqueNames(names) {
		if IsProtectedRole(n) {
			hit = append(hit, n)
		}
	}
	return hit
}

// GuardRoleMutation fails with *IllegalOperationError when any target is protected.
func GuardRoleMutation(action string, names ...string) error {
	if hit := ProtectedRoleNames(names); len(hit) > 0 {
		return &IllegalOperationError{Action: action, Names: hit}
	}
	return nil
}
