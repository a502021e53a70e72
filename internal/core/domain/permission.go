package domain

import "time"

// Permission is a named capability. Roles reference permissions by ID.
type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Permission names checked by the route policy and granted by seed.
const (
	PermReadAnyUser       = "READ_ANY_USER"
	PermUpdateAnyUser     = "UPDATE_ANY_USER"
	PermDeleteAnyUser     = "DELETE_ANY_USER"
	PermReadAnyRole       = "READ_ANY_ROLE"
	PermCreateAnyRole     = "CREATE_ANY_ROLE"
	PermUpdateAnyRole     = "UPDATE_ANY_ROLE"
	PermDeleteAnyRole     = "DELETE_ANY_ROLE"
	PermReadAnyPermission = "READ_ANY_PERMISSION"
)

// PermissionNames maps entities to their wire form, preserving order.
func PermissionNames(perms []Permission) []string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	return names
}

// PermissionIDs maps entities to the id-set stored on a role.
func PermissionIDs(perms []Permission) []string {
	ids := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	return ids
}

// ResolvePermissionNames matches the requested names against the entities a
// store returned. It yields the matched entities in request order and the
// names that matched nothing. Duplicate requested names collapse.
func ResolvePermissionNames(requested []string, found []Permission) ([]Permission, []string) {
	byName := make(map[string]Permission, len(found))
	for _, p := range found {
		byName[p.Name] = p
	}

	var (
		resolved []Permission
		missing  []string
	)
	for _, name := range UniqueNames(requested) {
		p, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		resolved = append(resolved, p)
	}
	return resolved, missing
}

// UniqueNames drops repeated names, keeping the first occurrence.
func UniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// MissingNames returns the requested names absent from found.
func MissingNames(requested []string, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, n := range found {
		have[n] = struct{}{}
	}
	var missing []string
	for _, n := range UniqueNames(requested) {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
