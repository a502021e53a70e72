// Package policy holds the route access table: for every (method, route
// pattern) pair it names whether the route is public, needs any valid
// principal, or needs one specific permission.
package policy

import (
	"fmt"
	"sort"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

type Access int

const (
	Authenticated Access = iota
	Public
	Permission
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Permission:
		return "permission"
	default:
		return "authenticated"
	}
}

// Requirement is what a route demands of the caller.
type Requirement struct {
	Access     Access
	Permission string
}

func AllowAnonymous() Requirement { return Requirement{Access: Public} }

func RequireAuthenticated() Requirement { return Requirement{Access: Authenticated} }

func RequirePermission(name string) Requirement {
	return Requirement{Access: Permission, Permission: name}
}

func (r Requirement) String() string {
	if r.Access == Permission {
		return "permission:" + r.Permission
	}
	return r.Access.String()
}

// Rule binds a requirement to a route. Method "*" matches any method.
type Rule struct {
	Method string
	Path   string
	Requirement
}

// Table is immutable once built and safe for concurrent use.
type Table struct {
	rules    map[string]Requirement
	fallback Requirement
}

// NewTable indexes rules. Unlisted routes get fallback. A route listed twice
// is a programming error and panics.
func NewTable(fallback Requirement, rules ...Rule) *Table {
	t := &Table{rules: make(map[string]Requirement, len(rules)), fallback: fallback}
	for _, r := range rules {
		k := key(r.Method, r.Path)
		if _, dup := t.rules[k]; dup {
			panic(fmt.Sprintf("policy: duplicate rule for %s", k))
		}
		t.rules[k] = r.Requirement
	}
	return t
}

// Lookup returns the requirement for a route, trying the exact method first.
func (t *Table) Lookup(method, path string) Requirement {
	if req, ok := t.rules[key(method, path)]; ok {
		return req
	}
	if req, ok := t.rules[key("*", path)]; ok {
		return req
	}
	return t.fallback
}

// Authorize decides whether p may call the route. p is nil for anonymous
// callers. The result is nil, domain.ErrUnauthenticated or domain.ErrForbidden.
func (t *Table) Authorize(method, path string, p *domain.Principal) error {
	req := t.Lookup(method, path)
	switch req.Access {
	case Public:
		return nil
	case Permission:
		if p == nil {
			return domain.ErrUnauthenticated
		}
		if !p.HasPermission(req.Permission) {
			return domain.ErrForbidden
		}
		return nil
	default:
		if p == nil {
			return domain.ErrUnauthenticated
		}
		return nil
	}
}

// Rules lists the table sorted by path then method, for audits and docs.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for k, req := range t.rules {
		method, path := splitKey(k)
		out = append(out, Rule{Method: method, Path: path, Requirement: req})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func key(method, path string) string { return method + " " + path }

func splitKey(k string) (string, string) {
	for i := 0; i < len(k); i++ {
		if k[i] == ' ' {
			return k[:i], k[i+1:]
		}
	}
	return k, ""
}
