package api

import (
	"net/http"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/policy"
)

// AccessTable is the route policy of the service. Routes not listed require an
// authenticated caller.
func AccessTable() *policy.Table {
	return policy.NewTable(policy.RequireAuthenticated(),
		// --- Public ---
		policy.Rule{Method: http.MethodPost, Path: "/users/authenticate", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodPost, Path: "/users/add", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodGet, Path: "/users/check", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodPost, Path: "/users/pass-reset-request", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodPost, Path: "/users/pass-reset", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodGet, Path: "/health", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodGet, Path: "/health/ready", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: http.MethodGet, Path: "/metrics", Requirement: policy.AllowAnonymous()},
		policy.Rule{Method: "*", Path: "/swagger/*", Requirement: policy.AllowAnonymous()},

		// --- Authenticated ---
		policy.Rule{Method: http.MethodGet, Path: "/users/me", Requirement: policy.RequireAuthenticated()},

		// --- Users ---
		policy.Rule{Method: http.MethodGet, Path: "/users", Requirement: policy.RequirePermission(domain.PermReadAnyUser)},
		policy.Rule{Method: http.MethodPut, Path: "/users/update", Requirement: policy.RequirePermission(domain.PermUpdateAnyUser)},
		policy.Rule{Method: http.MethodDelete, Path: "/users/remove", Requirement: policy.RequirePermission(domain.PermDeleteAnyUser)},

		// --- Roles ---
		policy.Rule{Method: http.MethodGet, Path: "/users/roles", Requirement: policy.RequirePermission(domain.PermReadAnyRole)},
		policy.Rule{Method: http.MethodPost, Path: "/users/roles/add", Requirement: policy.RequirePermission(domain.PermCreateAnyRole)},
		policy.Rule{Method: http.MethodPut, Path: "/users/roles/update", Requirement: policy.RequirePermission(domain.PermUpdateAnyRole)},
		policy.Rule{Method: http.MethodDelete, Path: "/users/roles/remove", Requirement: policy.RequirePermission(domain.PermDeleteAnyRole)},

		// --- Permissions ---
		policy.Rule{Method: http.MethodGet, Path: "/users/permissions", Requirement: policy.RequirePermission(domain.PermReadAnyPermission)},
	)
}
