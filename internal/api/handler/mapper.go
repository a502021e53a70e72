package handler

import (
	"strings"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

// --- Request → Service input ---

func toUserInput(req userRequest) ports.UserInput {
	return ports.UserInput{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Password:     req.Password,
		Addresses:    req.Addresses,
		PhoneNumbers: req.PhoneNumbers,
	}
}

func toUserUpdateInput(req updateUserRequest) ports.UserInput {
	return ports.UserInput{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Password:     req.Password,
		Addresses:    req.Addresses,
		PhoneNumbers: req.PhoneNumbers,
		RoleName:     strings.TrimSpace(req.Role),
	}
}

func toRoleInput(req roleRequest) ports.RoleInput {
	return ports.RoleInput{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		PermissionNames: req.Permissions,
	}
}

// --- Domain → Response ---

func toAuthResponse(token string, p *domain.Principal) authResponse {
	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}
	return authResponse{
		Token:       token,
		TokenType:   "Bearer",
		ExpiresAt:   p.ExpiresAt,
		Username:    p.Username,
		Permissions: perms,
	}
}
