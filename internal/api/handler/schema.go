package handler

import (
	"time"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type authenticateRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// userRequest is the public signup body. It has no role: new accounts get USER.
type userRequest struct {
	FirstName    string   `json:"first_name"    validate:"required,notblank,min=2,max=30"`
	LastName     string   `json:"last_name"     validate:"required,notblank,min=2,max=30"`
	Username     string   `json:"username"      validate:"required,notblank,min=5,max=30"`
	Email        string   `json:"email"         validate:"required,email,min=5,max=70"`
	Password     string   `json:"password"      validate:"required,min=8,max=255"`
	Addresses    []string `json:"addresses"     validate:"omitempty,dive,notblank,max=255"`
	PhoneNumbers []string `json:"phone_numbers" validate:"omitempty,dive,notblank,max=30"`
}

// updateUserRequest leaves the password optional: an empty one keeps the stored hash.
type updateUserRequest struct {
	FirstName    string   `json:"first_name"    validate:"required,notblank,min=2,max=30"`
	LastName     string   `json:"last_name"     validate:"required,notblank,min=2,max=30"`
	Username     string   `json:"username"      validate:"required,notblank,min=5,max=30"`
	Email        string   `json:"email"         validate:"required,email,min=5,max=70"`
	Password     string   `json:"password"      validate:"omitempty,min=8,max=255"`
	Addresses    []string `json:"addresses"     validate:"omitempty,dive,notblank,max=255"`
	PhoneNumbers []string `json:"phone_numbers" validate:"omitempty,dive,notblank,max=30"`
	Role         string   `json:"role"          validate:"omitempty,min=4,max=50"`
}

type roleRequest struct {
	Name        string   `json:"name"        validate:"required,notblank,min=4,max=50"`
	Description string   `json:"description" validate:"required,notblank,min=5,max=255"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,notblank,min=5,max=50"`
}

type resetRequestBody struct {
	Identifier string `json:"identifier" validate:"omitempty,notblank,max=70"`
}

type completeResetRequest struct {
	Token    string `json:"token"    validate:"required,len=64,hexadecimal"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

// --- Response types ---

type authResponse struct {
	Token       string    `json:"token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	Permissions []string  `json:"permissions"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type resetAcceptedResponse struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type roleListResponse struct {
	Roles []*domain.Role `json:"roles"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
}

type permissionListResponse struct {
	Permissions []domain.Permission `json:"permissions"`
}
