package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

func TestAuthHandler_Authenticate_Success(t *testing.T) {
	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (string, *domain.Principal, error) {
			if username != "alice01" || password != "s3cret-pass" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.Principal{
				Username:    username,
				Permissions: []string{domain.PermReadAnyRole},
				ExpiresAt:   expires,
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/users/authenticate", `{"username":"alice01","password":"s3cret-pass"}`)

	if err := NewAuthHandler(stub).Authenticate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.TokenType != "Bearer" || resp.Username != "alice01" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiry %v, got %v", expires, resp.ExpiresAt)
	}
	if len(resp.Permissions) != 1 || resp.Permissions[0] != domain.PermReadAnyRole {
		t.Fatalf("unexpected permissions: %v", resp.Permissions)
	}
}

func TestAuthHandler_Authenticate_Rejected(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (string, *domain.Principal, error) {
			return "", nil, domain.ErrUnauthenticated
		},
	}
	c, _ := newContext(http.MethodPost, "/users/authenticate", `{"username":"alice01","password":"wrong"}`)

	err := NewAuthHandler(stub).Authenticate(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_Authenticate_MissingUsername(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (string, *domain.Principal, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/users/authenticate", `{"password":"secret"}`)

	err := NewAuthHandler(stub).Authenticate(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
