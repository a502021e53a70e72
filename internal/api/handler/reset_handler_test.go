package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

const secretToken = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestResetHandler_Request_ByIdentifier(t *testing.T) {
	stub := &stubResetService{
		requestFn: func(ctx context.Context, identifier string) (*domain.PasswordResetRequest, error) {
			if identifier != "alice@example.com" {
				t.Fatalf("unexpected identifier: %s", identifier)
			}
			return &domain.PasswordResetRequest{Token: secretToken, CreatedAt: time.Now()}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/users/pass-reset-request", `{"identifier":"alice@example.com"}`)

	if err := NewResetHandler(stub).Request(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), secretToken) {
		t.Fatalf("token leaked in response: %s", rec.Body.String())
	}
}

func TestResetHandler_Request_ByUsernameQuery(t *testing.T) {
	stub := &stubResetService{
		requestByUsernameFn: func(ctx context.Context, username string) (*domain.PasswordResetRequest, error) {
			if username != "alice01" {
				t.Fatalf("unexpected username: %s", username)
			}
			return &domain.PasswordResetRequest{CreatedAt: time.Now()}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/users/pass-reset-request?username=alice01", "")

	if err := NewResetHandler(stub).Request(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestResetHandler_Request_DeliveryFailure(t *testing.T) {
	stub := &stubResetService{
		requestFn: func(ctx context.Context, identifier string) (*domain.PasswordResetRequest, error) {
			return nil, domain.ErrDeliveryFailed
		},
	}
	c, _ := newContext(http.MethodPost, "/users/pass-reset-request", `{"identifier":"alice01"}`)

	err := NewResetHandler(stub).Request(c)
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}

func TestResetHandler_Request_MissingIdentifier(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/users/pass-reset-request", "")

	if err := NewResetHandler(&stubResetService{}).Request(c); err == nil {
		t.Fatalf("expected error without identifier")
	}
}

func TestResetHandler_Complete(t *testing.T) {
	called := false
	stub := &stubResetService{
		completeFn: func(ctx context.Context, token, password string) error {
			called = true
			if token != secretToken || password != "n3w-password" {
				t.Fatalf("unexpected args: %s %s", token, password)
			}
			return nil
		},
	}
	body := `{"token":"` + strings.ToUpper(secretToken) + `","password":"n3w-password"}`
	c, rec := newContext(http.MethodPost, "/users/pass-reset", body)

	if err := NewResetHandler(stub).Complete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 after reset, got %d", rec.Code)
	}
}

func TestResetHandler_Complete_RejectsMalformedToken(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/users/pass-reset", `{"token":"abc","password":"n3w-password"}`)

	err := NewResetHandler(&stubResetService{}).Complete(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
