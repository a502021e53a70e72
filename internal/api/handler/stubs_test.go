package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type stubAuthService struct {
	authenticateFn func(ctx context.Context, username, password string) (string, *domain.Principal, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) Verify(string) (*domain.Principal, error) {
	return nil, domain.ErrUnauthenticated
}

type stubUserService struct {
	ports.UserService
	registerFn       func(ctx context.Context, in ports.UserInput) (*domain.User, error)
	updateFn         func(ctx context.Context, username string, in ports.UserInput) (*domain.User, error)
	deleteFn         func(ctx context.Context, usernames []string) error
	usernameExistsFn func(ctx context.Context, username string) (bool, error)
	selfFn           func(ctx context.Context) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, username string, in ports.UserInput) (*domain.User, error) {
	return s.updateFn(ctx, username, in)
}

func (s *stubUserService) Delete(ctx context.Context, usernames []string) error {
	return s.deleteFn(ctx, usernames)
}

func (s *stubUserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}

func (s *stubUserService) Self(ctx context.Context) (*domain.User, error) {
	return s.selfFn(ctx)
}

type stubRoleService struct {
	ports.RoleService
	updateFn func(ctx context.Context, name string, in ports.RoleInput) (*domain.Role, error)
	deleteFn func(ctx context.Context, names []string) error
	listFn   func(ctx context.Context) ([]*domain.Role, error)
}

func (s *stubRoleService) Update(ctx context.Context, name string, in ports.RoleInput) (*domain.Role, error) {
	return s.updateFn(ctx, name, in)
}

func (s *stubRoleService) Delete(ctx context.Context, names []string) error {
	return s.deleteFn(ctx, names)
}

func (s *stubRoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.listFn(ctx)
}

type stubResetService struct {
	ports.ResetService
	requestFn           func(ctx context.Context, identifier string) (*domain.PasswordResetRequest, error)
	requestByUsernameFn func(ctx context.Context, username string) (*domain.PasswordResetRequest, error)
	completeFn          func(ctx context.Context, token, password string) error
}

func (s *stubResetService) RequestReset(ctx context.Context, identifier string) (*domain.PasswordResetRequest, error) {
	return s.requestFn(ctx, identifier)
}

func (s *stubResetService) RequestResetByUsername(ctx context.Context, username string) (*domain.PasswordResetRequest, error) {
	return s.requestByUsernameFn(ctx, username)
}

func (s *stubResetService) CompleteReset(ctx context.Context, token, password string) error {
	return s.completeFn(ctx, token, password)
}
