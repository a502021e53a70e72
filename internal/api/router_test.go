package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/core/service"
	"github.com/atom-shop/identity-service/internal/infrastructure/db/memory"
	"github.com/atom-shop/identity-service/internal/infrastructure/http/handlers"
)

type outbox struct {
	bodies []string
}

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.bodies = append(o.bodies, body)
	return nil
}

type server struct {
	e    *echo.Echo
	mail *outbox
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	store := memory.New()

	_, err := service.NewSeeder(store.Permissions(), store.Roles(), log).Run(ctx)
	require.NoError(t, err)

	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := service.NewTokenService("router-test-key", time.Hour)
	require.NoError(t, err)
	resolver := service.NewPermissionResolver(store.Roles(), store.Permissions(), nil, log)
	auth, err := service.NewAuthService(store.Users(), resolver, hasher, tokens, log)
	require.NoError(t, err)
	users := service.NewUserService(store.Users(), store.Roles(), resolver, hasher, log)

	_, err = users.Provision(ctx, ports.UserInput{
		FirstName: "Root", LastName: "Admin", Username: "root0001",
		Email: "root@example.com", Password: "r00t-password", RoleName: domain.RoleAdmin,
	})
	require.NoError(t, err)

	mail := &outbox{}
	e := NewRouter(Deps{
		Auth:        auth,
		Users:       users,
		Roles:       service.NewRoleService(store.Roles(), store.Users(), resolver, log),
		Permissions: service.NewPermissionService(store.Permissions(), resolver),
		Resets: service.NewResetService(store.Users(), store.Resets(), mail, hasher,
			service.ResetConfig{LinkBase: "https://shop.test/reset", TokenTTL: time.Hour}, log),
		Readiness: map[string]handlers.Pinger{"store": store},
		Metrics:   prometheus.NewRegistry(),
		Log:       log,
	})
	return &server{e: e, mail: mail}
}

func (s *server) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users/authenticate", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

const aliceBody = `{"first_name":"Alice","last_name":"Liddell","username":"alice01",` +
	`"email":"alice@example.com","password":"alice-pass"%s}`

func TestRouter_StaleTokenKeepsOldPermissions(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "root0001", "r00t-password")

	rec := s.do(t, http.MethodPost, "/users/add", "", strings.Replace(aliceBody, "%s", "", 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/users/roles/add", admin,
		`{"name":"TEMP","description":"temporary role","permissions":["READ_ANY_USER"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	oldToken := s.login(t, "alice01", "alice-pass")
	rec = s.do(t, http.MethodDelete, "/users/roles/remove?names=TEMP", oldToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/users/update?username=alice01", admin,
		strings.Replace(aliceBody, "%s", `,"role":"ADMIN"`, 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/users/roles/remove?names=TEMP", oldToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "token issued before the role change keeps its claims")

	freshToken := s.login(t, "alice01", "alice-pass")
	rec = s.do(t, http.MethodDelete, "/users/roles/remove?names=TEMP", freshToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/users/roles/remove?names=TEMP", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestRouter_AnonymousRegisterCannotPickRole(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/users/add", "", strings.Replace(aliceBody, "%s", `,"role":"ADMIN"`, 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Role struct {
			Name string `json:"name"`
		} `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.RoleUser, created.Role.Name)

	token := s.login(t, "alice01", "alice-pass")
	rec = s.do(t, http.MethodDelete, "/users/remove?usernames=root0001", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodGet, "/users", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := s.login(t, "root0001", "r00t-password")
	rec = s.do(t, http.MethodGet, "/users?username=root0001", admin, "")
	assert.Equal(t, http.StatusOK, rec.Code, "seeded admin must survive")
}

func TestRouter_ProtectedRolesAreReadOnly(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "root0001", "r00t-password")

	rec := s.do(t, http.MethodDelete, "/users/roles/remove?names=USER,ADMIN", admin, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot remove read-only user roles with names: 'USER', 'ADMIN'")

	rec = s.do(t, http.MethodGet, "/users/roles?name=ADMIN", admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownPermissionsAreListed(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "root0001", "r00t-password")

	rec := s.do(t, http.MethodPost, "/users/roles/add", admin,
		`{"name":"TEMP","description":"temporary role","permissions":["READ_ANY_USER","FLY_ANY_PLANE","SWIM_ANY_SEA"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "'FLY_ANY_PLANE', 'SWIM_ANY_SEA'")
}

func TestRouter_PasswordResetFlow(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/users/add", "", strings.Replace(aliceBody, "%s", "", 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/users/pass-reset-request", "", `{"identifier":"alice@example.com"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, s.mail.bodies, 1)

	body := s.mail.bodies[0]
	i := strings.Index(body, "?token=")
	require.GreaterOrEqual(t, i, 0)
	token := body[i+len("?token=") : i+len("?token=")+64]
	assert.NotContains(t, rec.Body.String(), token)

	rec = s.do(t, http.MethodPost, "/users/pass-reset", "", `{"token":"`+token+`","password":"brand-new-pass"}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	s.login(t, "alice01", "brand-new-pass")

	rec = s.do(t, http.MethodPost, "/users/pass-reset", "", `{"token":"`+token+`","password":"another-pass"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, "a consumed token cannot be replayed")
}

func TestRouter_PublicAndOperationalRoutes(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/metrics", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/users/check?username=root0001", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", "not-a-token", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users", "", "").Code)
}

func TestAccessTable_CoversEveryRoute(t *testing.T) {
	s := newServer(t)
	table := AccessTable()

	listed := map[string]bool{}
	for _, r := range table.Rules() {
		listed[r.Method+" "+r.Path] = true
		listed["* "+r.Path] = listed["* "+r.Path] || r.Method == "*"
	}
	for _, r := range s.e.Routes() {
		if listed[r.Method+" "+r.Path] || listed["* "+r.Path] {
			continue
		}
		t.Errorf("route %s %s has no explicit access rule", r.Method, r.Path)
	}
}
