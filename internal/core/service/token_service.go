package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// ErrMissingSigningKey is returned at construction when no key is configured.
var ErrMissingSigningKey = errors.New("token signing key is not configured")

// Claims is the JWT payload. Permissions carries the principal's grants so
// requests can be authorised without a store round trip.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with a single process-wide key.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat/exp and validation.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &TokenService{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for username carrying the given permission names.
func (s *TokenService) Issue(username string, permissions []string) (string, *domain.Principal, error) {
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)
	if permissions == nil {
		permissions = []string{}
	}

	claims := Claims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", nil, err
	}

	return signed, &domain.Principal{
		Username:    username,
		Permissions: permissions,
		TokenID:     claims.ID,
		IssuedAt:    now,
		ExpiresAt:   exp,
	}, nil
}

// Verify checks signature, algorithm and expiry. Every failure collapses into
// domain.ErrUnauthenticated so callers cannot tell which check failed.
func (s *TokenService) Verify(token string) (*domain.Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	p := &domain.Principal{
		Username:    claims.Subject,
		Permissions: claims.Permissions,
		TokenID:     claims.ID,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	if p.Permissions == nil {
		p.Permissions = []string{}
	}
	return p, nil
}
