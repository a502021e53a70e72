package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atom-shop/identity-service/internal/core/domain"
)

func TestNewTokenService_RequiresKey(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, issued, err := svc.Issue("alice01", []string{"A_PERM", "B_PERM"})
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice01", got.Username)
	assert.Equal(t, []string{"A_PERM", "B_PERM"}, got.Permissions)
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.NotEmpty(t, got.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestTokenService_EmptyPermissionsSurviveAsEmptySet(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, _, err := svc.Issue("alice01", nil)
	require.NoError(t, err)
	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.NotNil(t, got.Permissions)
	assert.Empty(t, got.Permissions)
}

func TestTokenService_Rejects(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	past := func() time.Time { return time.Now().Add(-3 * time.Hour) }
	stale, err := NewTokenService(testSecret, time.Hour, WithClock(past))
	require.NoError(t, err)
	expired, _, err := stale.Issue("alice01", nil)
	require.NoError(t, err)

	other, err := NewTokenService("another-key", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue("alice01", nil)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice01",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice01"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	valid, _, err := svc.Issue("alice01", []string{"A_PERM"})
	require.NoError(t, err)
	tampered := valid[:len(valid)-2] + "xx"

	tests := map[string]string{
		"expired":        expired,
		"foreign key":    foreign,
		"other hmac alg": hs512,
		"no expiry":      noExpiry,
		"tampered":       tampered,
		"garbage":        "not.a.token",
		"empty":          "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := svc.Verify(token)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
			assert.Equal(t, domain.ErrUnauthenticated, err)
		})
	}
}
