package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "k",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "identity", cfg.Mongo.Database)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.PermissionCacheTTL)
	assert.True(t, cfg.SMTP.StartTLS)
	assert.True(t, cfg.Pretty())
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "k",
		"TOKEN_TTL":     "15m",
		"STORE_DRIVER":  "memory",
		"REDIS_ENABLED": "true",
		"ENV":           "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Pretty())
}

func TestLoadWith_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "k",
		"STORE_DRIVER": "postgres",
	}))
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
