package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	Reset ResetConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,  default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=identity"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Enabled            bool          `env:"REDIS_ENABLED,        default=false"`
	Addr               string        `env:"REDIS_ADDR,           default=localhost:6379"`
	Password           string        `env:"REDIS_PASSWORD"`
	DB                 int           `env:"REDIS_DB,             default=0"`
	PermissionCacheTTL time.Duration `env:"PERMISSION_CACHE_TTL, default=5m"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST,     default=localhost"`
	Port     string        `env:"SMTP_PORT,     default=587"`
	User     string        `env:"SMTP_USER"`
	Password string        `env:"SMTP_PASS"`
	From     string        `env:"SMTP_FROM,     default=no-reply@localhost"`
	StartTLS bool          `env:"SMTP_STARTTLS, default=true"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT,  default=10s"`
}

type ResetConfig struct {
	LinkBase string        `env:"RESET_LINK_BASE, default=http://localhost:3000/reset-password"`
	TokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l. Tests pass an envconfig.MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.Reset.TokenTTL < 0 {
		return fmt.Errorf("config: RESET_TOKEN_TTL must not be negative")
	}
	return nil
}

// Pretty reports whether logs should be human-friendly console output.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}
