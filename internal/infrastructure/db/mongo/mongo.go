package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store bundles the identity repositories sharing one database.
type Store struct {
	db          *mongo.Database
	Users       *UserRepository
	Roles       *RoleRepository
	Permissions *PermissionRepository
	Resets      *ResetRequestRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Roles:       NewRoleRepository(db),
		Permissions: NewPermissionRepository(db),
		Resets:      NewResetRequestRepository(db),
	}
}

// EnsureIndexes creates the unique indexes the identity invariants rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for name, ensure := range map[string]func(context.Context) error{
		usersCollection:       s.Users.EnsureIndexes,
		rolesCollection:       s.Roles.EnsureIndexes,
		permissionsCollection: s.Permissions.EnsureIndexes,
		resetCollection:       s.Resets.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

// Ping checks the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}
