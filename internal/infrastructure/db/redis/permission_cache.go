package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atom-shop/identity-service/internal/metrics"
)

const defaultPermissionTTL = 5 * time.Minute

// PermissionCache stores the permission names of a role as JSON.
// Key format: perm:role:<role_id>
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPermissionCache wraps client. ttl <= 0 uses defaultPermissionTTL.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = defaultPermissionTTL
	}
	return &PermissionCache{client: client, ttl: ttl}
}

// Get reports ok=false on a miss.
func (c *PermissionCache) Get(ctx context.Context, roleID string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(roleID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.PermissionCacheLookupsTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		metrics.PermissionCacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("permission cache get: %w", err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		metrics.PermissionCacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("permission cache decode: %w", err)
	}
	metrics.PermissionCacheLookupsTotal.WithLabelValues("hit").Inc()
	return names, true, nil
}

func (c *PermissionCache) Set(ctx context.Context, roleID string, names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("permission cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(roleID), raw, c.ttl).Err()
}

func (c *PermissionCache) Invalidate(ctx context.Context, roleIDs ...string) error {
	if len(roleIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		keys = append(keys, c.key(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *PermissionCache) key(roleID string) string {
	return "perm:role:" + roleID
}
