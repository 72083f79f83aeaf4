package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voyage/voyage/internal/model"
)

const (
	// authCachePrefix is the Redis key prefix for auth context cache.
	authCachePrefix = "auth:ctx:"
	// authCacheTTL is the time-to-live for cached auth contexts. Kept
	// short so a deleted account stops resolving quickly.
	authCacheTTL = 5 * time.Minute
)

// CachedAuthContext represents auth context stored in Redis.
type CachedAuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// GetAuthContext retrieves a cached auth context by token digest.
// Returns nil if not found (cache miss).
func (c *Cache) GetAuthContext(ctx context.Context, tokenDigest string) (*model.AuthContext, error) {
	key := authCachePrefix + tokenDigest

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedAuthContext
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.AuthContext{
		UserID: cached.UserID,
		Email:  cached.Email,
	}, nil
}

// SetAuthContext caches an auth context under a token digest.
func (c *Cache) SetAuthContext(ctx context.Context, tokenDigest string, auth *model.AuthContext) error {
	key := authCachePrefix + tokenDigest

	cached := CachedAuthContext{
		UserID: auth.UserID,
		Email:  auth.Email,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}

	return c.client.Set(ctx, key, data, authCacheTTL).Err()
}

// DeleteAuthContext removes a cached auth context.
func (c *Cache) DeleteAuthContext(ctx context.Context, tokenDigest string) error {
	key := authCachePrefix + tokenDigest
	return c.client.Del(ctx, key).Err()
}
