package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultScopedPrefix namespaces user-scoped cache entries.
const DefaultScopedPrefix = "farmlytic:scoped:"

// ScopedCache stores values under a per-user namespace and tracks the keys in a set
// so everything belonging to one user can be dropped in a single Purge.
type ScopedCache struct {
	client redis.UniversalClient
	prefix string
}

// NewScopedCache creates a Redis-backed ScopedCache. An empty prefix uses DefaultScopedPrefix.
func NewScopedCache(client redis.UniversalClient, prefix string) *ScopedCache {
	if prefix == "" {
		prefix = DefaultScopedPrefix
	}
	return &ScopedCache{client: client, prefix: prefix}
}

func (c *ScopedCache) entryKey(userID, key string) string {
	return c.prefix + userID + ":" + key
}

func (c *ScopedCache) indexKey(userID string) string {
	return c.prefix + userID + ":_keys"
}

// Get returns the cached value for key, with found=false on a miss.
func (c *ScopedCache) Get(ctx context.Context, userID, key string) ([]byte, bool, error) {
	if userID == "" || key == "" {
		return nil, false, errors.New("user ID and key cannot be empty")
	}

	val, err := c.client.Get(ctx, c.entryKey(userID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

// Set stores val for the user. The key index lives at least as long as the entry.
func (c *ScopedCache) Set(ctx context.Context, userID, key string, val []byte, ttl time.Duration) error {
	if userID == "" || key == "" {
		return errors.New("user ID and key cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	entry := c.entryKey(userID, key)
	index := c.indexKey(userID)

	indexTTL := ttl
	if current, err := c.client.TTL(ctx, index).Result(); err == nil && current > indexTTL {
		indexTTL = current
	}

	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, entry, val, ttl)
		p.SAdd(ctx, index, entry)
		p.Expire(ctx, index, indexTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set scoped: %w", err)
	}
	return nil
}

// Purge deletes every entry stored for userID and returns how many existed.
// Purging an unknown user is a no-op.
func (c *ScopedCache) Purge(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}

	index := c.indexKey(userID)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return 0, fmt.Errorf("redis smembers: %w", err)
	}

	if len(keys) == 0 {
		if err := c.client.Del(ctx, index).Err(); err != nil {
			return 0, fmt.Errorf("redis del: %w", err)
		}
		return 0, nil
	}

	removed, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del: %w", err)
	}
	if err := c.client.Del(ctx, index).Err(); err != nil {
		return int(removed), fmt.Errorf("redis del index: %w", err)
	}
	return int(removed), nil
}
