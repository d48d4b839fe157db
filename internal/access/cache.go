// AngelaMos | 2026
// cache.go

package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techsyncfriends/hub/internal/core"
)

// Cache holds profile snapshots between requests. Entries must be dropped
// whenever the approval flag of that profile changes or its owner signs out.
//
// Every Invalidate bumps a per-identity generation. Set only writes when the
// generation still equals the one read before the store was queried, so a
// snapshot read before an invalidation is never cached after it.
type Cache interface {
	Get(ctx context.Context, userID string) (*Snapshot, bool, error)
	Generation(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, snap *Snapshot, generation int64) error
	Invalidate(ctx context.Context, userID string) error
}

// generationTTL outlives any in-flight store read by a wide margin.
const generationTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func viewerCacheKey(userID string) string {
	return core.RedisKey("viewer", userID)
}

func viewerGenerationKey(userID string) string {
	return core.RedisKey("viewer_gen", userID)
}

func (c *RedisCache) Get(
	ctx context.Context,
	userID string,
) (*Snapshot, bool, error) {
	raw, err := c.client.Get(ctx, viewerCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached viewer: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("decode cached viewer: %w", err)
	}

	return &snap, true, nil
}

func (c *RedisCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := readGeneration(ctx, c.client, userID)
	if err != nil {
		return 0, fmt.Errorf("get viewer generation: %w", err)
	}
	return gen, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd stringGetter, userID string) (int64, error) {
	gen, err := cmd.Get(ctx, viewerGenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set caches snap unless the identity was invalidated since generation
// was read. A lost race is not an error; the entry is simply not written.
func (c *RedisCache) Set(ctx context.Context, snap *Snapshot, generation int64) error {
	if c.ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode viewer: %w", err)
	}

	genKey := viewerGenerationKey(snap.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, snap.ID)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, viewerCacheKey(snap.ID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache viewer: %w", err)
	}

	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	genKey := viewerGenerationKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, viewerCacheKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate viewer: %w", err)
	}
	return nil
}

// NoCache always misses. Every request then reads the profile store.
type NoCache struct{}

func (NoCache) Get(context.Context, string) (*Snapshot, bool, error) {
	return nil, false, nil
}

func (NoCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (NoCache) Set(context.Context, *Snapshot, int64) error { return nil }

func (NoCache) Invalidate(context.Context, string) error { return nil }
