package movies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	cacheVersionKey = "movies:version"
	cacheTagKey     = "movies:cached_keys"
)

// MovieCache is a read-through cache of rendered list pages and movie details.
// Keys embed a version number; Invalidate bumps the version so a reader that
// raced with a write can only ever populate an already retired version. A nil
// *MovieCache is valid and caches nothing.
type MovieCache struct {
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

func NewMovieCache(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *MovieCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MovieCache{rdb: rdb, ttl: ttl, log: log}
}

// Get loads name into dst. The returned version must be passed to Set when
// the caller fills the entry after a miss.
func (c *MovieCache) Get(ctx context.Context, name string, dst any) (int64, bool) {
	if c == nil {
		return 0, false
	}

	version, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Warn("cache version lookup failed")
		return 0, false
	}

	cached, err := c.rdb.Get(ctx, c.key(version, name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("name", name).Warn("cache read failed")
		}
		return version, false
	}
	if err := json.Unmarshal(cached, dst); err != nil {
		c.log.WithError(err).WithField("name", name).Warn("dropping undecodable cache entry")
		return version, false
	}
	return version, true
}

func (c *MovieCache) Set(ctx context.Context, version int64, name string, v any) {
	if c == nil {
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		c.log.WithError(err).WithField("name", name).Warn("cache encode failed")
		return
	}

	key := c.key(version, name)
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, body, c.ttl)
	pipe.SAdd(ctx, cacheTagKey, key)
	pipe.Expire(ctx, cacheTagKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WithError(err).WithField("name", name).Warn("cache write failed")
	}
}

// Invalidate retires every cached entry.
func (c *MovieCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if err := c.rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}

	keys, err := c.rdb.SMembers(ctx, cacheTagKey).Result()
	if err != nil {
		return fmt.Errorf("read cache tag set: %w", err)
	}
	pipe := c.rdb.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
		pipe.SRem(ctx, cacheTagKey, toAny(keys)...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete cached keys: %w", err)
	}
	return nil
}

// Sweep drops tag set members whose entries have already expired and
// returns how many were removed.
func (c *MovieCache) Sweep(ctx context.Context) (int, error) {
	if c == nil {
		return 0, nil
	}

	keys, err := c.rdb.SMembers(ctx, cacheTagKey).Result()
	if err != nil {
		return 0, fmt.Errorf("read cache tag set: %w", err)
	}

	var stale []any
	for _, key := range keys {
		n, err := c.rdb.Exists(ctx, key).Result()
		if err != nil {
			return 0, fmt.Errorf("check cache key %s: %w", key, err)
		}
		if n == 0 {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := c.rdb.SRem(ctx, cacheTagKey, stale...).Err(); err != nil {
		return 0, fmt.Errorf("prune cache tag set: %w", err)
	}
	return len(stale), nil
}

func (c *MovieCache) key(version int64, name string) string {
	return fmt.Sprintf("movies:v%d:%s", version, name)
}

func toAny(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
