package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/observability"
)

const (
	trendingTagsKey    = "stackit:trending-tags:v1"
	trendingTagsGenKey = "stackit:trending-tags:gen"
)

// Both tag caches are generational. Invalidate starts a new generation, and Set
// only stores a result computed under the generation it names, so a read that
// raced a mutation cannot put the older aggregate back.

// MemoryTagCache keeps trending tags in process.
type MemoryTagCache struct {
	mu   sync.Mutex
	gen  int64
	c    *Cache
	prom *observability.Prom
}

func NewMemoryTagCache(ttl time.Duration, prom *observability.Prom) *MemoryTagCache {
	return &MemoryTagCache{c: New(ttl), prom: prom}
}

func (m *MemoryTagCache) Get(ctx context.Context) ([]models.TagCount, int64, bool, error) {
	m.mu.Lock()
	gen := m.gen
	v, ok := m.c.Get(trendingTagsKey)
	m.mu.Unlock()

	if !ok {
		m.prom.ObserveCache("miss")
		return nil, gen, false, nil
	}
	tags, ok := v.([]models.TagCount)
	if !ok {
		m.prom.ObserveCache("error")
		return nil, gen, false, fmt.Errorf("unexpected cached type %T", v)
	}
	m.prom.ObserveCache("hit")
	return append([]models.TagCount(nil), tags...), gen, true, nil
}

func (m *MemoryTagCache) Set(ctx context.Context, gen int64, tags []models.TagCount, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return nil
	}
	m.c.Set(trendingTagsKey, append([]models.TagCount(nil), tags...), ttl)
	return nil
}

func (m *MemoryTagCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.gen++
	m.c.Delete(trendingTagsKey)
	m.mu.Unlock()
	return nil
}

// RedisTagCache shares trending tags between API replicas. The generation is
// a counter key, bumped with the delete in one MULTI and WATCHed by Set.
type RedisTagCache struct {
	rdb  *redis.Client
	prom *observability.Prom
}

func NewRedisTagCache(rdb *redis.Client, prom *observability.Prom) *RedisTagCache {
	return &RedisTagCache{rdb: rdb, prom: prom}
}

func (r *RedisTagCache) Get(ctx context.Context) ([]models.TagCount, int64, bool, error) {
	vals, err := r.rdb.MGet(ctx, trendingTagsKey, trendingTagsGenKey).Result()
	if err != nil {
		r.prom.ObserveCache("error")
		return nil, 0, false, fmt.Errorf("redis mget %s: %w", trendingTagsKey, err)
	}

	gen, err := parseGen(vals[1])
	if err != nil {
		r.prom.ObserveCache("error")
		return nil, 0, false, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		r.prom.ObserveCache("miss")
		return nil, gen, false, nil
	}

	var tags []models.TagCount
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		r.prom.ObserveCache("error")
		return nil, gen, false, fmt.Errorf("decode trending tags: %w", err)
	}
	r.prom.ObserveCache("hit")
	return tags, gen, true, nil
}

func (r *RedisTagCache) Set(ctx context.Context, gen int64, tags []models.TagCount, ttl time.Duration) error {
	raw, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode trending tags: %w", err)
	}

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, trendingTagsGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, trendingTagsKey, raw, ttl)
			return nil
		})
		return err
	}, trendingTagsGenKey)

	// an invalidation landed between WATCH and EXEC
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set %s: %w", trendingTagsKey, err)
	}
	return nil
}

func (r *RedisTagCache) Invalidate(ctx context.Context) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, trendingTagsGenKey)
		pipe.Del(ctx, trendingTagsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", trendingTagsKey, err)
	}
	return nil
}

func parseGen(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation type %T", v)
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse trending tags generation: %w", err)
	}
	return gen, nil
}
