package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache provides 2-tier caching: L1 in-memory LRU + L2 Redis.
// L1 is fast but lost on restart. L2 survives restarts.
var detailCache *tieredCache

// Cache hit/miss counters.
var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

type tieredCache struct {
	l1  *expirable.LRU[string, []byte]
	rdb *redis.Client // nil if Redis unavailable
	ttl time.Duration
}

// InitCache sets up the 2-tier cache. Call after Init().
// redisURL can be empty to disable L2.
func InitCache(redisURL string, ttl time.Duration, maxEntries int) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c := &tieredCache{
		l1:  expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
		ttl: ttl,
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	detailCache = c
	slog.Info("cache: initialized", slog.Duration("ttl", ttl), slog.Bool("redis", c.rdb != nil), slog.Int("max_entries", maxEntries))
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("ob:%x", hash[:12])
}

// cacheGet tries L1, then L2. On L2 hit, populates L1.
func cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if detailCache == nil {
		cacheMisses.Add(1)
		return nil, false
	}
	if data, ok := detailCache.l1.Get(key); ok {
		cacheHits.Add(1)
		return data, true
	}
	if detailCache.rdb != nil {
		data, err := detailCache.rdb.Get(ctx, key).Bytes()
		if err == nil {
			slog.Debug("cache: L2 hit", slog.String("key", key))
			cacheHits.Add(1)
			detailCache.l1.Add(key, data)
			return data, true
		}
	}
	cacheMisses.Add(1)
	return nil, false
}

// cacheSet stores data in both L1 and L2.
func cacheSet(ctx context.Context, key string, data []byte) {
	if detailCache == nil {
		return
	}
	detailCache.l1.Add(key, data)
	if detailCache.rdb != nil {
		if err := detailCache.rdb.Set(ctx, key, data, detailCache.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// CacheStats returns current cache hit/miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// CacheLoadJSON tries to load a cached value of type T.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func CacheLoadJSON[T any](ctx context.Context, key string) (T, bool) {
	var out T
	data, ok := cacheGet(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in the cache.
func CacheStoreJSON[T any](ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	cacheSet(ctx, key, data)
}

// CachedDetails wraps a DetailProvider and serves previously resolved ids from the cache.
// Only misses reach the wrapped provider; a fully cached chunk makes no provider call.
type CachedDetails struct {
	Next DetailProvider
}

// FetchDetails implements DetailProvider.
func (c CachedDetails) FetchDetails(ctx context.Context, cred Credential, ids []string) ([]DetailRecord, error) {
	var recs []DetailRecord
	var misses []string
	for _, id := range ids {
		if r, ok := CacheLoadJSON[DetailRecord](ctx, detailKey(id)); ok {
			recs = append(recs, r)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return recs, nil
	}

	fetched, err := c.Next.FetchDetails(ctx, cred, misses)
	if err != nil {
		return nil, err
	}
	for _, r := range fetched {
		CacheStoreJSON(ctx, detailKey(r.ID), r)
	}
	return append(recs, fetched...), nil
}

func detailKey(id string) string {
	return CacheKey("detail", id)
}
