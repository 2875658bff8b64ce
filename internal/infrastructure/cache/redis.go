package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/stayledger-api/internal/config"
	"github.com/sangkips/stayledger-api/pkg/lookup"
	"github.com/sangkips/stayledger-api/pkg/metrics"
)

// LookupKeyFmt is lookup:<entity>:<normalized query>
const LookupKeyFmt = "lookup:%s:%s"

// NewRedisClient connects and pings. It returns nil, without an error, when
// no address is configured; callers treat a nil client as "cache disabled".
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// LookupCache stores typeahead results. All methods are no-ops on a nil
// cache or a nil client.
type LookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLookupCache wraps client. A non-positive ttl defaults to five minutes.
func NewLookupCache(client *redis.Client, ttl time.Duration) *LookupCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LookupCache{client: client, ttl: ttl}
}

func (c *LookupCache) enabled() bool {
	return c != nil && c.client != nil
}

// LookupKey builds the cache key for an entity search.
func LookupKey(entity, query string) string {
	return fmt.Sprintf(LookupKeyFmt, entity, strings.ToLower(strings.TrimSpace(query)))
}

// Get returns cached items for the query if present.
func (c *LookupCache) Get(ctx context.Context, entity, query string) ([]lookup.Item, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, LookupKey(entity, query)).Bytes()
	if err != nil {
		metrics.LookupCache.WithLabelValues(entity, "miss").Inc()
		return nil, false
	}
	var items []lookup.Item
	if err := json.Unmarshal(data, &items); err != nil {
		metrics.LookupCache.WithLabelValues(entity, "miss").Inc()
		return nil, false
	}
	metrics.LookupCache.WithLabelValues(entity, "hit").Inc()
	return items, true
}

// Set caches items for the configured TTL.
func (c *LookupCache) Set(ctx context.Context, entity, query string, items []lookup.Item) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, LookupKey(entity, query), data, c.ttl).Err(); err != nil {
		log.Printf("Warning: lookup cache set failed for %s: %v", entity, err)
	}
}

// Invalidate drops every cached query for the entity.
func (c *LookupCache) Invalidate(ctx context.Context, entity string) {
	if !c.enabled() {
		return
	}
	pattern := fmt.Sprintf(LookupKeyFmt, entity, "*")
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Warning: lookup cache scan failed for %s: %v", entity, err)
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}
