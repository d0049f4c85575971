package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is the small cache-aside surface the analytics layer needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// RedisCache stores report payloads as JSON values with a TTL.
type RedisCache struct{ client *redis.Client }

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// reportTTL keeps dashboard reports fresh enough while absorbing bursts of
// identical requests.
const reportTTL = 60 * time.Second

// cachedService wraps a Service with a cache-aside layer. A singleflight
// group collapses concurrent recomputes of the same report, so a cold key
// hits the store once. Cache failures fall through to the store and are
// logged, never surfaced.
type cachedService struct {
	inner Service
	cache Cache
	group singleflight.Group
}

// WithCache wraps service with report caching. A nil cache returns the
// service unchanged.
func WithCache(service Service, cache Cache) Service {
	if cache == nil {
		return service
	}
	return &cachedService{inner: service, cache: cache}
}

func (s *cachedService) ProductFacets(ctx context.Context) (*ProductFacets, error) {
	report := &ProductFacets{}
	err := s.cached(ctx, "analytics:product-facets", report, func() (interface{}, error) {
		return s.inner.ProductFacets(ctx)
	})
	return report, err
}

func (s *cachedService) ProductOverview(ctx context.Context, lowStockThreshold int) (*ProductOverview, error) {
	report := &ProductOverview{}
	key := "analytics:product-overview:" + strconv.Itoa(lowStockThreshold)
	err := s.cached(ctx, key, report, func() (interface{}, error) {
		return s.inner.ProductOverview(ctx, lowStockThreshold)
	})
	return report, err
}

func (s *cachedService) Advanced(ctx context.Context, rangeSelector string) (*AdvancedReport, error) {
	report := &AdvancedReport{}
	// Invalid selectors default to 7d, so they share the 7d cache entry.
	key := fmt.Sprintf("analytics:advanced:%dd", RangeToDays(rangeSelector))
	err := s.cached(ctx, key, report, func() (interface{}, error) {
		return s.inner.Advanced(ctx, rangeSelector)
	})
	return report, err
}

func (s *cachedService) Overview(ctx context.Context, rangeSelector string) (*OverviewReport, error) {
	report := &OverviewReport{}
	key := fmt.Sprintf("analytics:overview:%dd", RangeToDays(rangeSelector))
	err := s.cached(ctx, key, report, func() (interface{}, error) {
		return s.inner.Overview(ctx, rangeSelector)
	})
	return report, err
}

func (s *cachedService) cached(ctx context.Context, key string, out interface{}, compute func() (interface{}, error)) error {
	if payload, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("analytics cache get %s: %v", key, err)
	} else if ok {
		if err := json.Unmarshal(payload, out); err == nil {
			return nil
		}
		log.Printf("analytics cache: stale payload for %s", key)
	}

	payload, err, _ := s.group.Do(key, func() (interface{}, error) {
		report, err := compute()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, data, reportTTL); err != nil {
			log.Printf("analytics cache set %s: %v", key, err)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(payload.([]byte), out)
}
