// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"stock_screener/internal/domain/entity"
	extractionusecase "stock_screener/internal/feature/extraction/usecase"
	histogramusecase "stock_screener/internal/feature/histogram/usecase"
)

// ValueStore is the attribute value storage the cache decorates.
type ValueStore interface {
	extractionusecase.ValueRepository
	histogramusecase.ValueReader
}

// defaultTTL is used when no TTLFunc is set or it returns a non-positive duration.
const defaultTTL = 5 * time.Minute

// TTLFunc returns the expiry of a cache entry written at now.
type TTLFunc func(now time.Time) time.Duration

// FixedTTL returns a TTLFunc that always yields d.
func FixedTTL(d time.Duration) TTLFunc {
	return func(time.Time) time.Duration { return d }
}

// CachingValueRepository decorates a ValueStore with Redis caching of the
// per-attribute value sets read by histograms. Every Save drops the cached
// set of the attribute it touched.
type CachingValueRepository struct {
	inner     ValueStore
	rdb       *redis.Client
	ttl       TTLFunc
	now       func() time.Time
	namespace string
}

var (
	_ extractionusecase.ValueRepository = (*CachingValueRepository)(nil)
	_ histogramusecase.ValueReader      = (*CachingValueRepository)(nil)
)

// NewCachingValueRepository decorates a ValueStore with Redis caching.
// ttl is evaluated on every cache write; if it is nil or returns 0, entries
// live 5 minutes. If namespace is empty, it uses "values".
func NewCachingValueRepository(rdb *redis.Client, ttl TTLFunc, inner ValueStore, namespace string) *CachingValueRepository {
	if namespace == "" {
		namespace = "values"
	}
	return &CachingValueRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		now:       time.Now,
		namespace: namespace,
	}
}

func (c *CachingValueRepository) FindValue(ctx context.Context, attributeID, companyID uint) (*entity.AttributeValue, error) {
	return c.inner.FindValue(ctx, attributeID, companyID)
}

func (c *CachingValueRepository) LatestHistory(ctx context.Context, attributeValueID uint) (*entity.ValueHistory, error) {
	return c.inner.LatestHistory(ctx, attributeValueID)
}

// Save writes through to the inner store and invalidates the attribute's cached value set.
func (c *CachingValueRepository) Save(ctx context.Context, value *entity.AttributeValue, history *entity.ValueHistory) error {
	if err := c.inner.Save(ctx, value, history); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.cacheKey(value.AttributeID)).Err() // Best effort: don't fail if cache deletion fails
	return nil
}

// ListValues retrieves the attribute's values, checking cache first then falling back to the database.
func (c *CachingValueRepository) ListValues(ctx context.Context, attributeID uint) ([]decimal.Decimal, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListValues(ctx, attributeID)
	}

	key := c.cacheKey(attributeID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []decimal.Decimal
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListValues(ctx, attributeID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.expiry()).Err()
	}

	return out, nil
}

// expiry returns the TTL of an entry written now.
func (c *CachingValueRepository) expiry() time.Duration {
	if c.ttl == nil {
		return defaultTTL
	}
	if d := c.ttl(c.now()); d > 0 {
		return d
	}
	return defaultTTL
}

// cacheKey generates the cache key of one attribute's value set.
func (c *CachingValueRepository) cacheKey(attributeID uint) string {
	return fmt.Sprintf("%s:%d", c.namespace, attributeID)
}
