package di

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	extractionadapters "stock_screener/internal/feature/extraction/adapters"
	"stock_screener/internal/platform/cache"
	"stock_screener/internal/platform/cron"
)

// NewValueStore creates the attribute value store shared by extraction and histograms.
// If Redis is available, value sets are cached until the next scheduled import.
// Otherwise, reads go straight to the database.
func NewValueStore(rdb *redis.Client, db *gorm.DB, schedule cron.Config) cache.ValueStore {
	inner := extractionadapters.NewValueRepository(db)
	if rdb == nil {
		return inner
	}
	return cache.NewCachingValueRepository(rdb, importTTL(schedule), inner, "values")
}

// importTTL returns a TTL that expires cache entries at the next scheduled import,
// evaluated at each write. It returns nil (the cache default) when the schedule is invalid.
func importTTL(schedule cron.Config) cache.TTLFunc {
	loc, err := schedule.Location()
	if err != nil {
		log.Println("[WARN] invalid IMPORT_TIMEZONE; using default cache TTL:", err)
		return nil
	}
	if _, err := cache.TimeUntilNextRun(schedule.Spec, loc, time.Now()); err != nil {
		log.Println("[WARN] invalid IMPORT_CRON; using default cache TTL:", err)
		return nil
	}
	return func(now time.Time) time.Duration {
		ttl, _ := cache.TimeUntilNextRun(schedule.Spec, loc, now)
		return ttl
	}
}
