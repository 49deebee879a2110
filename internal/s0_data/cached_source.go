package s0_data

import (
	"context"
	"time"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/pkg/logger"
	"github.com/wonny/sectorlead/backend/pkg/redis"
)

// CachedSeries puts a Redis cache in front of a SeriesSource.
// Cache failures are logged and bypassed; only usable series are stored.
type CachedSeries struct {
	inner  contracts.SeriesSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSeries wraps inner with cache
func NewCachedSeries(inner contracts.SeriesSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSeries {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &CachedSeries{inner: inner, cache: cache, ttl: ttl, logger: log}
}

// Series implements contracts.SeriesSource
func (c *CachedSeries) Series(ctx context.Context, code string) (contracts.Series, error) {
	key := redis.SeriesKey(code)

	var cached contracts.Series
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).WithField("code", code).Warn("Series cache read failed")
	}
	if found && cached.Usable() {
		return cached, nil
	}

	series, err := c.inner.Series(ctx, code)
	if err != nil {
		return series, err
	}

	if series.Usable() {
		if err := c.cache.Set(ctx, key, series, c.ttl); err != nil {
			c.logger.WithError(err).WithField("code", code).Warn("Series cache write failed")
		}
	}
	return series, nil
}
