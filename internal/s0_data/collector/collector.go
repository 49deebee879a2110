package collector

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// Collector fetches the series a ranking run needs
// ⭐ SSOT: 시계열 동시 수집은 이 패키지에서만
type Collector struct {
	source contracts.SeriesSource
	logger *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers  int                   // 동시 요청 수
	Progress func(done, total int) // 선택: 완료 건수 콜백 (직렬 호출)
}

// NewCollector creates a new Collector instance
func NewCollector(source contracts.SeriesSource, log *logger.Logger) *Collector {
	return &Collector{
		source: source,
		logger: log.WithField("module", "collector"),
	}
}

// FetchResult represents the result of one series fetch
type FetchResult struct {
	Code    string
	Candles int
	Error   error
}

// Collect fetches every code concurrently and returns an immutable store.
// Individual failures are recorded in the results and never abort the
// batch; only ctx cancellation stops it early.
func (c *Collector) Collect(ctx context.Context, codes []string, cfg Config) (*s0_data.SeriesStore, []FetchResult) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()
	c.logger.WithFields(map[string]interface{}{
		"codes":   len(codes),
		"workers": workers,
	}).Info("Starting series collection")

	var mu sync.Mutex
	done := 0
	loaded := make(map[string]contracts.Series, len(codes))
	results := make([]FetchResult, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, code := range codes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FetchResult{Code: code, Error: err}
				return nil
			}

			series, err := c.source.Series(gctx, code)
			results[i] = FetchResult{Code: code, Candles: series.Len(), Error: err}
			if err != nil {
				c.logger.WithError(err).WithField("code", code).Debug("Series fetch failed")
			}

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				loaded[code] = series
			}
			done++
			if cfg.Progress != nil {
				cfg.Progress(done, len(codes))
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success":  len(loaded),
		"failed":   failed,
		"total":    len(codes),
		"duration": time.Since(start).String(),
	}).Info("Series collection completed")

	return s0_data.NewSeriesStore(loaded), results
}
