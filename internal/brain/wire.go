package brain

import (
	"context"
	"fmt"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/external/naver"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/internal/s1_universe"
	"github.com/wonny/sectorlead/backend/internal/strategyconfig"
	"github.com/wonny/sectorlead/backend/pkg/config"
	"github.com/wonny/sectorlead/backend/pkg/database"
	"github.com/wonny/sectorlead/backend/pkg/httputil"
	"github.com/wonny/sectorlead/backend/pkg/logger"
	"github.com/wonny/sectorlead/backend/pkg/redis"
)

// App is the fully wired engine plus the resources it owns
type App struct {
	Service      *Service
	Orchestrator *Orchestrator
	Series       contracts.SeriesSource
	Policy       *strategyconfig.Config

	closers []func()
}

// Close releases database and redis connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// UniverseConfig converts the policy's universe section
func UniverseConfig(cfg *strategyconfig.Config) s1_universe.Config {
	return s1_universe.Config{
		ExcludeSPAC:    cfg.Universe.ExcludeSPAC,
		ExcludeAdmin:   cfg.Universe.ExcludeAdmin,
		ExcludeSectors: cfg.Universe.ExcludeSectors,
	}
}

// Build wires sources, caches and the fallback chain from configuration
// ⭐ SSOT: DATA_SOURCE 별 소스 조립은 여기서만
func Build(ctx context.Context, cfg *config.Config, policy *strategyconfig.Config, log *logger.Logger) (*App, error) {
	if policy == nil {
		policy = strategyconfig.Default()
	}
	app := &App{Policy: policy}

	httpClient := httputil.New(log, cfg.Data.HTTPTimeout, cfg.Data.HTTPRateLimit)

	var src Sources
	switch cfg.Data.Source {
	case config.SourceFile, config.SourceHTTP:
		var fetcher s0_data.Fetcher
		if cfg.Data.Source == config.SourceFile {
			fetcher = s0_data.NewFileFetcher(cfg.Data.Dir)
		} else {
			fetcher = s0_data.NewHTTPFetcher(cfg.Data.BaseURL, httpClient)
		}
		csvSource := s0_data.NewCSVSource(fetcher, log)
		src = Sources{
			Roster:   csvSource,
			Universe: s1_universe.NewBuilder(fetcher, UniverseConfig(policy), log),
			Series:   csvSource,
		}
		log.WithField("location", fetcher.Describe()).Info("Using CSV data source")

	case config.SourcePostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		pg := s0_data.NewPostgresSource(db.Pool, policy.Fetch.DBLookbackRows)
		src = Sources{Roster: pg, Universe: pg, Series: pg}
		log.Info("Using postgres data source")

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	if cfg.Redis.Enabled {
		rc, err := redis.New(cfg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.closers = append(app.closers, func() { _ = rc.Close() })
		src.Series = s0_data.NewCachedSeries(src.Series, redis.NewCache(rc, "sectorlead"), cfg.Redis.TTL, log)
		log.WithField("ttl", cfg.Redis.TTL.String()).Info("Series cache enabled")
	}

	if cfg.Naver.FallbackEnabled {
		client := naver.NewClient(httpClient, cfg.Naver.BaseURL, log)
		src.Series = s0_data.NewChainSeries(src.Series, naver.NewPriceSource(client, policy.Fetch.NaverLookbackDays))
		log.Info("Naver chart fallback enabled")
	}

	app.Series = src.Series
	app.Orchestrator = NewOrchestrator(src, policy, cfg.Data.FetchConcurrency, log)
	app.Service = NewService(app.Orchestrator, log)
	return app, nil
}
