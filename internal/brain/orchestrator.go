package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/internal/s0_data/collector"
	"github.com/wonny/sectorlead/backend/internal/s0_data/quality"
	"github.com/wonny/sectorlead/backend/internal/s2_signals"
	"github.com/wonny/sectorlead/backend/internal/selection"
	"github.com/wonny/sectorlead/backend/internal/strategyconfig"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// Orchestrator runs one ranking pass over a fresh data snapshot
// ⭐ SSOT: 로드 → 배분 → 시계열 수집 → 조립 순서는 여기서만
type Orchestrator struct {
	rosterSource   contracts.RosterSource
	universeSource contracts.UniverseSource
	collector      *collector.Collector
	qualityGate    *quality.Gate
	policy         *strategyconfig.Config
	workers        int
	progress       func(done, total int)

	logger *logger.Logger
}

// Sources bundles the inputs of a run
type Sources struct {
	Roster   contracts.RosterSource
	Universe contracts.UniverseSource
	Series   contracts.SeriesSource
}

// RunConfig holds per-run options
type RunConfig struct {
	RunID string
}

// RunResult holds the results of a complete run
type RunResult struct {
	RunID           string                        `json:"run_id"`
	Stamp           strategyconfig.RunStamp       `json:"stamp"`
	Success         bool                          `json:"success"`
	Error           string                        `json:"error,omitempty"`
	CompletedStages []string                      `json:"completed_stages"`
	RosterSize      int                           `json:"roster_size"`
	UniverseSize    int                           `json:"universe_size"`
	Stats           selection.PlanStats           `json:"stats"`
	Coverage        quality.Report                `json:"coverage"`
	Results         []contracts.SelectionResult   `json:"results"`
	Reversal        []contracts.ReversalCandidate `json:"reversal"`
	Duration        time.Duration                 `json:"duration"`
	FinishedAt      time.Time                     `json:"finished_at"`

	store *s0_data.SeriesStore
}

// Store returns the series loaded by this run
func (r *RunResult) Store() *s0_data.SeriesStore {
	return r.store
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(src Sources, policy *strategyconfig.Config, workers int, log *logger.Logger) *Orchestrator {
	if policy == nil {
		policy = strategyconfig.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Orchestrator{
		rosterSource:   src.Roster,
		universeSource: src.Universe,
		collector:      collector.NewCollector(src.Series, log),
		qualityGate:    quality.NewGate(quality.Config{MinCoverage: 0.5, MinCandles: policy.Trend.MAPeriod}),
		policy:         policy,
		workers:        workers,
		logger:         log,
	}
}

// OnProgress registers a callback for series collection progress (CLI 진행 표시)
func (o *Orchestrator) OnProgress(fn func(done, total int)) {
	o.progress = fn
}

// Policy returns the policy this orchestrator runs with
func (o *Orchestrator) Policy() *strategyconfig.Config {
	return o.policy
}

// EnginePolicy converts the YAML policy into engine knobs
func EnginePolicy(cfg *strategyconfig.Config) selection.Policy {
	reuse, err := selection.ParseReusePolicy(cfg.Selection.ReusePolicy)
	if err != nil {
		reuse = selection.ReuseOnExhaustion
	}
	return selection.Policy{
		MinStreakDays: cfg.Filter.MinStreakDays,
		MaxLeaders:    cfg.Selection.MaxLeaders,
		Reuse:         reuse,
		MAPeriod:      cfg.Trend.MAPeriod,
	}
}

// Run executes one ranking pass.
// Only a roster load failure is returned as an error; the result then has
// no selections. Universe and series failures degrade to empty inputs.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()
	log := o.logger.WithRun(config.RunID)
	engine := selection.NewEngine(EnginePolicy(o.policy), log)

	result := &RunResult{
		RunID:           config.RunID,
		CompletedStages: make([]string, 0, 4),
		Results:         []contracts.SelectionResult{},
		Reversal:        []contracts.ReversalCandidate{},
		store:           s0_data.NewSeriesStore(nil),
	}
	if stamp, err := strategyconfig.NewRunStamp(o.policy, startTime); err == nil {
		result.Stamp = stamp
	}

	log.WithFields(map[string]interface{}{
		"policy_id":   result.Stamp.PolicyID,
		"policy_hash": result.Stamp.PolicyHash,
		"workers":     o.workers,
	}).Info("Starting sector leader run")

	// 1. 로스터 (실패 시 전체 중단)
	roster, err := o.rosterSource.Roster(ctx)
	if err != nil {
		log.WithError(err).Error("Roster load failed, run produces no results")
		return o.abort(result, startTime, fmt.Errorf("load roster: %w", err))
	}
	result.RosterSize = len(roster.Entries)
	result.CompletedStages = append(result.CompletedStages, "LOAD_ROSTER")

	// 2. 유니버스 (실패 시 빈 유니버스 → 섹터별 주도주 없음)
	var stocks []contracts.StockCandidate
	universe, err := o.universeSource.Universe(ctx)
	if err != nil {
		log.WithError(err).Warn("Universe load failed, continuing with empty universe")
	} else {
		stocks = universe.Stocks
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return o.abort(result, startTime, fmt.Errorf("load universe: %w", ctxErr))
	}
	result.UniverseSize = len(stocks)
	result.CompletedStages = append(result.CompletedStages, "LOAD_UNIVERSE")

	// 3. 순차 배분 (RESOLVE → REGISTER)
	plans, stats := engine.Plan(roster.Entries, stocks)
	result.Stats = stats
	result.CompletedStages = append(result.CompletedStages, "ALLOCATE")

	// 4. 시계열 동시 수집 (배분 이후이므로 결과에 영향 없음)
	required := selection.RequiredCodes(plans)
	codes := append(append([]string{}, required...), brokenETFCodes(roster.Entries, required)...)
	store, _ := o.collector.Collect(ctx, codes, collector.Config{Workers: o.workers, Progress: o.progress})
	// 취소된 수집은 fetch 실패와 구분 불가 → 부분 결과 폐기
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.WithError(ctxErr).Warn("Run cancelled during series fetch, discarding partial result")
		return o.abort(result, startTime, fmt.Errorf("fetch series: %w", ctxErr))
	}
	result.store = store
	result.Coverage = o.qualityGate.Check(required, store)
	result.CompletedStages = append(result.CompletedStages, "FETCH_SERIES")

	// 5. 조립 (로스터 순서 → 지속일 내림차순)
	result.Results = engine.Assemble(plans, store)
	result.Reversal = engine.ReversalWatch(roster.Entries, store)
	result.CompletedStages = append(result.CompletedStages, "ASSEMBLE")

	result.Success = true
	result.Duration = time.Since(startTime)
	result.FinishedAt = time.Now()

	log.WithFields(map[string]interface{}{
		"roster":        stats.RosterSize,
		"qualified":     stats.Qualified,
		"excluded":      stats.Excluded,
		"empty_sectors": stats.EmptySectors,
		"reused_slots":  stats.ReusedSlots,
		"coverage":      result.Coverage.Coverage,
		"reversal":      len(result.Reversal),
		"duration":      result.Duration.String(),
	}).Info("Sector leader run completed")

	if !result.Coverage.Passed {
		log.WithFields(map[string]interface{}{
			"missing": len(result.Coverage.Missing),
			"short":   len(result.Coverage.Short),
		}).Warn("Series coverage below threshold")
	}

	return result, nil
}

// abort finishes a failed run. Success stays false and no selections are kept.
func (o *Orchestrator) abort(result *RunResult, startTime time.Time, err error) (*RunResult, error) {
	result.Error = err.Error()
	result.Results = []contracts.SelectionResult{}
	result.Reversal = []contracts.ReversalCandidate{}
	result.Duration = time.Since(startTime)
	result.FinishedAt = time.Now()
	return result, err
}

// brokenETFCodes lists ETF codes of broken sectors not already required,
// so ReversalWatch has their series
func brokenETFCodes(entries []contracts.RosterEntry, required []string) []string {
	seen := make(map[string]bool, len(required))
	for _, c := range required {
		seen[c] = true
	}
	var codes []string
	for _, e := range entries {
		if seen[e.ETFCode] || s2_signals.ParsePosition(e.PositionText).Kind != contracts.PositionBroken {
			continue
		}
		seen[e.ETFCode] = true
		codes = append(codes, e.ETFCode)
	}
	return codes
}
