package selection

import (
	"sort"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s2_signals"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// DefaultMinStreakDays is the minimum holding streak for a sector to qualify
const DefaultMinStreakDays = 10

// SeriesLookup gives read-only access to loaded series
type SeriesLookup interface {
	Get(code string) (contracts.Series, bool)
}

// Policy holds the tunable knobs of one ranking run
type Policy struct {
	MinStreakDays int
	MaxLeaders    int
	Reuse         ReusePolicy
	MAPeriod      int
}

// DefaultPolicy returns the built-in policy
func DefaultPolicy() Policy {
	return Policy{
		MinStreakDays: DefaultMinStreakDays,
		MaxLeaders:    DefaultMaxLeaders,
		Reuse:         ReuseOnExhaustion,
		MAPeriod:      s2_signals.DefaultMAPeriod,
	}
}

// SectorPlan is the allocation decided for one qualifying roster entry
type SectorPlan struct {
	Entry      contracts.RosterEntry
	Position   contracts.Position
	Candidates []contracts.StockCandidate
	Reused     bool
}

// PlanStats summarizes one allocation pass
type PlanStats struct {
	RosterSize   int `json:"roster_size"`
	Qualified    int `json:"qualified"`
	Excluded     int `json:"excluded"`
	EmptySectors int `json:"empty_sectors"`
	ReusedSlots  int `json:"reused_slots"`
	Selected     int `json:"selected"`
}

// Engine drives classification, candidate resolution and allocation
// ⭐ SSOT: 섹터 주도주 랭킹 파이프라인은 여기서만
type Engine struct {
	policy     Policy
	classifier *s2_signals.TrendClassifier
	logger     *logger.Logger
}

// NewEngine creates a ranking engine
func NewEngine(policy Policy, log *logger.Logger) *Engine {
	if policy.MaxLeaders <= 0 {
		policy.MaxLeaders = DefaultMaxLeaders
	}
	if policy.Reuse == "" {
		policy.Reuse = ReuseOnExhaustion
	}
	return &Engine{
		policy:     policy,
		classifier: s2_signals.NewTrendClassifier(policy.MAPeriod),
		logger:     log,
	}
}

// Policy returns the effective policy
func (e *Engine) Policy() Policy {
	return e.policy
}

// Classifier exposes the trend classifier used by this engine
func (e *Engine) Classifier() *s2_signals.TrendClassifier {
	return e.classifier
}

// Plan folds over the roster in its natural order. Each qualifying sector is
// resolved against the exclusion sets built by the sectors before it and
// registered before the next one is processed.
func (e *Engine) Plan(roster []contracts.RosterEntry, universe []contracts.StockCandidate) ([]SectorPlan, PlanStats) {
	resolver := NewCandidateResolver(NewNameMatcher(), e.policy.MaxLeaders, e.policy.Reuse)
	allocator := NewSectorAllocator(resolver, e.logger)

	stats := PlanStats{RosterSize: len(roster)}
	plans := make([]SectorPlan, 0, len(roster))

	for _, entry := range roster {
		pos := s2_signals.ParsePosition(entry.PositionText)
		if !s2_signals.Qualifies(pos, e.policy.MinStreakDays) {
			stats.Excluded++
			e.logger.WithFields(map[string]interface{}{
				"sector":   entry.SectorLabel,
				"etf_code": entry.ETFCode,
				"position": entry.PositionText,
			}).Debug("Sector excluded by position filter")
			continue
		}

		res := allocator.Allocate(entry, universe)
		if len(res.Candidates) == 0 {
			stats.EmptySectors++
		}

		plans = append(plans, SectorPlan{
			Entry:      entry,
			Position:   pos,
			Candidates: res.Candidates,
			Reused:     res.Reused,
		})
	}

	stats.Qualified = len(plans)
	stats.ReusedSlots = allocator.ReusedCount()
	stats.Selected = allocator.SelectedCount()
	return plans, stats
}

// RequiredCodes lists every instrument whose series the plans need, ETF
// first then leaders, without duplicates
func RequiredCodes(plans []SectorPlan) []string {
	seen := make(map[string]bool)
	codes := make([]string, 0, len(plans)*3)
	add := func(code string) {
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	}
	for _, p := range plans {
		add(p.Entry.ETFCode)
		for _, c := range p.Candidates {
			add(c.Code)
		}
	}
	return codes
}

// Assemble attaches series and trend state to each plan and orders the
// results by streak (descending, roster order on ties)
func (e *Engine) Assemble(plans []SectorPlan, store SeriesLookup) []contracts.SelectionResult {
	results := make([]contracts.SelectionResult, 0, len(plans))

	for _, p := range plans {
		leaders := make([]contracts.LeaderStock, 0, len(p.Candidates))
		for _, c := range p.Candidates {
			series, ok := store.Get(c.Code)
			if !ok {
				e.logger.WithFields(map[string]interface{}{
					"sector": p.Entry.SectorLabel,
					"code":   c.Code,
				}).Debug("Leader series unavailable")
			}
			leaders = append(leaders, contracts.LeaderStock{
				StockCandidate: c,
				Series:         series,
				Reused:         p.Reused,
			})
		}

		result := contracts.SelectionResult{
			SectorLabel:   p.Entry.SectorLabel,
			ETFName:       p.Entry.ETFName,
			ETFCode:       p.Entry.ETFCode,
			TrendLabel:    p.Position.Label,
			StreakDays:    p.Position.StreakDays,
			ChangePercent: p.Entry.ChangePercent,
			Stocks:        leaders,
		}

		etfSeries, ok := store.Get(p.Entry.ETFCode)
		if ok && etfSeries.Usable() {
			result.ETFSeries = etfSeries
			result.Trend = e.classifier.Classify(etfSeries)
		} else {
			result.Trend = e.classifier.Classify(contracts.Series{})
			if len(leaders) > 0 && leaders[0].Series.Usable() {
				result.ETFSeries = leaders[0].Series
				result.ETFSeriesSubstituted = true
				e.logger.WithFields(map[string]interface{}{
					"sector":   p.Entry.SectorLabel,
					"etf_code": p.Entry.ETFCode,
					"stand_in": leaders[0].Code,
				}).Warn("ETF series missing, substituting first leader series")
			} else {
				e.logger.WithFields(map[string]interface{}{
					"sector":   p.Entry.SectorLabel,
					"etf_code": p.Entry.ETFCode,
				}).Warn("ETF series missing and no leader series to substitute")
			}
		}

		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StreakDays > results[j].StreakDays
	})
	return results
}

// Rank is the pure end-to-end computation over an in-memory snapshot
func (e *Engine) Rank(roster []contracts.RosterEntry, universe []contracts.StockCandidate, store SeriesLookup) []contracts.SelectionResult {
	plans, stats := e.Plan(roster, universe)
	results := e.Assemble(plans, store)

	e.logger.WithFields(map[string]interface{}{
		"roster":        stats.RosterSize,
		"qualified":     stats.Qualified,
		"excluded":      stats.Excluded,
		"empty_sectors": stats.EmptySectors,
		"reused_slots":  stats.ReusedSlots,
	}).Info("Sector leader ranking completed")

	return results
}

// ReversalWatch ranks broken sectors by how close the ETF sits to its MA20.
// 이탈 섹터 중 MA20 회복에 가까운 순 (동률은 로스터 순서)
func (e *Engine) ReversalWatch(roster []contracts.RosterEntry, store SeriesLookup) []contracts.ReversalCandidate {
	out := make([]contracts.ReversalCandidate, 0)
	for _, entry := range roster {
		pos := s2_signals.ParsePosition(entry.PositionText)
		if pos.Kind != contracts.PositionBroken {
			continue
		}
		series, ok := store.Get(entry.ETFCode)
		if !ok || series.Len() < e.classifier.Period() {
			continue
		}
		trend := e.classifier.Classify(series)
		out = append(out, contracts.ReversalCandidate{
			SectorLabel:  entry.SectorLabel,
			ETFName:      entry.ETFName,
			ETFCode:      entry.ETFCode,
			StreakDays:   pos.StreakDays,
			ProximityPct: trend.ProximityPct,
			Trend:        trend,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProximityPct < out[j].ProximityPct
	})
	return out
}
