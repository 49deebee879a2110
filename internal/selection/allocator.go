package selection

import (
	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// SectorAllocator assigns leader stocks sector by sector while keeping the
// run-scoped dedup state. Create one per run.
// ⭐ SSOT: 섹터 간 중복 방지 상태는 여기서만 변경
type SectorAllocator struct {
	resolver              *CandidateResolver
	selectedCodes         map[string]bool
	selectedNamesBySector map[string]map[string]bool
	reusedCount           int
	logger                *logger.Logger
}

// NewSectorAllocator creates an allocator with empty dedup state
func NewSectorAllocator(resolver *CandidateResolver, log *logger.Logger) *SectorAllocator {
	return &SectorAllocator{
		resolver:              resolver,
		selectedCodes:         make(map[string]bool),
		selectedNamesBySector: make(map[string]map[string]bool),
		logger:                log,
	}
}

// Allocate resolves one sector against the current exclusion sets and
// commits the chosen stocks before returning (RESOLVE → REGISTER).
func (a *SectorAllocator) Allocate(entry contracts.RosterEntry, universe []contracts.StockCandidate) Resolution {
	names := a.selectedNamesBySector[entry.SectorLabel]
	res := a.resolver.ResolveCandidates(entry.RepresentativeNamesRaw, universe, a.selectedCodes, names)

	if res.Reused {
		a.reusedCount += len(res.Candidates)
		a.logger.WithFields(map[string]interface{}{
			"sector":   entry.SectorLabel,
			"etf_code": entry.ETFCode,
			"pool":     res.PoolSize,
			"codes":    codesOf(res.Candidates),
		}).Warn("Candidate pool exhausted, reusing already selected leaders")
	}
	if len(res.Candidates) == 0 {
		a.logger.WithFields(map[string]interface{}{
			"sector":          entry.SectorLabel,
			"etf_code":        entry.ETFCode,
			"representatives": entry.RepresentativeNamesRaw,
		}).Info("No leader candidate resolved for sector")
	}

	a.register(entry.SectorLabel, res.Candidates)
	return res
}

// register commits selected stocks into the shared exclusion sets
func (a *SectorAllocator) register(sector string, stocks []contracts.StockCandidate) {
	names, ok := a.selectedNamesBySector[sector]
	if !ok {
		names = make(map[string]bool)
		a.selectedNamesBySector[sector] = names
	}
	for _, s := range stocks {
		a.selectedCodes[s.Code] = true
		names[Normalize(s.Name)] = true
	}
}

// IsSelected reports whether a code has been claimed in this run
func (a *SectorAllocator) IsSelected(code string) bool {
	return a.selectedCodes[code]
}

// SelectedCount returns the number of distinct claimed codes
func (a *SectorAllocator) SelectedCount() int {
	return len(a.selectedCodes)
}

// ReusedCount returns how many leader slots were filled by the reuse fallback
func (a *SectorAllocator) ReusedCount() int {
	return a.reusedCount
}

func codesOf(stocks []contracts.StockCandidate) []string {
	codes := make([]string, len(stocks))
	for i, s := range stocks {
		codes[i] = s.Code
	}
	return codes
}
