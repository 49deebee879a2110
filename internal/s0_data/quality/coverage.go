package quality

import (
	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// SeriesLookup gives read-only access to loaded series
type SeriesLookup interface {
	Get(code string) (contracts.Series, bool)
}

// Config holds coverage thresholds
type Config struct {
	MinCoverage float64 `yaml:"min_coverage"` // 0.8 = 필요 종목의 80%
	MinCandles  int     `yaml:"min_candles"`  // MA 기간
}

// Report is the series coverage of one run
type Report struct {
	Required int      `json:"required"`
	Usable   int      `json:"usable"`
	Short    []string `json:"short,omitempty"`   // MinCandles 미만
	Missing  []string `json:"missing,omitempty"` // 로드 실패
	Coverage float64  `json:"coverage"`
	Passed   bool     `json:"passed"`
}

// Gate checks whether a run had enough price history to be trusted
// ⭐ SSOT: 시계열 커버리지 판정은 여기서만
type Gate struct {
	config Config
}

// NewGate creates a new coverage gate
func NewGate(config Config) *Gate {
	if config.MinCandles <= 0 {
		config.MinCandles = 20
	}
	return &Gate{config: config}
}

// Check measures coverage of the required codes. An empty requirement
// passes trivially.
func (g *Gate) Check(required []string, store SeriesLookup) Report {
	r := Report{Required: len(required)}
	for _, code := range required {
		s, ok := store.Get(code)
		switch {
		case !ok || s.Empty():
			r.Missing = append(r.Missing, code)
		case s.Len() < g.config.MinCandles:
			r.Short = append(r.Short, code)
		default:
			r.Usable++
		}
	}

	if r.Required == 0 {
		r.Coverage = 1
	} else {
		r.Coverage = float64(r.Usable) / float64(r.Required)
	}
	r.Passed = r.Coverage >= g.config.MinCoverage
	return r
}
