package s0_data

import (
	"sort"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// SeriesStore is the read-only code → Series map of one load cycle
// ⭐ SSOT: 로드된 시계열의 유일한 소유자 (새로고침 시 통째로 교체)
type SeriesStore struct {
	series map[string]contracts.Series
}

// NewSeriesStore snapshots the given map; later changes to m are not seen
func NewSeriesStore(m map[string]contracts.Series) *SeriesStore {
	cp := make(map[string]contracts.Series, len(m))
	for code, s := range m {
		cp[code] = s
	}
	return &SeriesStore{series: cp}
}

// Get returns the series for a code
func (s *SeriesStore) Get(code string) (contracts.Series, bool) {
	if s == nil {
		return contracts.Series{}, false
	}
	series, ok := s.series[code]
	return series, ok
}

// Len returns the number of loaded series
func (s *SeriesStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.series)
}

// Codes returns the loaded codes in sorted order
func (s *SeriesStore) Codes() []string {
	if s == nil {
		return nil
	}
	codes := make([]string, 0, len(s.series))
	for code := range s.series {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
