package contracts

// RosterEntry is one sector ETF row of the roster
// ⭐ SSOT: 섹터 ETF 로스터 행은 여기서만
type RosterEntry struct {
	ETFCode                string `json:"etf_code"`
	ETFName                string `json:"etf_name"`
	SectorLabel            string `json:"sector_label"`
	RepresentativeNamesRaw string `json:"representative_names_raw"` // "삼성전자 (92), SK하이닉스 (88)"
	PositionText           string `json:"position_text"`            // "유지 +12일" / "이탈 −3일"
	ChangePercentText      string `json:"change_percent_text"`
	ChangeDateText         string `json:"change_date_text,omitempty"` // 변동일

	ChangePercent float64 `json:"change_percent"` // ChangePercentText 파싱 결과, 실패 시 0
}

// Roster is the ordered sector list; order is the allocation order
type Roster struct {
	Entries []RosterEntry `json:"entries"`
	Skipped int           `json:"skipped"`
}

// PositionKind is the MA20 position state encoded in the roster text
type PositionKind string

const (
	PositionHolding PositionKind = "HOLDING" // 유지
	PositionBroken  PositionKind = "BROKEN"  // 이탈
	PositionUnknown PositionKind = "UNKNOWN"
)

// Position is the parsed form of RosterEntry.PositionText
type Position struct {
	Kind       PositionKind `json:"kind"`
	StreakDays int          `json:"streak_days"`
	Label      string       `json:"label"`
}

// IsHolding reports whether the sector is holding above its MA20
func (p Position) IsHolding() bool {
	return p.Kind == PositionHolding
}

// TrendState is the classifier output for one series
type TrendState struct {
	AboveMA20    bool    `json:"above_ma20"`
	StreakDays   int     `json:"streak_days"`
	MA20         float64 `json:"ma20"`
	ProximityPct float64 `json:"proximity_pct"`
}

// LeaderStock is a selected stock together with its own price series
type LeaderStock struct {
	StockCandidate
	Series Series `json:"series"`
	Reused bool   `json:"reused"` // 다른 섹터에 이미 선정된 종목을 폴백으로 재사용
}

// SelectionResult is the per-sector output handed to the chart layer
// ⭐ SSOT: 섹터 주도주 선정 결과는 여기서만 (생성 후 변경 금지)
type SelectionResult struct {
	SectorLabel   string  `json:"sector_label"`
	ETFName       string  `json:"etf_name"`
	ETFCode       string  `json:"etf_code"`
	TrendLabel    string  `json:"trend_label"`
	StreakDays    int     `json:"streak_days"`
	ChangePercent float64 `json:"change_percent"`

	Trend                TrendState    `json:"trend"`
	ETFSeries            Series        `json:"etf_series"`
	ETFSeriesSubstituted bool          `json:"etf_series_substituted"`
	Stocks               []LeaderStock `json:"stocks"`
}

// HasLeaders reports whether at least one leader stock was selected
func (r *SelectionResult) HasLeaders() bool {
	return len(r.Stocks) > 0
}

// Codes returns the selected stock codes in rank order
func (r *SelectionResult) Codes() []string {
	codes := make([]string, len(r.Stocks))
	for i, s := range r.Stocks {
		codes[i] = s.Code
	}
	return codes
}

// ReversalCandidate is a broken sector ranked by distance to its MA20
type ReversalCandidate struct {
	SectorLabel  string     `json:"sector_label"`
	ETFName      string     `json:"etf_name"`
	ETFCode      string     `json:"etf_code"`
	StreakDays   int        `json:"streak_days"`
	ProximityPct float64    `json:"proximity_pct"`
	Trend        TrendState `json:"trend"`
}
