package contracts

// StockCandidate is one stock of the leader universe
// ⭐ SSOT: 주도주 후보 종목 정보는 여기서만
type StockCandidate struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	RSValue           int     `json:"rs_value"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	LastChangePercent float64 `json:"last_change_percent"`

	// 파일명 인코딩에서만 제공되는 부가 정보
	RS1M         float64 `json:"rs_1m,omitempty"`
	ETFName      string  `json:"etf_name,omitempty"`
	PositionText string  `json:"position_text,omitempty"`
}

// StockUniverse is the deduplicated candidate list of one load cycle
type StockUniverse struct {
	Stocks  []StockCandidate `json:"stocks"`
	Skipped int              `json:"skipped"` // 파싱 실패로 건너뛴 레코드 수
}

// Count returns the number of candidates
func (u *StockUniverse) Count() int {
	return len(u.Stocks)
}

// Find returns the candidate with the given code
func (u *StockUniverse) Find(code string) (StockCandidate, bool) {
	for _, s := range u.Stocks {
		if s.Code == code {
			return s, true
		}
	}
	return StockCandidate{}, false
}

// DedupByCode keeps the first occurrence of each code, preserving order
func DedupByCode(stocks []StockCandidate) []StockCandidate {
	seen := make(map[string]bool, len(stocks))
	out := make([]StockCandidate, 0, len(stocks))
	for _, s := range stocks {
		if seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		out = append(out, s)
	}
	return out
}
