package selection

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// "파마리서치 (85)", "파마리서치(85.5)", 전각 괄호 포함
var rsSuffixPattern = regexp.MustCompile(`[(（]\s*[-+]?\d+(?:\.\d+)?\s*[)）]\s*$`)

// Normalize canonicalizes a display name for matching.
// NFC → RS 접미사 제거 → 공백 제거 → 소문자
func Normalize(name string) string {
	s := norm.NFC.String(name)
	s = strings.TrimSpace(s)
	s = rsSuffixPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// NameMatcher resolves free-text names against the stock universe
// ⭐ SSOT: 종목명 퍼지 매칭은 여기서만
//
// Not safe for concurrent use; one matcher per engine run.
type NameMatcher struct {
	normalized map[string]string
}

// NewNameMatcher creates a matcher with an empty normalization memo
func NewNameMatcher() *NameMatcher {
	return &NameMatcher{normalized: make(map[string]string)}
}

// Resolve returns every universe entry whose normalized name contains the
// normalized query or is contained by it. No match yields an empty slice.
func (m *NameMatcher) Resolve(query string, universe []contracts.StockCandidate) []contracts.StockCandidate {
	q := m.normalize(query)
	matches := make([]contracts.StockCandidate, 0)
	if q == "" {
		return matches
	}

	for _, stock := range universe {
		name := m.normalize(stock.Name)
		if name == "" {
			continue
		}
		if strings.Contains(q, name) || strings.Contains(name, q) {
			matches = append(matches, stock)
		}
	}
	return matches
}

func (m *NameMatcher) normalize(name string) string {
	if n, ok := m.normalized[name]; ok {
		return n
	}
	n := Normalize(name)
	m.normalized[name] = n
	return n
}
