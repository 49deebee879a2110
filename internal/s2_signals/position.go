package s2_signals

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

var (
	// 부호(+, -, − U+2212)가 붙은 정수가 지속일
	signedPattern = regexp.MustCompile(`[+\-−]\s*(\d+)`)
	numberPattern = regexp.MustCompile(`\d+`)
)

var (
	holdingKeywords = []string{"유지", "holding", "hold"}
	brokenKeywords  = []string{"이탈", "broken", "break"}
)

// ParsePosition parses roster position text such as "유지 +12일" or "이탈 −3일"
func ParsePosition(text string) contracts.Position {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	pos := contracts.Position{Kind: contracts.PositionUnknown}

	// 이탈을 먼저 검사: "유지 이탈" 같은 혼합 문구는 이탈로 본다
	keywordEnd := -1
	if end := keywordIndex(lower, brokenKeywords); end >= 0 {
		pos.Kind = contracts.PositionBroken
		pos.Label = "이탈"
		keywordEnd = end
	} else if end := keywordIndex(lower, holdingKeywords); end >= 0 {
		pos.Kind = contracts.PositionHolding
		pos.Label = "유지"
		keywordEnd = end
	}

	pos.StreakDays = parseStreak(lower, keywordEnd)
	return pos
}

// parseStreak picks the signed integer first, then the first integer after
// the state keyword, then any integer ("20일선 유지 12일" → 12)
func parseStreak(text string, keywordEnd int) int {
	var digits string
	if m := signedPattern.FindStringSubmatch(text); m != nil {
		digits = m[1]
	} else if keywordEnd >= 0 {
		digits = numberPattern.FindString(text[keywordEnd:])
	}
	if digits == "" {
		digits = numberPattern.FindString(text)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// Qualifies reports whether a sector enters the leader pipeline
func Qualifies(pos contracts.Position, minStreakDays int) bool {
	return pos.IsHolding() && pos.StreakDays >= minStreakDays
}

// keywordIndex returns the end offset of the first keyword found, -1 if none
func keywordIndex(s string, keywords []string) int {
	for _, k := range keywords {
		if i := strings.Index(s, k); i >= 0 {
			return i + len(k)
		}
	}
	return -1
}
