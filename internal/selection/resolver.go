package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// ReusePolicy decides what happens when every candidate of a sector is
// already claimed by an earlier sector
type ReusePolicy string

const (
	// ReuseOnExhaustion falls back to the unfiltered top candidates
	ReuseOnExhaustion ReusePolicy = "reuse"
	// StrictDedup leaves the sector without leaders instead
	StrictDedup ReusePolicy = "strict"
)

// ParseReusePolicy validates a policy name
func ParseReusePolicy(s string) (ReusePolicy, error) {
	switch ReusePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case ReuseOnExhaustion, "":
		return ReuseOnExhaustion, nil
	case StrictDedup:
		return StrictDedup, nil
	default:
		return "", fmt.Errorf("unknown reuse policy %q (valid: reuse, strict)", s)
	}
}

// DefaultMaxLeaders is the number of leader stocks shown per sector
const DefaultMaxLeaders = 2

// Resolution is the outcome of resolving one sector's representative names
type Resolution struct {
	Candidates []contracts.StockCandidate
	Reused     bool // 폴백으로 이미 선정된 종목을 재사용함
	PoolSize   int  // 중복 제거 후 전체 매칭 수
}

// CandidateResolver turns a representative-names field into ranked leaders
// ⭐ SSOT: 섹터별 후보 선정 로직은 여기서만
type CandidateResolver struct {
	matcher    *NameMatcher
	maxLeaders int
	policy     ReusePolicy
}

// NewCandidateResolver creates a resolver
func NewCandidateResolver(matcher *NameMatcher, maxLeaders int, policy ReusePolicy) *CandidateResolver {
	if maxLeaders <= 0 {
		maxLeaders = DefaultMaxLeaders
	}
	if policy == "" {
		policy = ReuseOnExhaustion
	}
	return &CandidateResolver{
		matcher:    matcher,
		maxLeaders: maxLeaders,
		policy:     policy,
	}
}

// ResolveCandidates resolves, dedups, sorts by RS and filters out stocks
// already claimed. The caller registers the returned candidates.
func (r *CandidateResolver) ResolveCandidates(
	raw string,
	universe []contracts.StockCandidate,
	selectedCodes map[string]bool,
	selectedNames map[string]bool,
) Resolution {
	// 1-2. 분리 후 매칭 결과 합집합
	var union []contracts.StockCandidate
	for _, query := range SplitNames(raw) {
		union = append(union, r.matcher.Resolve(query, universe)...)
	}

	// 3. 코드 기준 중복 제거 (먼저 나온 것 우선)
	pool := contracts.DedupByCode(union)

	// 4. RS 내림차순 (동점은 매칭 순서 유지)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].RSValue > pool[j].RSValue
	})

	// 5. 이미 선정된 코드/이 섹터에서 선정된 이름 제외
	filtered := make([]contracts.StockCandidate, 0, len(pool))
	for _, s := range pool {
		if selectedCodes[s.Code] || selectedNames[Normalize(s.Name)] {
			continue
		}
		filtered = append(filtered, s)
	}

	// 6. 필터 결과가 없으면 정책에 따라 폴백
	res := Resolution{PoolSize: len(pool)}
	switch {
	case len(filtered) > 0:
		res.Candidates = head(filtered, r.maxLeaders)
	case len(pool) > 0 && r.policy == ReuseOnExhaustion:
		res.Candidates = head(pool, r.maxLeaders)
		res.Reused = true
	default:
		res.Candidates = []contracts.StockCandidate{}
	}
	return res
}

// SplitNames splits a comma-separated representative-names field into
// normalized query names, dropping empty tokens
func SplitNames(raw string) []string {
	raw = strings.ReplaceAll(raw, "，", ",")
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		n := Normalize(p)
		if n == "" {
			continue
		}
		names = append(names, n)
	}
	return names
}

func head(stocks []contracts.StockCandidate, n int) []contracts.StockCandidate {
	if len(stocks) > n {
		stocks = stocks[:n]
	}
	out := make([]contracts.StockCandidate, len(stocks))
	copy(out, stocks)
	return out
}
