package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

func testUniverse() []contracts.StockCandidate {
	return []contracts.StockCandidate{
		{Code: "000660", Name: "SK하이닉스", RSValue: 88},
		{Code: "005930", Name: "삼성전자", RSValue: 92},
		{Code: "042700", Name: "한미반도체", RSValue: 95},
		{Code: "214450", Name: "파마리서치", RSValue: 85},
	}
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"삼성전자", "sk하이닉스"}, SplitNames("삼성전자 (92), SK하이닉스 (88)"))
	assert.Equal(t, []string{"a", "b"}, SplitNames("a，, b ,"))
	assert.Empty(t, SplitNames(""))
}

func TestParseReusePolicy(t *testing.T) {
	p, err := ParseReusePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ReuseOnExhaustion, p)

	p, err = ParseReusePolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, StrictDedup, p)

	_, err = ParseReusePolicy("never")
	assert.Error(t, err)
}

func TestCandidateResolver_ResolveCandidates(t *testing.T) {
	universe := testUniverse()

	tests := []struct {
		name          string
		raw           string
		policy        ReusePolicy
		selectedCodes map[string]bool
		selectedNames map[string]bool
		wantCodes     []string
		wantReused    bool
		wantPool      int
	}{
		{
			name:      "sorted by rs",
			raw:       "SK하이닉스 (88), 삼성전자 (92)",
			policy:    ReuseOnExhaustion,
			wantCodes: []string{"005930", "000660"},
			wantPool:  2,
		},
		{
			name:      "capped at max leaders",
			raw:       "SK하이닉스, 삼성전자, 한미반도체",
			policy:    ReuseOnExhaustion,
			wantCodes: []string{"042700", "005930"},
			wantPool:  3,
		},
		{
			name:          "claimed code skipped",
			raw:           "삼성전자, SK하이닉스",
			policy:        ReuseOnExhaustion,
			selectedCodes: map[string]bool{"005930": true},
			wantCodes:     []string{"000660"},
			wantPool:      2,
		},
		{
			name:          "claimed name in sector skipped",
			raw:           "삼성전자, SK하이닉스",
			policy:        ReuseOnExhaustion,
			selectedNames: map[string]bool{"sk하이닉스": true},
			wantCodes:     []string{"005930"},
			wantPool:      2,
		},
		{
			name:          "exhausted pool reused",
			raw:           "삼성전자",
			policy:        ReuseOnExhaustion,
			selectedCodes: map[string]bool{"005930": true},
			wantCodes:     []string{"005930"},
			wantReused:    true,
			wantPool:      1,
		},
		{
			name:          "exhausted pool strict",
			raw:           "삼성전자",
			policy:        StrictDedup,
			selectedCodes: map[string]bool{"005930": true},
			wantCodes:     []string{},
			wantPool:      1,
		},
		{
			name:      "duplicate mentions deduped",
			raw:       "삼성전자, 삼성전자 (92)",
			policy:    ReuseOnExhaustion,
			wantCodes: []string{"005930"},
			wantPool:  1,
		},
		{
			name:      "no match",
			raw:       "카카오",
			policy:    ReuseOnExhaustion,
			wantCodes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCandidateResolver(NewNameMatcher(), 2, tt.policy)
			res := r.ResolveCandidates(tt.raw, universe, tt.selectedCodes, tt.selectedNames)

			codes := make([]string, 0, len(res.Candidates))
			for _, c := range res.Candidates {
				codes = append(codes, c.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
			assert.Equal(t, tt.wantReused, res.Reused)
			assert.Equal(t, tt.wantPool, res.PoolSize)
		})
	}
}

func TestCandidateResolver_StableTies(t *testing.T) {
	universe := []contracts.StockCandidate{
		{Code: "000001", Name: "가나", RSValue: 80},
		{Code: "000002", Name: "다라", RSValue: 80},
	}
	r := NewCandidateResolver(NewNameMatcher(), 2, ReuseOnExhaustion)

	res := r.ResolveCandidates("다라, 가나", universe, nil, nil)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "000002", res.Candidates[0].Code)
	assert.Equal(t, "000001", res.Candidates[1].Code)
}
