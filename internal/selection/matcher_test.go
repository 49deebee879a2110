package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rs suffix", "파마리서치 (85)", "파마리서치"},
		{"decimal rs", "파마리서치(85.5)", "파마리서치"},
		{"fullwidth paren", "삼성전자（92）", "삼성전자"},
		{"inner spaces", " SK 하이닉스 ", "sk하이닉스"},
		{"nfd input", "삼성", "삼성"},
		{"keeps non-suffix parens", "(주)한화 우", "(주)한화우"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNameMatcher_Resolve(t *testing.T) {
	universe := []contracts.StockCandidate{
		{Code: "005930", Name: "삼성전자", RSValue: 92},
		{Code: "005935", Name: "삼성전자우", RSValue: 80},
		{Code: "000660", Name: "SK하이닉스", RSValue: 88},
		{Code: "214450", Name: "파마리서치", RSValue: 85},
	}
	m := NewNameMatcher()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"exact and containing", "삼성전자", []string{"005930", "005935"}},
		{"query contains name", "SK하이닉스 (88)", []string{"000660"}},
		{"case insensitive", "sk하이닉스", []string{"000660"}},
		{"no match", "카카오", []string{}},
		{"empty query", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(tt.query, universe)
			codes := make([]string, 0, len(got))
			for _, s := range got {
				codes = append(codes, s.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}
