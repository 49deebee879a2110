package commands

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

func TestLeadersCell(t *testing.T) {
	assert.Equal(t, "-", leadersCell(nil))
	assert.Equal(t, "삼성전자(92), SK하이닉스(88)*", leadersCell([]contracts.LeaderStock{
		{StockCandidate: contracts.StockCandidate{Name: "삼성전자", RSValue: 92}},
		{StockCandidate: contracts.StockCandidate{Name: "SK하이닉스", RSValue: 88}, Reused: true},
	}))
}

func TestMACell(t *testing.T) {
	assert.Equal(t, "-", maCell(contracts.TrendState{ProximityPct: math.MaxFloat64}))
	assert.Equal(t, "▲ 7d", maCell(contracts.TrendState{AboveMA20: true, StreakDays: 7, ProximityPct: 2}))
	assert.Equal(t, "▼ 3d", maCell(contracts.TrendState{StreakDays: 3, ProximityPct: 1}))
}

func TestRenderLeaders(t *testing.T) {
	var buf bytes.Buffer
	err := RenderLeaders(&buf, []contracts.SelectionResult{
		{
			SectorLabel:          "반도체",
			ETFCode:              "091160",
			ETFName:              "KODEX 반도체",
			TrendLabel:           "유지",
			StreakDays:           15,
			ETFSeriesSubstituted: true,
			Stocks: []contracts.LeaderStock{
				{StockCandidate: contracts.StockCandidate{Code: "005930", Name: "삼성전자", RSValue: 92}},
			},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "반도체")
	assert.Contains(t, out, "(대체)")
	assert.Contains(t, out, "삼성전자(92)")
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abcdef01", shortHash("abcdef0123456789"))
	assert.Equal(t, "abc", shortHash("abc"))
}
