package s1_universe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

func TestParseManifestFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     contracts.StockCandidate
		wantErr  bool
	}{
		{
			name:     "standard",
			filename: "005930_삼성전자_+1.5_12.3_KODEX 반도체_반도체와반도체장비_IT_+0.8_유지 +15일_92.csv",
			want: contracts.StockCandidate{
				Code: "005930", Name: "삼성전자", RSValue: 92, LastChangePercent: 1.5, RS1M: 12.3,
				ETFName: "KODEX 반도체", Industry: "반도체와반도체장비", Sector: "IT", PositionText: "유지 +15일",
			},
		},
		{
			name:     "underscore in name",
			filename: "123456_A_B홀딩스_-0.5_3_ETF_ind_sec_0_이탈 -2일_71.csv",
			want: contracts.StockCandidate{
				Code: "123456", Name: "A_B홀딩스", RSValue: 71, LastChangePercent: -0.5, RS1M: 3,
				ETFName: "ETF", Industry: "ind", Sector: "sec", PositionText: "이탈 -2일",
			},
		},
		{
			name:     "directory prefix and numeric fallback",
			filename: "stocks/5930_삼성전자_na_x_ETF_ind_sec_0_pos_88.5.CSV",
			want: contracts.StockCandidate{
				Code: "005930", Name: "삼성전자", RSValue: 89,
				ETFName: "ETF", Industry: "ind", Sector: "sec", PositionText: "pos",
			},
		},
		{name: "too few fields", filename: "005930_삼성전자_1_2.csv", wantErr: true},
		{name: "non numeric rs", filename: "005930_삼성전자_1_2_E_i_s_0_p_abc.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifestFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseManifestFilename_NFDInput(t *testing.T) {
	nfd := norm.NFD.String("005930_삼성전자_0_0_E_i_s_0_p_90.csv")
	got, err := ParseManifestFilename(nfd)
	require.NoError(t, err)
	assert.Equal(t, "삼성전자", got.Name)
}

func TestParseManifest(t *testing.T) {
	data := []byte(`{"files":[
		"005930_삼성전자_0_0_E_i_s_0_p_92.csv",
		"readme.txt",
		"broken.csv",
		"000660_SK하이닉스_0_0_E_i_s_0_p_88.csv"
	]}`)

	u, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Count())
	assert.Equal(t, 2, u.Skipped)

	_, err = ParseManifest([]byte("not json"))
	assert.Error(t, err)
}

func TestParseMetadata(t *testing.T) {
	csv := "종목코드,종목명,업종,RS\n" +
		"5930,삼성전자,반도체,92\n" +
		"000660,SK하이닉스,반도체,87.6\n" +
		"035420,NAVER,인터넷,-\n" +
		",무명,기타,50\n"

	u, err := ParseMetadata("stocks.csv", []byte(csv))
	require.NoError(t, err)
	require.Equal(t, 2, u.Count())
	assert.Equal(t, 2, u.Skipped)

	assert.Equal(t, "005930", u.Stocks[0].Code)
	assert.Equal(t, "반도체", u.Stocks[0].Industry)
	assert.Equal(t, "반도체", u.Stocks[0].Sector)
	assert.Equal(t, 88, u.Stocks[1].RSValue)

	_, err = ParseMetadata("stocks.csv", []byte("종목코드,종목명\n1,a\n"))
	assert.Error(t, err)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestBuilder_ManifestDedupAndFilters(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		s0_data.ManifestFile: `{"files":[
			"005930_삼성전자_0_0_E_i_IT_0_p_92.csv",
			"005930_삼성전자우_0_0_E_i_IT_0_p_80.csv",
			"123450_하나스팩10호_0_0_E_i_금융_0_p_40.csv",
			"000660_SK하이닉스_0_0_E_i_IT_0_p_88.csv"
		]}`,
	})

	b := NewBuilder(s0_data.NewFileFetcher(dir), Config{ExcludeSPAC: true}, logger.Nop())
	u, err := b.Universe(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, u.Count())
	first, ok := u.Find("005930")
	require.True(t, ok)
	assert.Equal(t, "삼성전자", first.Name) // 먼저 나온 항목 우선
	_, ok = u.Find("123450")
	assert.False(t, ok)
}

func TestBuilder_FallsBackToMetadata(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		s0_data.MetadataFile: "종목코드,종목명,업종,RS\n005930,삼성전자,반도체,92\n",
	})

	u, err := NewBuilder(s0_data.NewFileFetcher(dir), Config{}, logger.Nop()).Universe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, u.Count())
}

func TestBuilder_NothingAvailable(t *testing.T) {
	_, err := NewBuilder(s0_data.NewFileFetcher(t.TempDir()), Config{}, logger.Nop()).Universe(context.Background())
	require.Error(t, err)
	assert.True(t, contracts.IsMissingData(err))
}

func TestCheckExclusion(t *testing.T) {
	b := &Builder{config: Config{ExcludeSPAC: true, ExcludeAdmin: true, ExcludeSectors: []string{"금융"}}}

	tests := []struct {
		stock contracts.StockCandidate
		want  string
	}{
		{contracts.StockCandidate{Name: "삼성전자", Sector: "IT"}, ""},
		{contracts.StockCandidate{Name: "미래에셋비전스팩1호"}, "SPAC"},
		{contracts.StockCandidate{Name: "*에이비씨"}, "관리종목"},
		{contracts.StockCandidate{Name: "에이비씨(관리)"}, "관리종목"},
		{contracts.StockCandidate{Name: "에이비씨 [관리]"}, "관리종목"},
		{contracts.StockCandidate{Name: "한국자산관리공사"}, ""},
		{contracts.StockCandidate{Name: "HD현대시설관리"}, ""},
		{contracts.StockCandidate{Name: "KB금융", Industry: "금융"}, "제외 섹터 (금융)"},
	}
	for _, tt := range tests {
		t.Run(tt.stock.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.checkExclusion(tt.stock))
		})
	}
}
