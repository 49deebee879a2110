package s1_universe

import (
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
)

var (
	colCode     = []string{"종목코드", "코드", "code"}
	colName     = []string{"종목명", "name"}
	colIndustry = []string{"업종", "industry"}
	colSector   = []string{"섹터", "sector"}
	colRS       = []string{"rs", "rs_value", "rs점수"}
	colChange   = []string{"등락률", "change", "change_percent"}
)

// ParseMetadata parses the combined stock table (종목코드, 종목명, 업종, RS).
// Rows without a code, name or numeric RS are skipped.
func ParseMetadata(source string, data []byte) (*contracts.StockUniverse, error) {
	t, err := s0_data.ReadTable(source, data)
	if err != nil {
		return nil, err
	}

	iCode, iName, iRS := t.Column(colCode...), t.Column(colName...), t.Column(colRS...)
	if iCode < 0 || iName < 0 || iRS < 0 {
		return nil, &contracts.ParseError{Source: source, Line: 1, Reason: "missing 종목코드/종목명/RS column"}
	}
	iIndustry, iSector, iChange := t.Column(colIndustry...), t.Column(colSector...), t.Column(colChange...)

	u := &contracts.StockUniverse{Stocks: make([]contracts.StockCandidate, 0, len(t.Rows))}
	for _, row := range t.Rows {
		code := s0_data.NormalizeCode(s0_data.Cell(row, iCode))
		name := norm.NFC.String(s0_data.Cell(row, iName))
		rs, err := s0_data.ParseNumber(s0_data.Cell(row, iRS))
		if code == "" || name == "" || err != nil {
			u.Skipped++
			continue
		}

		c := contracts.StockCandidate{
			Code:     code,
			Name:     name,
			RSValue:  int(math.Round(rs)),
			Industry: s0_data.Cell(row, iIndustry),
			Sector:   s0_data.Cell(row, iSector),
		}
		if c.Sector == "" {
			c.Sector = c.Industry
		}
		if v, err := s0_data.ParseNumber(s0_data.Cell(row, iChange)); err == nil {
			c.LastChangePercent = v
		}
		u.Stocks = append(u.Stocks, c)
	}
	return u, nil
}
