package s0_data

import (
	"sort"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// OHLCV header aliases (한글/영문 헤더 모두 허용)
var (
	colDate   = []string{"날짜", "일자", "date", "time"}
	colOpen   = []string{"시가", "open"}
	colHigh   = []string{"고가", "high"}
	colLow    = []string{"저가", "low"}
	colClose  = []string{"종가", "close"}
	colVolume = []string{"거래량", "volume"}
)

// ParseReport summarizes skipped rows of one parse
type ParseReport struct {
	Rows    int                     `json:"rows"`
	Skipped int                     `json:"skipped"`
	Errors  []*contracts.ParseError `json:"errors,omitempty"` // 앞쪽 일부만 보관
}

const maxReportedErrors = 5

func (r *ParseReport) skip(err *contracts.ParseError) {
	r.Skipped++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, err)
	}
}

// ParseOHLCV builds a Series from a per-instrument CSV snapshot.
// Malformed rows are skipped and counted; high/low are clamped to contain
// open/close; duplicate dates keep the last row; output is time-ascending.
// Only a missing date/close header is an error.
func ParseOHLCV(code, source string, data []byte) (contracts.Series, *ParseReport, error) {
	report := &ParseReport{}
	t, err := ReadTable(source, data)
	if err != nil {
		return contracts.Series{Code: code}, report, err
	}

	iDate, iClose := t.Column(colDate...), t.Column(colClose...)
	if iDate < 0 || iClose < 0 {
		return contracts.Series{Code: code}, report, &contracts.ParseError{
			Source: source, Line: 1, Reason: "missing date or close column",
		}
	}
	iOpen, iHigh, iLow, iVol := t.Column(colOpen...), t.Column(colHigh...), t.Column(colLow...), t.Column(colVolume...)

	byDate := make(map[int64]contracts.Candle, len(t.Rows))
	for idx, row := range t.Rows {
		report.Rows++
		line := Line(idx)

		date, err := ParseDate(Cell(row, iDate))
		if err != nil {
			report.skip(&contracts.ParseError{Source: source, Line: line, Reason: err.Error()})
			continue
		}
		closePrice, err := ParseNumber(Cell(row, iClose))
		if err != nil {
			report.skip(&contracts.ParseError{Source: source, Line: line, Reason: "close: " + err.Error()})
			continue
		}

		c := contracts.Candle{Time: date, Open: closePrice, High: closePrice, Low: closePrice, Close: closePrice}
		ok := true
		for _, f := range []struct {
			col int
			dst *float64
		}{{iOpen, &c.Open}, {iHigh, &c.High}, {iLow, &c.Low}} {
			if f.col < 0 {
				continue
			}
			v, err := ParseNumber(Cell(row, f.col))
			if err != nil {
				report.skip(&contracts.ParseError{Source: source, Line: line, Reason: "price: " + err.Error()})
				ok = false
				break
			}
			*f.dst = v
		}
		if !ok {
			continue
		}
		if iVol >= 0 {
			if v, err := ParseNumber(Cell(row, iVol)); err == nil {
				c.Volume = v
			}
		}

		byDate[date.Unix()] = c.Clamp()
	}

	candles := make([]contracts.Candle, 0, len(byDate))
	for _, c := range byDate {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return contracts.Series{Code: code, Candles: candles}, report, nil
}
