package s0_data

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

func TestParseOHLCV_KoreanHeaders(t *testing.T) {
	csv := "날짜,시가,고가,저가,종가,거래량\n" +
		"2024-01-03,101,103,100,102,\"1,200\"\n" +
		"2024-01-02,100,102,99,101,1000\n"

	s, report, err := ParseOHLCV("005930", "005930.csv", []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Skipped)
	require.Equal(t, 2, s.Len())

	// 시간 오름차순
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Candles[0].Time)
	assert.InDelta(t, 102, s.Candles[1].Close, 1e-9)
	assert.InDelta(t, 1200, s.Candles[1].Volume, 1e-9)
}

func TestParseOHLCV_EnglishHeadersAndDateFormats(t *testing.T) {
	csv := "Date,Open,High,Low,Close,Volume\n" +
		"2024/01/02,10,11,9,10.5,100\n" +
		"20240103,10.5,12,10,11,200\n"

	s, _, err := ParseOHLCV("X", "x.csv", []byte(csv))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.InDelta(t, 11, s.Candles[1].Close, 1e-9)
}

func TestParseOHLCV_SkipsMalformedRows(t *testing.T) {
	csv := "date,open,high,low,close,volume\n" +
		"2024-01-02,10,11,9,10,100\n" +
		"not-a-date,10,11,9,10,100\n" +
		"2024-01-03,10,11,9,abc,100\n" +
		"2024-01-04,x,11,9,10,100\n" +
		"2024-01-05,10,11,9,10,100\n" +
		"2024-01-08,10,11,9,NaN,100\n" +
		"2024-01-09,10,Inf,9,10,100\n"

	s, report, err := ParseOHLCV("X", "x.csv", []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 7, report.Rows)
	assert.Equal(t, 5, report.Skipped)
	require.Len(t, report.Errors, 5)
	assert.Equal(t, 3, report.Errors[0].Line)
	assert.Equal(t, 2, s.Len())
	for _, c := range s.Candles {
		assert.False(t, math.IsNaN(c.Close))
	}
}

func TestParseOHLCV_ClampsHighLow(t *testing.T) {
	csv := "date,open,high,low,close\n2024-01-02,10,9,11,12\n"

	s, _, err := ParseOHLCV("X", "x.csv", []byte(csv))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	c := s.Candles[0]
	assert.True(t, c.Valid())
	assert.InDelta(t, 12, c.High, 1e-9)
	assert.InDelta(t, 10, c.Low, 1e-9)
}

func TestParseOHLCV_DuplicateDatesKeepLast(t *testing.T) {
	csv := "date,close\n2024-01-02,10\n2024-01-03,11\n2024-01-02,15\n"

	s, _, err := ParseOHLCV("X", "x.csv", []byte(csv))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.InDelta(t, 15, s.Candles[0].Close, 1e-9)
	assert.True(t, s.Candles[0].Time.Before(s.Candles[1].Time))
}

func TestParseOHLCV_MissingCloseColumn(t *testing.T) {
	_, _, err := ParseOHLCV("X", "x.csv", []byte("date,open\n2024-01-02,1\n"))
	require.Error(t, err)

	var pe *contracts.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParseOHLCV_SingleUsableRowIsNotUsable(t *testing.T) {
	s, _, err := ParseOHLCV("X", "x.csv", []byte("date,close\n2024-01-02,10\nbad,1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Usable())
}
