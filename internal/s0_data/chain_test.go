package s0_data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

type fixedSource struct {
	series contracts.Series
	err    error
	calls  int
}

func (f *fixedSource) Series(ctx context.Context, code string) (contracts.Series, error) {
	f.calls++
	s := f.series
	s.Code = code
	return s, f.err
}

func seriesOf(n int) contracts.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := contracts.Series{}
	for i := 0; i < n; i++ {
		s.Candles = append(s.Candles, contracts.Candle{Time: base.AddDate(0, 0, i), Open: 1, High: 1, Low: 1, Close: 1})
	}
	return s
}

func TestChainSeries(t *testing.T) {
	missing := &contracts.MissingDataError{Kind: "series", Key: "x", Err: errors.New("404")}

	tests := []struct {
		name     string
		sources  []*fixedSource
		wantLen  int
		wantErr  bool
		wantCall []int
	}{
		{
			name:     "first usable wins",
			sources:  []*fixedSource{{series: seriesOf(5)}, {series: seriesOf(9)}},
			wantLen:  5,
			wantCall: []int{1, 0},
		},
		{
			name:     "falls through on error",
			sources:  []*fixedSource{{err: missing}, {series: seriesOf(3)}},
			wantLen:  3,
			wantCall: []int{1, 1},
		},
		{
			name:     "short series falls through but is kept",
			sources:  []*fixedSource{{series: seriesOf(1)}, {err: missing}},
			wantLen:  1,
			wantCall: []int{1, 1},
		},
		{
			name:     "all fail",
			sources:  []*fixedSource{{err: missing}, {err: missing}},
			wantErr:  true,
			wantCall: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs := make([]contracts.SeriesSource, len(tt.sources))
			for i, s := range tt.sources {
				srcs[i] = s
			}

			got, err := NewChainSeries(srcs...).Series(context.Background(), "005930")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, contracts.IsMissingData(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantLen, got.Len())
			}
			for i, s := range tt.sources {
				assert.Equal(t, tt.wantCall[i], s.calls, "source %d", i)
			}
		})
	}
}

func TestChainSeries_IgnoresNil(t *testing.T) {
	c := NewChainSeries(nil, &fixedSource{series: seriesOf(2)})
	got, err := c.Series(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}
