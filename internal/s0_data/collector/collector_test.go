package collector

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

type stubSource struct {
	inFlight int32
	peak     int32
	missing  map[string]bool
}

func (s *stubSource) Series(ctx context.Context, code string) (contracts.Series, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if s.missing[code] {
		return contracts.Series{Code: code}, &contracts.MissingDataError{Kind: "series", Key: code}
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return contracts.Series{Code: code, Candles: []contracts.Candle{
		{Time: base, Open: 1, High: 1, Low: 1, Close: 1},
		{Time: base.AddDate(0, 0, 1), Open: 2, High: 2, Low: 2, Close: 2},
	}}, nil
}

func TestCollect_PartialFailures(t *testing.T) {
	src := &stubSource{missing: map[string]bool{"000002": true}}
	c := NewCollector(src, logger.Nop())

	store, results := c.Collect(context.Background(), []string{"000001", "000002", "000003"}, Config{Workers: 2})

	require.Len(t, results, 3)
	assert.Equal(t, "000001", results[0].Code)
	assert.NoError(t, results[0].Error)
	assert.True(t, contracts.IsMissingData(results[1].Error))
	assert.Equal(t, 2, results[2].Candles)

	assert.Equal(t, 2, store.Len())
	_, ok := store.Get("000002")
	assert.False(t, ok)
}

func TestCollect_RespectsWorkerLimit(t *testing.T) {
	src := &stubSource{}
	c := NewCollector(src, logger.Nop())

	codes := make([]string, 20)
	for i := range codes {
		codes[i] = fmt.Sprintf("%06d", i)
	}
	store, _ := c.Collect(context.Background(), codes, Config{Workers: 3})

	assert.Equal(t, 20, store.Len())
	assert.LessOrEqual(t, atomic.LoadInt32(&src.peak), int32(3))
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store, results := NewCollector(&stubSource{}, logger.Nop()).Collect(ctx, []string{"000001"}, Config{Workers: 1})
	assert.Equal(t, 0, store.Len())
	assert.Error(t, results[0].Error)
}

func TestCollect_Progress(t *testing.T) {
	c := NewCollector(&stubSource{}, logger.Nop())

	var calls []int
	total := 0
	_, _ = c.Collect(context.Background(), []string{"a", "b", "c", "d"}, Config{
		Workers: 3,
		Progress: func(done, n int) {
			calls = append(calls, done)
			total = n
		},
	})

	assert.Equal(t, []int{1, 2, 3, 4}, calls)
	assert.Equal(t, 4, total)
}
