package s0_data

import (
	"context"
	"errors"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// ChainSeries tries each source in order and returns the first usable
// series. If no source yields a usable one, the longest short series is
// returned; MissingDataError only when every source failed.
type ChainSeries struct {
	sources []contracts.SeriesSource
}

// NewChainSeries creates a chain; nil sources are ignored
func NewChainSeries(sources ...contracts.SeriesSource) *ChainSeries {
	c := &ChainSeries{}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Series implements contracts.SeriesSource
func (c *ChainSeries) Series(ctx context.Context, code string) (contracts.Series, error) {
	var (
		best   contracts.Series
		gotAny bool
		errs   []error
	)
	for _, src := range c.sources {
		series, err := src.Series(ctx, code)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if series.Usable() {
			return series, nil
		}
		if !gotAny || series.Len() > best.Len() {
			best, gotAny = series, true
		}
	}
	if gotAny {
		return best, nil
	}
	return contracts.Series{Code: code}, &contracts.MissingDataError{
		Kind: "series", Key: code, Err: errors.Join(errs...),
	}
}
