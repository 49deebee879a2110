package naver

import (
	"context"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// DefaultLookbackDays is the calendar window requested per instrument
const DefaultLookbackDays = 180

// PriceSource serves daily series from Naver as a fallback SeriesSource
type PriceSource struct {
	client       *Client
	lookbackDays int
}

// NewPriceSource creates a fallback series source
func NewPriceSource(client *Client, lookbackDays int) *PriceSource {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &PriceSource{client: client, lookbackDays: lookbackDays}
}

// Series implements contracts.SeriesSource
func (s *PriceSource) Series(ctx context.Context, code string) (contracts.Series, error) {
	to := s.client.now()
	from := to.AddDate(0, 0, -s.lookbackDays)

	candles, err := s.client.FetchCandles(ctx, code, from, to)
	if err != nil {
		return contracts.Series{Code: code}, &contracts.MissingDataError{Kind: "series", Key: code, Err: err}
	}
	if len(candles) == 0 {
		return contracts.Series{Code: code}, &contracts.MissingDataError{Kind: "series", Key: code}
	}
	return contracts.Series{Code: code, Candles: candles}, nil
}

var _ contracts.SeriesSource = (*PriceSource)(nil)

