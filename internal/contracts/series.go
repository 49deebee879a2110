package contracts

import (
	"math"
	"time"
)

// Candle is a single daily OHLCV bar
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Clamp restores low ≤ min(open, close) and high ≥ max(open, close)
func (c Candle) Clamp() Candle {
	c.High = math.Max(c.High, math.Max(c.Open, c.Close))
	c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
	return c
}

// Valid reports whether the candle satisfies the OHLC ordering invariant
func (c Candle) Valid() bool {
	return c.Low <= math.Min(c.Open, c.Close) && c.High >= math.Max(c.Open, c.Close)
}

// Series is the time-ascending candle history of one instrument
// ⭐ SSOT: 가격 시계열은 생성 후 변경 금지 (새로고침 시 통째로 교체)
type Series struct {
	Code    string   `json:"code"`
	Candles []Candle `json:"candles"`
}

// Len returns the number of candles
func (s Series) Len() int {
	return len(s.Candles)
}

// Empty reports whether the series holds no candles
func (s Series) Empty() bool {
	return len(s.Candles) == 0
}

// Closes returns the closing prices in time order
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Last returns the most recent candle
func (s Series) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Usable reports whether the series has enough rows to be charted.
// 2행 미만은 히스토리 부족으로 취급
func (s Series) Usable() bool {
	return len(s.Candles) >= 2
}
