package s2_signals

import (
	"math"
	"time"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// DefaultMAPeriod is the moving-average window used for trend state
const DefaultMAPeriod = 20

// MaxProximity is returned when proximity is undefined (history too short)
const MaxProximity = math.MaxFloat64

// TrendClassifier computes MA20 position and streak for a series
// ⭐ SSOT: MA20 추세/연속일수 계산은 여기서만
type TrendClassifier struct {
	period int
}

// NewTrendClassifier creates a classifier; period <= 0 falls back to 20
func NewTrendClassifier(period int) *TrendClassifier {
	if period <= 0 {
		period = DefaultMAPeriod
	}
	return &TrendClassifier{period: period}
}

// Period returns the moving-average window
func (c *TrendClassifier) Period() int {
	return c.period
}

// Classify returns the above/below state of the last close and its streak.
// 히스토리가 period 미만이면 {false, 0} (에러 아님)
func (c *TrendClassifier) Classify(series contracts.Series) contracts.TrendState {
	closes := series.Closes()
	n := len(closes)
	if n < c.period {
		return contracts.TrendState{ProximityPct: MaxProximity}
	}

	prefix := prefixSums(closes)
	ma := windowMean(prefix, n-1, c.period)
	above := closes[n-1] > ma

	streak := 0
	for i := n - 1; i >= 0; i-- {
		w := c.period
		if i+1 < w {
			w = i + 1
		}
		if (closes[i] > windowMean(prefix, i, w)) != above {
			break
		}
		streak++
	}

	return contracts.TrendState{
		AboveMA20:    above,
		StreakDays:   streak,
		MA20:         ma,
		ProximityPct: proximity(closes[n-1], ma),
	}
}

// Proximity returns |(lastClose − ma) / ma| * 100; lower is closer to a reversal
func (c *TrendClassifier) Proximity(series contracts.Series) float64 {
	closes := series.Closes()
	n := len(closes)
	if n < c.period {
		return MaxProximity
	}
	ma := windowMean(prefixSums(closes), n-1, c.period)
	return proximity(closes[n-1], ma)
}

// OverlayPoint is one point of the chart MA overlay
type OverlayPoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
	MA    float64   `json:"ma"`
}

// Overlay computes the display-only MA line, same length as the series.
// 윈도우가 모자라는 앞부분은 첫 종가로 채움
func (c *TrendClassifier) Overlay(series contracts.Series) []OverlayPoint {
	closes := series.Closes()
	points := make([]OverlayPoint, len(closes))
	if len(closes) == 0 {
		return points
	}

	first := closes[0]
	prefix := prefixSums(closes)
	for i, close := range closes {
		var ma float64
		if i+1 >= c.period {
			ma = windowMean(prefix, i, c.period)
		} else {
			missing := float64(c.period - (i + 1))
			ma = (prefix[i+1] + missing*first) / float64(c.period)
		}
		points[i] = OverlayPoint{
			Time:  series.Candles[i].Time,
			Close: close,
			MA:    ma,
		}
	}
	return points
}

func prefixSums(values []float64) []float64 {
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}
	return prefix
}

// windowMean is the mean of the w values ending at index end (inclusive)
func windowMean(prefix []float64, end, w int) float64 {
	return (prefix[end+1] - prefix[end+1-w]) / float64(w)
}

func proximity(last, ma float64) float64 {
	if ma == 0 {
		return MaxProximity
	}
	return math.Abs((last-ma)/ma) * 100
}
