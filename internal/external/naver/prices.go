package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

var priceRowPattern = regexp.MustCompile(`\["(\d{8})",\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+)`)

// FetchCandles fetches daily candles for a code between from and to
// ⭐ SSOT: Naver Finance 가격 API 호출은 이 함수에서만
func (c *Client) FetchCandles(ctx context.Context, code string, from, to time.Time) ([]contracts.Candle, error) {
	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.baseURL, code, from.Format("20060102"), to.Format("20060102"),
	)

	body, err := c.httpClient.GetBytes(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("naver chart request: %w", err)
	}

	candles, err := parsePriceResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": code,
		"count":      len(candles),
	}).Debug("Fetched prices")
	return candles, nil
}

// parsePriceResponse parses the single-quoted JSON-ish array body.
// 첫 행은 헤더, 중복 날짜는 마지막 값 우선, 날짜 오름차순
func parsePriceResponse(body string) ([]contracts.Candle, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var candles []contracts.Candle
	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		candles = parsePriceJSON(rawData)
	} else {
		candles = parsePriceRegex(body)
	}

	byDate := make(map[int64]contracts.Candle, len(candles))
	for _, c := range candles {
		byDate[c.Time.Unix()] = c.Clamp()
	}
	out := make([]contracts.Candle, 0, len(byDate))
	for _, c := range byDate {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// parsePriceJSON parses JSON array format
func parsePriceJSON(rawData [][]interface{}) []contracts.Candle {
	var candles []contracts.Candle
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // Skip header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		tradeDate, err := time.Parse("20060102", strings.TrimSpace(dateStr))
		if err != nil {
			continue
		}

		closePrice := toFloat(row[4])
		if closePrice <= 0 {
			continue
		}
		candles = append(candles, contracts.Candle{
			Time:   tradeDate,
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  closePrice,
			Volume: toFloat(row[5]),
		})
	}
	return candles
}

// parsePriceRegex parses using regex (fallback)
func parsePriceRegex(body string) []contracts.Candle {
	var candles []contracts.Candle
	for _, match := range priceRowPattern.FindAllStringSubmatch(body, -1) {
		tradeDate, err := time.Parse("20060102", match[1])
		if err != nil {
			continue
		}
		vals := make([]float64, 5)
		for i := range vals {
			vals[i], _ = strconv.ParseFloat(match[i+2], 64)
		}
		if vals[3] <= 0 {
			continue
		}
		candles = append(candles, contracts.Candle{
			Time: tradeDate, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
	}
	return candles
}

// toFloat converts decoded JSON cells to float64
func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		n, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return n
	default:
		return 0
	}
}
