package naver

import (
	"strings"
	"time"

	"github.com/wonny/sectorlead/backend/pkg/httputil"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// DefaultChartURL is the Naver Finance chart API host
const DefaultChartURL = "https://fchart.stock.naver.com"

// Client handles communication with the Naver Finance chart API
// ⭐ SSOT: Naver Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	now        func() time.Time
}

// NewClient creates a new Naver Finance client. Empty baseURL uses the
// public chart host.
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultChartURL
	}
	return &Client{
		httpClient: httpClient.WithUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		logger:     log.WithField("module", "naver"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
	}
}
