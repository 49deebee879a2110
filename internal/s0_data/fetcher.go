package s0_data

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/pkg/httputil"
)

// Snapshot layout shared by the file and HTTP fetchers
const (
	RosterFile   = "roster.csv"
	ManifestFile = "file_list.json"
	MetadataFile = "stocks.csv"
	PriceDir     = "prices"
)

// PricePath returns the snapshot path of one instrument's OHLCV CSV
func PricePath(code string) string {
	return path.Join(PriceDir, code+".csv")
}

// Fetcher reads named blobs of a data snapshot.
// 실패는 항상 *contracts.MissingDataError 로 반환
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Describe() string
}

// FileFetcher reads a snapshot from a local directory
type FileFetcher struct {
	dir string
}

// NewFileFetcher creates a fetcher rooted at dir
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{dir: dir}
}

// Fetch reads dir/name
func (f *FileFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &contracts.MissingDataError{Kind: kindOf(name), Key: name, Err: err}
	}
	data, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, &contracts.MissingDataError{Kind: kindOf(name), Key: name, Err: err}
	}
	return data, nil
}

// Describe returns the snapshot root
func (f *FileFetcher) Describe() string {
	return "file://" + f.dir
}

// HTTPFetcher reads a snapshot published under a base URL
type HTTPFetcher struct {
	baseURL string
	client  *httputil.Client
}

// NewHTTPFetcher creates a fetcher for baseURL
func NewHTTPFetcher(baseURL string, client *httputil.Client) *HTTPFetcher {
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch GETs baseURL/name, escaping each path segment
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	target := f.baseURL + "/" + strings.Join(segments, "/")

	data, err := f.client.GetBytes(ctx, target)
	if err != nil {
		return nil, &contracts.MissingDataError{Kind: kindOf(name), Key: name, Err: err}
	}
	return data, nil
}

// Describe returns the base URL
func (f *HTTPFetcher) Describe() string {
	return f.baseURL
}

func kindOf(name string) string {
	switch {
	case name == RosterFile:
		return "roster"
	case name == ManifestFile || name == MetadataFile:
		return "universe"
	case strings.HasPrefix(name, PriceDir+"/"):
		return "series"
	default:
		return "file"
	}
}
