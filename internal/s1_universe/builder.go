package s1_universe

import (
	"context"
	"fmt"
	"regexp"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// SPAC 판별을 위한 정규식 패턴
var spacPattern = regexp.MustCompile(`(?i)(스팩|SPAC|스펙|제\d+호)`)

// 관리종목 표시: 선행 "*" 또는 "(관리)", "[관리]", "관리종목" 토큰 ("한국자산관리" 같은 사명은 제외 안 함)
var adminPattern = regexp.MustCompile(`^\s*\*|[(\[]\s*관리\s*[)\]]|관리종목`)

// Builder constructs the leader-candidate universe from a snapshot
type Builder struct {
	fetcher s0_data.Fetcher
	config  Config
	logger  *logger.Logger
}

// Config holds universe filter criteria
type Config struct {
	ExcludeSPAC    bool     `yaml:"exclude_spac"`    // SPAC 제외
	ExcludeAdmin   bool     `yaml:"exclude_admin"`   // 관리종목 제외
	ExcludeSectors []string `yaml:"exclude_sectors"` // 제외 섹터
}

// NewBuilder creates a new Universe Builder
func NewBuilder(fetcher s0_data.Fetcher, config Config, log *logger.Logger) *Builder {
	return &Builder{
		fetcher: fetcher,
		config:  config,
		logger:  log.WithField("module", "universe"),
	}
}

// Universe loads file_list.json, falling back to the metadata table, then
// filters and deduplicates by code (first occurrence wins)
// ⭐ SSOT: 주도주 후보 유니버스 생성
func (b *Builder) Universe(ctx context.Context) (*contracts.StockUniverse, error) {
	raw, encoding, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	universe := &contracts.StockUniverse{
		Stocks:  make([]contracts.StockCandidate, 0, len(raw.Stocks)),
		Skipped: raw.Skipped,
	}
	excluded := 0
	for _, s := range contracts.DedupByCode(raw.Stocks) {
		if reason := b.checkExclusion(s); reason != "" {
			excluded++
			continue
		}
		universe.Stocks = append(universe.Stocks, s)
	}

	b.logger.WithFields(map[string]interface{}{
		"encoding":  encoding,
		"stocks":    universe.Count(),
		"skipped":   universe.Skipped,
		"duplicate": len(raw.Stocks) - len(contracts.DedupByCode(raw.Stocks)),
		"excluded":  excluded,
	}).Info("Universe built")

	return universe, nil
}

func (b *Builder) load(ctx context.Context) (*contracts.StockUniverse, string, error) {
	data, manifestErr := b.fetcher.Fetch(ctx, s0_data.ManifestFile)
	if manifestErr == nil {
		u, err := ParseManifest(data)
		if err == nil {
			return u, "manifest", nil
		}
		manifestErr = err
	}

	data, err := b.fetcher.Fetch(ctx, s0_data.MetadataFile)
	if err != nil {
		return nil, "", &contracts.MissingDataError{
			Kind: "universe",
			Key:  s0_data.ManifestFile + "|" + s0_data.MetadataFile,
			Err:  fmt.Errorf("manifest: %v; metadata: %w", manifestErr, err),
		}
	}
	u, err := ParseMetadata(s0_data.MetadataFile, data)
	if err != nil {
		return nil, "", fmt.Errorf("parse metadata: %w", err)
	}
	return u, "metadata", nil
}

// checkExclusion returns the exclusion reason, "" when the stock passes
func (b *Builder) checkExclusion(stock contracts.StockCandidate) string {
	if b.config.ExcludeSPAC && isSPAC(stock.Name) {
		return "SPAC"
	}
	if b.config.ExcludeAdmin && isAdminStock(stock.Name) {
		return "관리종목"
	}
	for _, sector := range b.config.ExcludeSectors {
		if stock.Sector == sector || stock.Industry == sector {
			return fmt.Sprintf("제외 섹터 (%s)", sector)
		}
	}
	return ""
}

// isSPAC checks if a stock is a SPAC based on name pattern
func isSPAC(name string) bool {
	return spacPattern.MatchString(name)
}

// isAdminStock checks the explicit 관리종목 marker in the display name
func isAdminStock(name string) bool {
	return adminPattern.MatchString(name)
}
