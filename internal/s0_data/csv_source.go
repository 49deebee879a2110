package s0_data

import (
	"context"
	"fmt"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// CSVSource serves the roster and per-instrument series from a CSV snapshot
type CSVSource struct {
	fetcher Fetcher
	logger  *logger.Logger
}

// NewCSVSource creates a CSV-backed roster and series source
func NewCSVSource(fetcher Fetcher, log *logger.Logger) *CSVSource {
	return &CSVSource{
		fetcher: fetcher,
		logger:  log.WithField("source", fetcher.Describe()),
	}
}

// Roster loads and parses roster.csv
func (s *CSVSource) Roster(ctx context.Context) (*contracts.Roster, error) {
	data, err := s.fetcher.Fetch(ctx, RosterFile)
	if err != nil {
		return nil, err
	}
	roster, err := ParseRoster(RosterFile, data)
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"entries": len(roster.Entries),
		"skipped": roster.Skipped,
	}).Debug("Roster loaded")
	return roster, nil
}

// Series loads prices/<code>.csv. A parse failure of the whole file is
// reported as missing data so the caller can fall back.
func (s *CSVSource) Series(ctx context.Context, code string) (contracts.Series, error) {
	name := PricePath(code)
	data, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		return contracts.Series{Code: code}, err
	}

	series, report, err := ParseOHLCV(code, name, data)
	if err != nil {
		return series, &contracts.MissingDataError{Kind: "series", Key: code, Err: err}
	}
	if report.Skipped > 0 {
		s.logger.WithFields(map[string]interface{}{
			"code":    code,
			"rows":    report.Rows,
			"skipped": report.Skipped,
			"first":   report.Errors[0].Error(),
		}).Debug("Skipped malformed OHLCV rows")
	}
	return series, nil
}
