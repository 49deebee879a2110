package s1_universe

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
)

// manifestTrailingFields is the number of fixed fields after the name:
// lastChange_rs1m_etfName_industry_sector_etfChange_position_rs
const manifestTrailingFields = 8

// Manifest is the decoded file_list.json
type Manifest struct {
	Files []string `json:"files"`
}

// ParseManifestFilename decodes
// code_name_lastChangePercent_rs1m_etfName_industry_sector_etfChange_position_rs.csv.
// The name may itself contain underscores: the first field is the code and
// the last eight are fixed, everything between is the name.
func ParseManifestFilename(filename string) (contracts.StockCandidate, error) {
	base := norm.NFC.String(strings.TrimSpace(filename))
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if strings.HasSuffix(strings.ToLower(base), ".csv") {
		base = base[:len(base)-4]
	}

	parts := strings.Split(base, "_")
	if len(parts) < manifestTrailingFields+2 {
		return contracts.StockCandidate{}, fmt.Errorf("expected at least %d fields, got %d", manifestTrailingFields+2, len(parts))
	}

	tail := parts[len(parts)-manifestTrailingFields:]
	code := s0_data.NormalizeCode(parts[0])
	name := strings.TrimSpace(strings.Join(parts[1:len(parts)-manifestTrailingFields], "_"))
	if code == "" || name == "" {
		return contracts.StockCandidate{}, fmt.Errorf("empty code or name")
	}

	rs, err := s0_data.ParseNumber(tail[7])
	if err != nil {
		return contracts.StockCandidate{}, fmt.Errorf("rs: %w", err)
	}

	c := contracts.StockCandidate{
		Code:         code,
		Name:         name,
		RSValue:      int(math.Round(rs)),
		ETFName:      tail[2],
		Industry:     tail[3],
		Sector:       tail[4],
		PositionText: tail[6],
	}
	if v, err := s0_data.ParseNumber(tail[0]); err == nil {
		c.LastChangePercent = v
	}
	if v, err := s0_data.ParseNumber(tail[1]); err == nil {
		c.RS1M = v
	}
	return c, nil
}

// ParseManifest decodes file_list.json into candidates. Entries that are not
// CSV files or do not decode are counted as skipped.
func ParseManifest(data []byte) (*contracts.StockUniverse, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &contracts.ParseError{Source: s0_data.ManifestFile, Line: 1, Reason: err.Error()}
	}

	u := &contracts.StockUniverse{Stocks: make([]contracts.StockCandidate, 0, len(m.Files))}
	for _, f := range m.Files {
		if !strings.HasSuffix(strings.ToLower(f), ".csv") {
			u.Skipped++
			continue
		}
		c, err := ParseManifestFilename(f)
		if err != nil {
			u.Skipped++
			continue
		}
		u.Stocks = append(u.Stocks, c)
	}
	return u, nil
}
