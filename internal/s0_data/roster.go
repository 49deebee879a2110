package s0_data

import (
	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// Roster header aliases
var (
	colETFCode  = []string{"종목코드", "코드", "code", "etf_code"}
	colETFName  = []string{"종목명", "name", "etf_name"}
	colSector   = []string{"섹터", "sector"}
	colReps     = []string{"대표종목", "representatives", "leaders"}
	colChange   = []string{"등락률", "change", "change_percent"}
	colChanged  = []string{"변동일", "changed_at", "change_date"}
	colPosition = []string{"지속일", "포지션", "position"}
)

// ParseRoster parses the sector ETF roster. Row order is preserved since it
// is the allocation order. Rows without an ETF code are skipped.
func ParseRoster(source string, data []byte) (*contracts.Roster, error) {
	t, err := ReadTable(source, data)
	if err != nil {
		return nil, err
	}

	iCode := t.Column(colETFCode...)
	if iCode < 0 {
		return nil, &contracts.ParseError{Source: source, Line: 1, Reason: "missing ETF code column"}
	}
	iName, iSector, iReps := t.Column(colETFName...), t.Column(colSector...), t.Column(colReps...)
	iChange, iChanged, iPos := t.Column(colChange...), t.Column(colChanged...), t.Column(colPosition...)

	roster := &contracts.Roster{Entries: make([]contracts.RosterEntry, 0, len(t.Rows))}
	for _, row := range t.Rows {
		code := NormalizeCode(Cell(row, iCode))
		if code == "" {
			roster.Skipped++
			continue
		}

		entry := contracts.RosterEntry{
			ETFCode:                code,
			ETFName:                Cell(row, iName),
			SectorLabel:            Cell(row, iSector),
			RepresentativeNamesRaw: Cell(row, iReps),
			PositionText:           Cell(row, iPos),
			ChangePercentText:      Cell(row, iChange),
			ChangeDateText:         Cell(row, iChanged),
		}
		if entry.SectorLabel == "" {
			entry.SectorLabel = entry.ETFName
		}
		if v, err := ParseNumber(entry.ChangePercentText); err == nil {
			entry.ChangePercent = v
		}

		roster.Entries = append(roster.Entries, entry)
	}
	return roster, nil
}
