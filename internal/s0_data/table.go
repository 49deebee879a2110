package s0_data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header-indexed CSV snapshot
type Table struct {
	Source string
	Rows   [][]string

	columns map[string]int
}

// ReadTable parses CSV bytes with a header row. Header names are matched
// case-insensitively and a leading UTF-8 BOM is ignored.
func ReadTable(source string, data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &contracts.ParseError{Source: source, Line: 1, Reason: "empty file"}
	}
	if err != nil {
		return nil, &contracts.ParseError{Source: source, Line: 1, Reason: err.Error()}
	}

	t := &Table{Source: source, columns: make(map[string]int, len(header))}
	for i, h := range header {
		key := headerKey(h)
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// 깨진 행은 빈 레코드로 남겨 행 번호를 유지
			t.Rows = append(t.Rows, nil)
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Column returns the index of the first header matching any alias, or -1
func (t *Table) Column(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := t.columns[headerKey(a)]; ok {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell value, "" when the column is absent
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Line returns the 1-based file line of a data row index
func Line(rowIndex int) int {
	return rowIndex + 2
}

func headerKey(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// ParseNumber parses "1,234.5", "+3.2%", "−1.5" style numeric cells
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "%", "", "−", "-", " ", "").Replace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty number")
	}
	// ParseFloat 은 NaN, Inf, 16진수도 받아들이므로 10진 표기만 허용
	if strings.IndexFunc(s, notDecimalRune) >= 0 {
		return 0, fmt.Errorf("non-numeric %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func notDecimalRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		return false
	}
	return true
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102"}

// ParseDate accepts YYYY-MM-DD, YYYY/MM/DD and YYYYMMDD. A trailing time
// part ("2024-01-02 00:00:00", "2024-01-02T...") is ignored.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// NormalizeCode strips the KRX "A" prefix and left-pads purely numeric
// codes to six digits (스프레드시트가 앞자리 0을 지운 경우)
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) == 7 && code[0] == 'A' && isDigits(code[1:]) {
		return code[1:]
	}
	if code == "" || len(code) >= 6 || !isDigits(code) {
		return code
	}
	return strings.Repeat("0", 6-len(code)) + code
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
