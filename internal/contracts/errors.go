package contracts

import (
	"errors"
	"fmt"
)

// MissingDataError means a required CSV/manifest/series could not be fetched.
// 종목 단위에서는 폴백으로 대체, 로스터 로드 실패만 호출자에게 전파
type MissingDataError struct {
	Kind string // roster, universe, series
	Key  string // 경로 또는 종목코드
	Err  error
}

func (e *MissingDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("missing %s data: %s", e.Kind, e.Key)
	}
	return fmt.Sprintf("missing %s data: %s: %v", e.Kind, e.Key, e.Err)
}

func (e *MissingDataError) Unwrap() error {
	return e.Err
}

// ParseError describes one rejected input row
type ParseError struct {
	Source string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// IsMissingData reports whether err is (or wraps) a MissingDataError
func IsMissingData(err error) bool {
	var missing *MissingDataError
	return errors.As(err, &missing)
}
