package strategyconfig

import (
	"fmt"
	"time"
	_ "time/tzdata" // meta.timezone 검증용
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.PolicyID == "" {
		return ValidationError{"meta.policy_id", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Filter ===
	if cfg.Filter.MinStreakDays < 0 {
		return ValidationError{"filter.min_streak_days", "must be >= 0"}
	}

	// === Selection ===
	if cfg.Selection.MaxLeaders < 1 || cfg.Selection.MaxLeaders > 10 {
		return ValidationError{"selection.max_leaders", "must be in [1, 10]"}
	}
	switch cfg.Selection.ReusePolicy {
	case "reuse", "strict":
	default:
		return ValidationError{"selection.reuse_policy", "must be 'reuse' or 'strict'"}
	}

	// === Trend ===
	if cfg.Trend.MAPeriod < 2 || cfg.Trend.MAPeriod > 250 {
		return ValidationError{"trend.ma_period", "must be in [2, 250]"}
	}

	// === Fetch ===
	if cfg.Fetch.NaverLookbackDays < 0 || cfg.Fetch.DBLookbackRows < 0 {
		return ValidationError{"fetch", "lookbacks must be >= 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 지속일 하한이 MA 기간보다 길면 로스터 외 판단 불가
	if cfg.Filter.MinStreakDays > cfg.Trend.MAPeriod*3 {
		warnings = append(warnings, Warning{
			Code:    "LONG_STREAK_FILTER",
			Message: fmt.Sprintf("min_streak_days %d > 3×ma_period: 대부분의 섹터가 제외될 수 있음", cfg.Filter.MinStreakDays),
		})
	}

	if cfg.Selection.ReusePolicy == "reuse" {
		warnings = append(warnings, Warning{
			Code:    "REUSE_ENABLED",
			Message: "후보 소진 시 다른 섹터 주도주 재사용 허용 (reused 플래그로 표시)",
		})
	}

	// MA 계산에 필요한 최소 히스토리 확보 여부
	if cfg.Fetch.DBLookbackRows > 0 && cfg.Fetch.DBLookbackRows < cfg.Trend.MAPeriod {
		warnings = append(warnings, Warning{
			Code:    "SHORT_LOOKBACK",
			Message: "db_lookback_rows < ma_period: 추세 판정 불가",
		})
	}

	return warnings
}
