package strategyconfig

// Config는 섹터 주도주 선정 정책의 전체 설정
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Filter    Filter    `yaml:"filter" json:"filter"`
	Selection Selection `yaml:"selection" json:"selection"`
	Trend     Trend     `yaml:"trend" json:"trend"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Fetch     Fetch     `yaml:"fetch" json:"fetch"`
}

// Meta 메타 정보
type Meta struct {
	PolicyID string `yaml:"policy_id" json:"policy_id"`
	Version  string `yaml:"version" json:"version"`
	Timezone string `yaml:"timezone" json:"timezone"`
}

// Filter 섹터 진입 조건
type Filter struct {
	MinStreakDays int `yaml:"min_streak_days" json:"min_streak_days"` // 유지 지속일 하한 (기본 10)
}

// Selection 섹터별 주도주 선정
type Selection struct {
	MaxLeaders  int    `yaml:"max_leaders" json:"max_leaders"`   // 섹터당 최대 종목 수 (기본 2)
	ReusePolicy string `yaml:"reuse_policy" json:"reuse_policy"` // reuse | strict
}

// Trend MA 추세 판정
type Trend struct {
	MAPeriod int `yaml:"ma_period" json:"ma_period"` // 기본 20
}

// Universe 후보 종목 필터
type Universe struct {
	ExcludeSPAC    bool     `yaml:"exclude_spac" json:"exclude_spac"`
	ExcludeAdmin   bool     `yaml:"exclude_admin" json:"exclude_admin"`
	ExcludeSectors []string `yaml:"exclude_sectors" json:"exclude_sectors"`
}

// Fetch 시계열 수집
type Fetch struct {
	NaverLookbackDays int `yaml:"naver_lookback_days" json:"naver_lookback_days"`
	DBLookbackRows    int `yaml:"db_lookback_rows" json:"db_lookback_rows"`
}

// Default returns the built-in policy
func Default() *Config {
	return &Config{
		Meta: Meta{
			PolicyID: "sector_leader_default",
			Version:  "1",
			Timezone: "Asia/Seoul",
		},
		Filter:    Filter{MinStreakDays: 10},
		Selection: Selection{MaxLeaders: 2, ReusePolicy: "reuse"},
		Trend:     Trend{MAPeriod: 20},
		Universe:  Universe{ExcludeSPAC: true},
		Fetch:     Fetch{NaverLookbackDays: 180, DBLookbackRows: 250},
	}
}
