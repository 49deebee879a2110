package contracts

import "context"

// RosterSource loads the sector ETF roster (S0)
// ⭐ SSOT: 로스터 로드 인터페이스
type RosterSource interface {
	Roster(ctx context.Context) (*Roster, error)
}

// UniverseSource loads the leader stock universe (S1)
// ⭐ SSOT: 종목 유니버스 로드 인터페이스
type UniverseSource interface {
	Universe(ctx context.Context) (*StockUniverse, error)
}

// SeriesSource loads one instrument's OHLCV series (S0)
// 실패 시 *MissingDataError 반환
type SeriesSource interface {
	Series(ctx context.Context, code string) (Series, error)
}

// DataSource bundles everything one engine run reads
type DataSource interface {
	RosterSource
	UniverseSource
	SeriesSource
}
