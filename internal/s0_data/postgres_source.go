package s0_data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// Querier is the subset of *pgxpool.Pool used here
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DefaultSeriesLookback is the number of daily rows loaded per instrument
const DefaultSeriesLookback = 250

// PostgresSource reads roster, universe and series from the market database.
// 읽기 전용: 선정 결과는 저장하지 않음
type PostgresSource struct {
	db       Querier
	lookback int
}

// NewPostgresSource creates a database-backed data source
func NewPostgresSource(db Querier, lookback int) *PostgresSource {
	if lookback <= 0 {
		lookback = DefaultSeriesLookback
	}
	return &PostgresSource{db: db, lookback: lookback}
}

// Roster loads data.sector_roster in display order
func (s *PostgresSource) Roster(ctx context.Context) (*contracts.Roster, error) {
	query := `
		SELECT etf_code, etf_name, sector_label, representatives,
		       position_text, change_percent_text, COALESCE(changed_at, '')
		FROM data.sector_roster
		ORDER BY display_order ASC, etf_code ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, &contracts.MissingDataError{Kind: "roster", Key: "data.sector_roster", Err: err}
	}
	defer rows.Close()

	roster := &contracts.Roster{}
	for rows.Next() {
		var e contracts.RosterEntry
		if err := rows.Scan(&e.ETFCode, &e.ETFName, &e.SectorLabel, &e.RepresentativeNamesRaw,
			&e.PositionText, &e.ChangePercentText, &e.ChangeDateText); err != nil {
			return nil, fmt.Errorf("scan roster row: %w", err)
		}
		if e.SectorLabel == "" {
			e.SectorLabel = e.ETFName
		}
		if v, err := ParseNumber(e.ChangePercentText); err == nil {
			e.ChangePercent = v
		}
		roster.Entries = append(roster.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &contracts.MissingDataError{Kind: "roster", Key: "data.sector_roster", Err: err}
	}
	if len(roster.Entries) == 0 {
		return nil, &contracts.MissingDataError{Kind: "roster", Key: "data.sector_roster", Err: pgx.ErrNoRows}
	}
	return roster, nil
}

// Universe loads active stocks joined with their latest RS score
func (s *PostgresSource) Universe(ctx context.Context) (*contracts.StockUniverse, error) {
	query := `
		SELECT s.code, s.name, COALESCE(s.sector, ''), COALESCE(s.industry, ''),
		       COALESCE(r.rs_value, 0)::int, COALESCE(r.change_percent, 0)::float8
		FROM data.stocks s
		LEFT JOIN data.stock_rs r ON r.stock_code = s.code
		WHERE s.status = 'active'
		ORDER BY s.code
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, &contracts.MissingDataError{Kind: "universe", Key: "data.stocks", Err: err}
	}
	defer rows.Close()

	var stocks []contracts.StockCandidate
	for rows.Next() {
		var c contracts.StockCandidate
		if err := rows.Scan(&c.Code, &c.Name, &c.Sector, &c.Industry, &c.RSValue, &c.LastChangePercent); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		stocks = append(stocks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &contracts.MissingDataError{Kind: "universe", Key: "data.stocks", Err: err}
	}

	return &contracts.StockUniverse{Stocks: contracts.DedupByCode(stocks)}, nil
}

// Series loads the latest lookback rows of data.daily_prices in ascending order
func (s *PostgresSource) Series(ctx context.Context, code string) (contracts.Series, error) {
	query := `
		SELECT trade_date, open_price::float8, high_price::float8, low_price::float8,
		       close_price::float8, volume::float8
		FROM (
			SELECT trade_date, open_price, high_price, low_price, close_price, volume
			FROM data.daily_prices
			WHERE stock_code = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) recent
		ORDER BY trade_date ASC
	`

	rows, err := s.db.Query(ctx, query, code, s.lookback)
	if err != nil {
		return contracts.Series{Code: code}, &contracts.MissingDataError{Kind: "series", Key: code, Err: err}
	}
	defer rows.Close()

	series := contracts.Series{Code: code}
	for rows.Next() {
		var c contracts.Candle
		if err := rows.Scan(&c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return contracts.Series{Code: code}, &contracts.MissingDataError{Kind: "series", Key: code, Err: err}
		}
		series.Candles = append(series.Candles, c.Clamp())
	}
	if err := rows.Err(); err != nil {
		return contracts.Series{Code: code}, &contracts.MissingDataError{Kind: "series", Key: code, Err: err}
	}
	if series.Empty() {
		return series, &contracts.MissingDataError{Kind: "series", Key: code, Err: pgx.ErrNoRows}
	}
	return series, nil
}

// EnsureSchema creates the input tables when absent (development databases)
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE SCHEMA IF NOT EXISTS data`,
		`CREATE TABLE IF NOT EXISTS data.sector_roster (
			etf_code            TEXT PRIMARY KEY,
			etf_name            TEXT NOT NULL,
			sector_label        TEXT NOT NULL DEFAULT '',
			representatives     TEXT NOT NULL DEFAULT '',
			position_text       TEXT NOT NULL DEFAULT '',
			change_percent_text TEXT NOT NULL DEFAULT '',
			changed_at          TEXT,
			display_order       INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS data.stocks (
			code     TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			sector   TEXT,
			industry TEXT,
			status   TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS data.stock_rs (
			stock_code     TEXT PRIMARY KEY,
			rs_value       INT NOT NULL,
			change_percent NUMERIC
		)`,
		`CREATE TABLE IF NOT EXISTS data.daily_prices (
			stock_code  TEXT NOT NULL,
			trade_date  DATE NOT NULL,
			open_price  NUMERIC NOT NULL,
			high_price  NUMERIC NOT NULL,
			low_price   NUMERIC NOT NULL,
			close_price NUMERIC NOT NULL,
			volume      BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (stock_code, trade_date)
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var _ contracts.DataSource = (*PostgresSource)(nil)
