package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"DrawdownLens/internal/model"
)

// SQLiteStore persists fetched bars to a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets HTTP handlers read while a fetch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series (
			symbol     TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_fetched ON series(fetched_at)`,

		`CREATE TABLE IF NOT EXISTS bars (
			symbol TEXT NOT NULL,
			day    INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL NOT NULL,
			volume INTEGER,
			PRIMARY KEY (symbol, day)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadSeries(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	series := &model.PriceSeries{Symbol: symbol}
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, fetched_at FROM series WHERE symbol = ?`, symbol,
	).Scan(&series.Name, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load series %s: %w", symbol, err)
	}
	series.FetchedAt = time.Unix(fetchedAt, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT day, open, high, low, close, volume FROM bars WHERE symbol = ? ORDER BY day`, symbol)
	if err != nil {
		return nil, fmt.Errorf("load bars %s: %w", symbol, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Bar
		var day int64
		if err := rows.Scan(&day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Date = time.Unix(day, 0).UTC()
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load bars %s: %w", symbol, err)
	}
	return series, nil
}

func (s *SQLiteStore) SaveSeries(ctx context.Context, series *model.PriceSeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bars WHERE symbol = ?`, series.Symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bars (symbol, day, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.ExecContext(ctx, series.Symbol, b.Date.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Date.Format("2006-01-02"), err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO series (symbol, name, fetched_at) VALUES (?,?,?)
		 ON CONFLICT(symbol) DO UPDATE SET name = excluded.name, fetched_at = excluded.fetched_at`,
		series.Symbol, series.Name, series.FetchedAt.Unix(),
	); err != nil {
		return fmt.Errorf("upsert series: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bars WHERE symbol IN (SELECT symbol FROM series WHERE fetched_at < ?)`,
		cutoff.Unix()); err != nil {
		return 0, fmt.Errorf("prune bars: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM series WHERE fetched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune series: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}
