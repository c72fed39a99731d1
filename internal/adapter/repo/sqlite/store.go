// Package sqlite persists simulation reports in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"incumbent/internal/adapter/repo/sqlite/migrations"
	"incumbent/internal/app/ports"
	"incumbent/internal/domain/calendar"
)

// Store implements ports.ReportRepository and ports.TxManager.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite file at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return s.sqlDB
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) SaveDay(ctx context.Context, report ports.DayReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot, err := json.Marshal(report.Snapshot)
	if err != nil {
		return fmt.Errorf("encode day snapshot: %w", err)
	}
	_, err = s.q(ctx).ExecContext(ctx,
		`INSERT INTO day_reports (ordinal, sim_date, population, government_balance, snapshot, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.Date.Ordinal(),
		report.Date.String(),
		report.Snapshot.Population,
		int64(report.Snapshot.Government),
		snapshot,
		toMillis(report.RecordedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: day %s already recorded", ports.ErrConflict, report.Date)
		}
		return fmt.Errorf("save day report: %w", err)
	}
	return nil
}

func (s *Store) SaveMonth(ctx context.Context, report ports.MonthReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	summary, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("encode month summary: %w", err)
	}
	_, err = s.q(ctx).ExecContext(ctx,
		`INSERT INTO month_reports (ordinal, sim_date, businesses, government_balance, summary, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.Date.Ordinal(),
		report.Date.String(),
		report.Summary.Businesses,
		int64(report.Summary.Government),
		summary,
		toMillis(report.RecordedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: month %s already recorded", ports.ErrConflict, report.Date)
		}
		return fmt.Errorf("save month report: %w", err)
	}
	return nil
}

func (s *Store) LatestDay(ctx context.Context) (ports.DayReport, error) {
	days, err := s.ListDays(ctx, 1)
	if err != nil {
		return ports.DayReport{}, err
	}
	if len(days) == 0 {
		return ports.DayReport{}, ports.ErrNotFound
	}
	return days[0], nil
}

func (s *Store) ListDays(ctx context.Context, limit int) ([]ports.DayReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT ordinal, snapshot, recorded_at FROM day_reports ORDER BY ordinal DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list day reports: %w", err)
	}
	defer rows.Close()

	out := []ports.DayReport{}
	for rows.Next() {
		var (
			ordinal    int
			payload    []byte
			recordedAt int64
		)
		if err := rows.Scan(&ordinal, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan day report: %w", err)
		}
		report := ports.DayReport{Date: calendar.FromOrdinal(ordinal), RecordedAt: fromMillis(recordedAt)}
		if err := json.Unmarshal(payload, &report.Snapshot); err != nil {
			return nil, fmt.Errorf("decode day %d: %w", ordinal, err)
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (s *Store) ListMonths(ctx context.Context, limit int) ([]ports.MonthReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT ordinal, summary, recorded_at FROM month_reports ORDER BY ordinal DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list month reports: %w", err)
	}
	defer rows.Close()

	out := []ports.MonthReport{}
	for rows.Next() {
		var (
			ordinal    int
			payload    []byte
			recordedAt int64
		)
		if err := rows.Scan(&ordinal, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan month report: %w", err)
		}
		report := ports.MonthReport{Date: calendar.FromOrdinal(ordinal), RecordedAt: fromMillis(recordedAt)}
		if err := json.Unmarshal(payload, &report.Summary); err != nil {
			return nil, fmt.Errorf("decode month %d: %w", ordinal, err)
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var (
	_ ports.ReportRepository = (*Store)(nil)
	_ ports.TxManager        = (*Store)(nil)
)
