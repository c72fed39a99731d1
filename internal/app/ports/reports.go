package ports

import (
	"context"
	"errors"
	"time"

	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/economy"
)

var (
	ErrNotFound = errors.New("report not found")
	// ErrConflict is returned when a report for the same date is already
	// stored.
	ErrConflict = errors.New("report already recorded")
)

// TxManager runs fn in one storage transaction. Repositories called with
// the ctx passed to fn join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type DayReport struct {
	Date       calendar.Date       `json:"date"`
	Snapshot   economy.DaySnapshot `json:"snapshot"`
	RecordedAt time.Time           `json:"recorded_at"`
}

type MonthReport struct {
	Date       calendar.Date        `json:"date"`
	Summary    economy.MonthSummary `json:"summary"`
	RecordedAt time.Time            `json:"recorded_at"`
}

// ReportRepository persists the reports emitted by the tick loop. List
// methods return the latest first; a non-positive limit means no limit.
type ReportRepository interface {
	SaveDay(ctx context.Context, report DayReport) error
	SaveMonth(ctx context.Context, report MonthReport) error
	LatestDay(ctx context.Context) (DayReport, error)
	ListDays(ctx context.Context, limit int) ([]DayReport, error)
	ListMonths(ctx context.Context, limit int) ([]MonthReport, error)
}
