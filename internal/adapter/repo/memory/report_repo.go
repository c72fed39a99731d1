package memory

import (
	"context"
	"fmt"

	"incumbent/internal/app/ports"
)

type ReportRepo struct {
	store *Store
}

func NewReportRepo(store *Store) ReportRepo {
	return ReportRepo{store: store}
}

func (r ReportRepo) SaveDay(ctx context.Context, report ports.DayReport) error {
	return r.store.write(ctx, func() error {
		days := r.store.days
		if n := len(days); n > 0 && days[n-1].Date.Ordinal() >= report.Date.Ordinal() {
			return fmt.Errorf("%w: day %s already recorded", ports.ErrConflict, report.Date)
		}
		r.store.days = append(days, report)
		return nil
	})
}

func (r ReportRepo) SaveMonth(ctx context.Context, report ports.MonthReport) error {
	return r.store.write(ctx, func() error {
		months := r.store.months
		if n := len(months); n > 0 && months[n-1].Date.Ordinal() >= report.Date.Ordinal() {
			return fmt.Errorf("%w: month %s already recorded", ports.ErrConflict, report.Date)
		}
		r.store.months = append(months, report)
		return nil
	})
}

func (r ReportRepo) LatestDay(ctx context.Context) (ports.DayReport, error) {
	var (
		out ports.DayReport
		ok  bool
	)
	r.store.read(ctx, func() {
		if n := len(r.store.days); n > 0 {
			out, ok = r.store.days[n-1], true
		}
	})
	if !ok {
		return ports.DayReport{}, ports.ErrNotFound
	}
	return out, nil
}

func (r ReportRepo) ListDays(ctx context.Context, limit int) ([]ports.DayReport, error) {
	var out []ports.DayReport
	r.store.read(ctx, func() { out = latestFirst(r.store.days, limit) })
	return out, nil
}

func (r ReportRepo) ListMonths(ctx context.Context, limit int) ([]ports.MonthReport, error) {
	var out []ports.MonthReport
	r.store.read(ctx, func() { out = latestFirst(r.store.months, limit) })
	return out, nil
}

func latestFirst[T any](in []T, limit int) []T {
	n := len(in)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, 0, n)
	for i := len(in) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, in[i])
	}
	return out
}

var _ ports.ReportRepository = ReportRepo{}
