package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"incumbent/internal/adapter/repo/gorm/model"
	"incumbent/internal/app/ports"
	"incumbent/internal/domain/calendar"
)

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return ReportRepo{db: db}
}

var latestFirst = clause.OrderBy{
	Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "ordinal"}, Desc: true}},
}

func (r ReportRepo) SaveDay(ctx context.Context, report ports.DayReport) error {
	snapshot, err := json.Marshal(report.Snapshot)
	if err != nil {
		return fmt.Errorf("encode day snapshot: %w", err)
	}
	row := model.DayReport{
		Ordinal:           int32(report.Date.Ordinal()),
		SimDate:           report.Date.String(),
		Population:        int32(report.Snapshot.Population),
		GovernmentBalance: int64(report.Snapshot.Government),
		Snapshot:          snapshot,
		RecordedAt:        report.RecordedAt.UTC(),
	}
	return translate(conn(ctx, r.db).Create(&row).Error)
}

func (r ReportRepo) SaveMonth(ctx context.Context, report ports.MonthReport) error {
	summary, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("encode month summary: %w", err)
	}
	row := model.MonthReport{
		Ordinal:           int32(report.Date.Ordinal()),
		SimDate:           report.Date.String(),
		Businesses:        int32(report.Summary.Businesses),
		GovernmentBalance: int64(report.Summary.Government),
		Summary:           summary,
		RecordedAt:        report.RecordedAt.UTC(),
	}
	return translate(conn(ctx, r.db).Create(&row).Error)
}

func (r ReportRepo) LatestDay(ctx context.Context) (ports.DayReport, error) {
	var row model.DayReport
	err := conn(ctx, r.db).Clauses(latestFirst).First(&row).Error
	if err != nil {
		return ports.DayReport{}, translate(err)
	}
	return decodeDay(row)
}

func (r ReportRepo) ListDays(ctx context.Context, limit int) ([]ports.DayReport, error) {
	rows := []model.DayReport{}
	query := conn(ctx, r.db).Clauses(latestFirst)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.DayReport, 0, len(rows))
	for _, row := range rows {
		report, err := decodeDay(row)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, nil
}

func (r ReportRepo) ListMonths(ctx context.Context, limit int) ([]ports.MonthReport, error) {
	rows := []model.MonthReport{}
	query := conn(ctx, r.db).Clauses(latestFirst)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.MonthReport, 0, len(rows))
	for _, row := range rows {
		report := ports.MonthReport{Date: calendar.FromOrdinal(int(row.Ordinal)), RecordedAt: row.RecordedAt}
		if err := json.Unmarshal(row.Summary, &report.Summary); err != nil {
			return nil, fmt.Errorf("decode month %s: %w", row.SimDate, err)
		}
		out = append(out, report)
	}
	return out, nil
}

func decodeDay(row model.DayReport) (ports.DayReport, error) {
	report := ports.DayReport{Date: calendar.FromOrdinal(int(row.Ordinal)), RecordedAt: row.RecordedAt}
	if err := json.Unmarshal(row.Snapshot, &report.Snapshot); err != nil {
		return ports.DayReport{}, fmt.Errorf("decode day %s: %w", row.SimDate, err)
	}
	return report, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ports.ErrConflict, err)
	default:
		return err
	}
}

var _ ports.ReportRepository = ReportRepo{}
