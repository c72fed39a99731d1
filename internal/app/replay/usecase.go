package replay

import (
	"context"
	"errors"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/calendar"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	DefaultLimit = 30
	MaxLimit     = 1000
)

type UseCase struct {
	Reports ports.ReportRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Limit < 0 || req.Limit > MaxLimit {
		return Response{}, ErrInvalidRequest
	}
	if req.FromOrdinal > 0 && req.ToOrdinal > 0 && req.FromOrdinal > req.ToOrdinal {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	switch req.Kind {
	case "", KindDays:
		days, err := u.Reports.ListDays(ctx, limit)
		if err != nil {
			return Response{}, err
		}
		return Response{Days: filterByDate(days, func(r ports.DayReport) calendar.Date { return r.Date }, req.FromOrdinal, req.ToOrdinal)}, nil
	case KindMonths:
		months, err := u.Reports.ListMonths(ctx, limit)
		if err != nil {
			return Response{}, err
		}
		return Response{Months: filterByDate(months, func(r ports.MonthReport) calendar.Date { return r.Date }, req.FromOrdinal, req.ToOrdinal)}, nil
	default:
		return Response{}, ErrInvalidRequest
	}
}

func filterByDate[T any](reports []T, date func(T) calendar.Date, from, to int) []T {
	if from <= 0 && to <= 0 {
		return reports
	}
	out := make([]T, 0, len(reports))
	for _, r := range reports {
		n := date(r).Ordinal()
		if from > 0 && n < from {
			continue
		}
		if to > 0 && n > to {
			continue
		}
		out = append(out, r)
	}
	return out
}
