package memory

import (
	"context"
	"errors"
	"testing"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/calendar"
)

func TestReportRepo_ListsLatestFirst(t *testing.T) {
	repo := NewReportRepo(NewStore())
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := repo.SaveDay(ctx, ports.DayReport{Date: calendar.FromOrdinal(i)}); err != nil {
			t.Fatalf("save day %d: %v", i, err)
		}
	}
	days, err := repo.ListDays(ctx, 3)
	if err != nil {
		t.Fatalf("list days: %v", err)
	}
	if len(days) != 3 || days[0].Date.Ordinal() != 5 || days[2].Date.Ordinal() != 3 {
		t.Fatalf("expected days 5,4,3, got %+v", days)
	}
	all, _ := repo.ListDays(ctx, 0)
	if len(all) != 5 {
		t.Fatalf("expected all 5 days without limit, got %d", len(all))
	}
	latest, err := repo.LatestDay(ctx)
	if err != nil || latest.Date.Ordinal() != 5 {
		t.Fatalf("expected latest day 5, got %+v (%v)", latest, err)
	}
}

func TestReportRepo_RejectsDuplicateDate(t *testing.T) {
	repo := NewReportRepo(NewStore())
	ctx := context.Background()
	report := ports.MonthReport{Date: calendar.FromOrdinal(30)}
	if err := repo.SaveMonth(ctx, report); err != nil {
		t.Fatalf("save month: %v", err)
	}
	if err := repo.SaveMonth(ctx, report); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestReportRepo_LatestDayNotFoundWhenEmpty(t *testing.T) {
	repo := NewReportRepo(NewStore())
	if _, err := repo.LatestDay(context.Background()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTxManager_RepoCallsInsideTxDoNotDeadlock(t *testing.T) {
	store := NewStore()
	repo := NewReportRepo(store)
	tx := NewTxManager(store)
	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := repo.SaveDay(ctx, ports.DayReport{Date: calendar.FromOrdinal(1)}); err != nil {
			return err
		}
		if err := repo.SaveMonth(ctx, ports.MonthReport{Date: calendar.FromOrdinal(1)}); err != nil {
			return err
		}
		_, err := repo.LatestDay(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx error: %v", err)
	}
	months, _ := repo.ListMonths(context.Background(), 10)
	if len(months) != 1 {
		t.Fatalf("expected one month, got %d", len(months))
	}
}
