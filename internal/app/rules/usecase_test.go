package rules

import (
	"context"
	"errors"
	"testing"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/economy"
)

func TestToggleUseCase_EnablesRuleByName(t *testing.T) {
	access := newAccess(t)
	resp, err := ToggleUseCase{World: access}.Execute(context.Background(), ToggleRequest{Rule: "deny_age", Enabled: true})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Rule != "deny_age" || !resp.Rules.DenyAge.Enabled {
		t.Fatalf("expected deny_age enabled, got %+v", resp)
	}

	resp, err = ToggleUseCase{World: access}.Execute(context.Background(), ToggleRequest{Rule: "3", Enabled: false})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Rules.DenyAge.Enabled {
		t.Fatalf("expected deny_age disabled by numeric id")
	}
}

func TestToggleUseCase_UnknownRuleIsWarning(t *testing.T) {
	_, err := ToggleUseCase{World: newAccess(t)}.Execute(context.Background(), ToggleRequest{Rule: "curfew", Enabled: true})
	if !errors.Is(err, economy.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
	if economy.SeverityOf(err) != economy.SeverityWarning {
		t.Fatalf("expected warning severity, got %s", economy.SeverityOf(err))
	}
}

func TestToggleUseCase_RejectsEmptyRule(t *testing.T) {
	if _, err := (ToggleUseCase{}).Execute(context.Background(), ToggleRequest{Rule: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpdateUseCase_ReplacesParameters(t *testing.T) {
	resp, err := UpdateUseCase{World: newAccess(t)}.Execute(context.Background(), UpdateRequest{
		Rule:   "deny_health",
		Params: map[string]float64{"maximum_percentage": 35},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Rules.DenyHealth.MaximumPercentage != 35 {
		t.Fatalf("expected maximum percentage 35, got %d", resp.Rules.DenyHealth.MaximumPercentage)
	}
}

func TestUpdateUseCase_DangerLeavesRulesUntouched(t *testing.T) {
	access := newAccess(t)
	before, err := ListUseCase{World: access}.Execute(context.Background())
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	_, err = UpdateUseCase{World: access}.Execute(context.Background(), UpdateRequest{
		Rule:   "tax",
		Params: map[string]float64{"minimum_salary": 100, "tax_rate": 1.5},
	})
	if economy.SeverityOf(err) != economy.SeverityDanger {
		t.Fatalf("expected danger, got %v", err)
	}
	after, _ := ListUseCase{World: access}.Execute(context.Background())
	if before.Rules != after.Rules {
		t.Fatalf("expected rules unchanged, got %+v", after.Rules)
	}
}

func TestUpdateUseCase_RejectsEmptyParams(t *testing.T) {
	if _, err := (UpdateUseCase{World: newAccess(t)}).Execute(context.Background(), UpdateRequest{Rule: "tax"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func newAccess(t *testing.T) worldAccess {
	t.Helper()
	cfg := economy.DefaultConfig()
	cfg.Population = 0
	w, err := economy.NewWorld(cfg, 3)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return worldAccess{w: w}
}

type worldAccess struct {
	w *economy.World
}

func (a worldAccess) Do(_ context.Context, fn func(w *economy.World) error) error {
	return fn(a.w)
}

var _ ports.WorldAccess = worldAccess{}
