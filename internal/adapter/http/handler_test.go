package httpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
	"github.com/goccy/go-json"

	metricsinmem "incumbent/internal/adapter/metrics/inmemory"
	"incumbent/internal/adapter/repo/memory"
	"incumbent/internal/app/budget"
	"incumbent/internal/app/observe"
	"incumbent/internal/app/ports"
	"incumbent/internal/app/replay"
	"incumbent/internal/app/rules"
	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/economy"
)

type worldAccess struct {
	w *economy.World
}

func (a worldAccess) Do(_ context.Context, fn func(w *economy.World) error) error {
	return fn(a.w)
}

func newTestHandler(t *testing.T) (Handler, *economy.World) {
	t.Helper()
	cfg := economy.DefaultConfig()
	cfg.Population = 30
	w, err := economy.NewWorld(cfg, 9)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	access := worldAccess{w: w}
	return Handler{
		ObserveUC:    observe.UseCase{World: access},
		ListRulesUC:  rules.ListUseCase{World: access},
		ToggleRuleUC: rules.ToggleUseCase{World: access},
		UpdateRuleUC: rules.UpdateUseCase{World: access},
		TaxUC:        budget.TaxUseCase{World: access},
		BudgetUC:     budget.UseCase{World: access},
		CapacityUC:   budget.CapacityUseCase{World: access},
	}, w
}

type errorBody struct {
	Error struct {
		Code     string `json:"code"`
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"error"`
}

func decodeError(t *testing.T, ctx *app.RequestContext) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestSnapshot_OK(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	h.snapshot(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body struct {
		Snapshot struct {
			Population int `json:"population"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Snapshot.Population != 30 {
		t.Fatalf("expected population 30, got %d", body.Snapshot.Population)
	}
}

func TestPanel_UnknownIsBadRequest(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "panel", Value: "weather"}}
	h.panel(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := decodeError(t, ctx).Error.Code; got != "bad_request" {
		t.Fatalf("expected bad_request, got %q", got)
	}
}

func TestToggleRule_Enable(t *testing.T) {
	h, w := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "rule", Value: "cover_food_unemployed"}}
	h.toggleRule(true)(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if !w.Rules().CoverFoodUnemployed.Enabled {
		t.Fatalf("expected rule enabled on the world")
	}
}

func TestUpdateRule_UnknownRuleIsNotFoundWarning(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "rule", Value: "curfew"}}
	ctx.Request.SetBody([]byte(`{"hours":8}`))
	h.updateRule(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeError(t, ctx)
	if body.Error.Code != "unknown_rule" || body.Error.Severity != "warning" {
		t.Fatalf("expected unknown_rule warning, got %+v", body.Error)
	}
}

func TestUpdateRule_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "rule", Value: "tax"}}
	ctx.Request.SetBody([]byte(`{"tax_rate":`))
	h.updateRule(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestSetBudget_RequiresAmount(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "budget", Value: "welfare"}}
	ctx.Request.SetBody([]byte(`{}`))
	h.setBudget(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := decodeError(t, ctx).Error.Code; got != "invalid_json" {
		t.Fatalf("expected invalid_json, got %q", got)
	}
}

func TestSetBudget_OverSpareIsDanger(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "budget", Value: "welfare"}}
	ctx.Request.SetBody([]byte(`{"amount":900000000000}`))
	h.setBudget(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnprocessableEntity; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeError(t, ctx)
	if body.Error.Code != "command_rejected" || body.Error.Severity != "danger" {
		t.Fatalf("expected command_rejected danger, got %+v", body.Error)
	}
}

func TestSetTax_ReturnsExpectedIncome(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "target", Value: "person"}}
	ctx.Request.SetBody([]byte(`{"percent":0}`))
	h.setTax(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body budget.TaxResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Target != budget.TaxPerson || body.ExpectedIncome != 0 {
		t.Fatalf("expected zero person tax, got %+v", body)
	}
}

func TestSetCapacity_OK(t *testing.T) {
	h, w := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "group", Value: "elder"}}
	ctx.Request.SetBody([]byte(`{"total":14}`))
	h.setCapacity(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := w.HealthcarePanel().Unallocated; got != 1 {
		t.Fatalf("expected one unallocated bed, got %d", got)
	}
}

func TestHistory_ListsLatestFirst(t *testing.T) {
	repo := memory.NewReportRepo(memory.NewStore())
	for i := 1; i <= 3; i++ {
		if err := repo.SaveDay(context.Background(), ports.DayReport{Date: calendar.FromOrdinal(i)}); err != nil {
			t.Fatalf("seed day %d: %v", i, err)
		}
	}
	h := Handler{ReplayUC: replay.UseCase{Reports: repo}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/world/history?kind=days&limit=2")
	h.history(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body replay.Response
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Days) != 2 || body.Days[0].Date.Ordinal() != 3 {
		t.Fatalf("expected days 3 and 2, got %+v", body.Days)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI_ReturnsRecorderSnapshot(t *testing.T) {
	rec := metricsinmem.NewRecorder()
	rec.RecordDay(1, 0)
	ctx := &app.RequestContext{}
	Handler{KPI: rec}.kpi(context.Background(), ctx)

	var body metricsinmem.Snapshot
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Days != 1 || body.Births != 1 {
		t.Fatalf("expected one day and one birth, got %+v", body)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		code     string
		severity string
	}{
		{ports.ErrNotFound, consts.StatusNotFound, "not_found", ""},
		{ports.ErrConflict, consts.StatusConflict, "conflict", ""},
		{economy.Warningf("late"), consts.StatusUnprocessableEntity, "command_rejected", "warning"},
		{economy.Fatalf("broken"), consts.StatusInternalServerError, "internal_error", "fatal"},
		{errors.New("boom"), consts.StatusInternalServerError, "internal_error", "fatal"},
		{context.Canceled, consts.StatusServiceUnavailable, "unavailable", ""},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.status)
		}
		body := decodeError(t, ctx)
		if body.Error.Code != tc.code || body.Error.Severity != tc.severity {
			t.Fatalf("%v: expected %s/%q, got %+v", tc.err, tc.code, tc.severity, body.Error)
		}
	}
}
