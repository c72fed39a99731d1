package httpadapter

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/goccy/go-json"

	"incumbent/internal/app/budget"
	"incumbent/internal/app/observe"
	"incumbent/internal/app/ports"
	"incumbent/internal/app/replay"
	"incumbent/internal/app/rules"
	"incumbent/internal/app/status"
	"incumbent/internal/domain/economy"
)

type Handler struct {
	ObserveUC    observe.UseCase
	StatusUC     status.UseCase
	ReplayUC     replay.UseCase
	ListRulesUC  rules.ListUseCase
	ToggleRuleUC rules.ToggleUseCase
	UpdateRuleUC rules.UpdateUseCase
	TaxUC        budget.TaxUseCase
	BudgetUC     budget.UseCase
	CapacityUC   budget.CapacityUseCase
	KPI          kpiSnapshotProvider

	// AllowedOrigins restricts CORS; empty allows any origin.
	AllowedOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowedOrigins))

	world := s.Group("/api/world")
	world.GET("/snapshot", h.snapshot)
	world.GET("/status", h.status)
	world.GET("/history", h.history)
	world.GET("/panels/:panel", h.panel)

	api := s.Group("/api")
	api.GET("/rules", h.listRules)
	api.POST("/rules/:rule", h.updateRule)
	api.POST("/rules/:rule/enable", h.toggleRule(true))
	api.POST("/rules/:rule/disable", h.toggleRule(false))
	api.POST("/tax/:target", h.setTax)
	api.POST("/budgets/:budget", h.setBudget)
	api.POST("/healthcare/:group/capacity", h.setCapacity)

	s.GET("/ops/kpi", h.kpi)
}

type taxRequest struct {
	Percent *float64 `json:"percent"`
}

type budgetRequest struct {
	Amount *int64 `json:"amount"`
}

type capacityRequest struct {
	Total *int `json:"total"`
}

func (h Handler) snapshot(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Execute(c, observe.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) panel(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Execute(c, observe.Request{Panel: observe.Panel(ctx.Param("panel"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	from, _ := strconv.Atoi(string(ctx.Query("from")))
	to, _ := strconv.Atoi(string(ctx.Query("to")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		Kind:        replay.Kind(strings.TrimSpace(string(ctx.Query("kind")))),
		Limit:       limit,
		FromOrdinal: from,
		ToOrdinal:   to,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listRules(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ListRulesUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) toggleRule(enabled bool) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		resp, err := h.ToggleRuleUC.Execute(c, rules.ToggleRequest{Rule: ctx.Param("rule"), Enabled: enabled})
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	}
}

func (h Handler) updateRule(c context.Context, ctx *app.RequestContext) {
	var params map[string]float64
	if err := decodeJSON(ctx, &params); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json", "")
		return
	}
	resp, err := h.UpdateRuleUC.Execute(c, rules.UpdateRequest{Rule: ctx.Param("rule"), Params: params})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) setTax(c context.Context, ctx *app.RequestContext) {
	var body taxRequest
	if err := decodeJSON(ctx, &body); err != nil || body.Percent == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "expected {\"percent\": number}", "")
		return
	}
	resp, err := h.TaxUC.Execute(c, budget.TaxRequest{Target: budget.TaxTarget(ctx.Param("target")), Percent: *body.Percent})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) setBudget(c context.Context, ctx *app.RequestContext) {
	var body budgetRequest
	if err := decodeJSON(ctx, &body); err != nil || body.Amount == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "expected {\"amount\": cents}", "")
		return
	}
	resp, err := h.BudgetUC.Execute(c, budget.Request{Budget: budget.Kind(ctx.Param("budget")), Amount: economy.Money(*body.Amount)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) setCapacity(c context.Context, ctx *app.RequestContext) {
	var body capacityRequest
	if err := decodeJSON(ctx, &body); err != nil || body.Total == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "expected {\"total\": beds}", "")
		return
	}
	resp, err := h.CapacityUC.Execute(c, budget.CapacityRequest{Group: ctx.Param("group"), Total: *body.Total})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured", "")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var simErr *economy.SimError
	switch {
	case errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, rules.ErrInvalidRequest),
		errors.Is(err, budget.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error(), "")
	case errors.Is(err, economy.ErrUnknownRule):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_rule", err.Error(), economy.SeverityOf(err).String())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error(), "")
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error(), "")
	case errors.As(err, &simErr) && simErr.Severity != economy.SeverityFatal:
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "command_rejected", simErr.Message, simErr.Severity.String())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error(), "")
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error", economy.SeverityFatal.String())
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message, severity string) {
	body := map[string]string{
		"code":    code,
		"message": message,
	}
	if severity != "" {
		body["severity"] = severity
	}
	ctx.JSON(status, map[string]any{"error": body})
}
