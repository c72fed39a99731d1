package rules

import (
	"context"
	"errors"
	"strings"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/economy"
)

var ErrInvalidRequest = errors.New("invalid rule request")

type ListUseCase struct {
	World ports.WorldAccess
}

func (u ListUseCase) Execute(ctx context.Context) (Response, error) {
	var resp Response
	err := u.World.Do(ctx, func(w *economy.World) error {
		resp.Rules = w.Rules()
		return nil
	})
	return resp, err
}

type ToggleUseCase struct {
	World ports.WorldAccess
}

func (u ToggleUseCase) Execute(ctx context.Context, req ToggleRequest) (Response, error) {
	id, err := parseRule(req.Rule)
	if err != nil {
		return Response{}, err
	}
	return apply(ctx, u.World, id, func(w *economy.World) error {
		return w.SetRuleEnabled(id, req.Enabled)
	})
}

type UpdateUseCase struct {
	World ports.WorldAccess
}

func (u UpdateUseCase) Execute(ctx context.Context, req UpdateRequest) (Response, error) {
	id, err := parseRule(req.Rule)
	if err != nil {
		return Response{}, err
	}
	if len(req.Params) == 0 {
		return Response{}, ErrInvalidRequest
	}
	return apply(ctx, u.World, id, func(w *economy.World) error {
		return w.UpdateRule(id, economy.RuleParams(req.Params))
	})
}

func parseRule(raw string) (economy.RuleID, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, ErrInvalidRequest
	}
	id, err := economy.ParseRuleID(raw)
	if err != nil {
		return 0, economy.Warningf("%w", err)
	}
	return id, nil
}

func apply(ctx context.Context, world ports.WorldAccess, id economy.RuleID, fn func(w *economy.World) error) (Response, error) {
	resp := Response{Rule: id.String()}
	err := world.Do(ctx, func(w *economy.World) error {
		if err := fn(w); err != nil {
			return err
		}
		resp.Rules = w.Rules()
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}
