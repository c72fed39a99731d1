package budget

import (
	"context"
	"errors"
	"fmt"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/economy"
	"incumbent/internal/domain/healthcare"
)

var ErrInvalidRequest = errors.New("invalid budget request")

type TaxUseCase struct {
	World ports.WorldAccess
}

func (u TaxUseCase) Execute(ctx context.Context, req TaxRequest) (TaxResponse, error) {
	var set func(w *economy.World) (economy.Money, error)
	switch req.Target {
	case TaxPerson:
		set = func(w *economy.World) (economy.Money, error) { return w.SetTaxRate(req.Percent) }
	case TaxBusiness:
		set = func(w *economy.World) (economy.Money, error) { return w.SetBusinessTaxRate(req.Percent) }
	default:
		return TaxResponse{}, fmt.Errorf("%w: unknown tax %q", ErrInvalidRequest, req.Target)
	}
	resp := TaxResponse{Target: req.Target}
	err := u.World.Do(ctx, func(w *economy.World) error {
		expected, err := set(w)
		resp.ExpectedIncome = expected
		return err
	})
	if err != nil {
		return TaxResponse{}, err
	}
	return resp, nil
}

type UseCase struct {
	World ports.WorldAccess
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	var update func(w *economy.World) error
	switch req.Budget {
	case Healthcare:
		update = func(w *economy.World) error { return w.UpdateHealthcareBudget(req.Amount) }
	case Welfare:
		update = func(w *economy.World) error { return w.UpdateWelfareBudget(req.Amount) }
	case Business:
		update = func(w *economy.World) error { return w.UpdateBusinessBudget(req.Amount) }
	default:
		return Response{}, fmt.Errorf("%w: unknown budget %q", ErrInvalidRequest, req.Budget)
	}
	var resp Response
	err := u.World.Do(ctx, func(w *economy.World) error {
		if err := update(w); err != nil {
			return err
		}
		resp.Finance = w.FinancePanel()
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

type CapacityUseCase struct {
	World ports.WorldAccess
}

func (u CapacityUseCase) Execute(ctx context.Context, req CapacityRequest) (CapacityResponse, error) {
	kind, err := healthcare.ParseKind(req.Group)
	if err != nil {
		return CapacityResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if req.Total < 0 {
		return CapacityResponse{}, ErrInvalidRequest
	}
	var resp CapacityResponse
	err = u.World.Do(ctx, func(w *economy.World) error {
		if err := w.UpdateGroupCapacity(kind, req.Total); err != nil {
			return err
		}
		resp.Healthcare = w.HealthcarePanel()
		return nil
	})
	if err != nil {
		return CapacityResponse{}, err
	}
	return resp, nil
}
