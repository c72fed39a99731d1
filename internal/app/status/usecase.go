package status

import (
	"context"

	"incumbent/internal/app/ports"
	"incumbent/internal/app/simulation"
	"incumbent/internal/domain/economy"
)

type LoopStatus interface {
	Status() simulation.Status
}

type UseCase struct {
	Loop  LoopStatus
	World ports.WorldAccess
}

func (u UseCase) Execute(ctx context.Context, _ Request) (Response, error) {
	resp := Response{Loop: u.Loop.Status()}
	err := u.World.Do(ctx, func(w *economy.World) error {
		resp.Population = w.Population()
		resp.Businesses = w.BusinessCount()
		resp.Government = w.Government()
		resp.SpareBudget = w.SpareBudget()
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}
