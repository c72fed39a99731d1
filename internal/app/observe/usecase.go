package observe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/economy"
)

var ErrInvalidRequest = errors.New("invalid observe request")

type UseCase struct {
	World ports.WorldAccess
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	panel := Panel(strings.ToLower(strings.TrimSpace(string(req.Panel))))
	build, err := panelBuilder(panel)
	if err != nil {
		return Response{}, err
	}
	var resp Response
	err = u.World.Do(ctx, func(w *economy.World) error {
		resp = Response{Date: w.Date(), Snapshot: w.LastSnapshot(), Panel: panel}
		if build != nil {
			resp.Data = build(w)
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// panelBuilder returns nil for the bare snapshot request.
func panelBuilder(p Panel) (func(w *economy.World) any, error) {
	switch p {
	case "":
		return nil, nil
	case PanelFinance:
		return func(w *economy.World) any { return w.FinancePanel() }, nil
	case PanelHealthcare:
		return func(w *economy.World) any { return w.HealthcarePanel() }, nil
	case PanelWelfare:
		return func(w *economy.World) any { return w.WelfarePanel() }, nil
	case PanelBusiness:
		return func(w *economy.World) any { return w.BusinessPanel() }, nil
	default:
		return nil, fmt.Errorf("%w: unknown panel %q", ErrInvalidRequest, p)
	}
}
