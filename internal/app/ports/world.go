package ports

import (
	"context"

	"incumbent/internal/domain/economy"
)

// WorldAccess runs fn with exclusive access to the world. fn must not keep
// the pointer after it returns.
type WorldAccess interface {
	Do(ctx context.Context, fn func(w *economy.World) error) error
}
