package memory

import (
	"context"
	"sync"

	"incumbent/internal/app/ports"
)

// Store keeps reports in insertion order, which is also date order.
type Store struct {
	mu     sync.RWMutex
	days   []ports.DayReport
	months []ports.MonthReport
}

func NewStore() *Store {
	return &Store{}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read runs fn under the read lock unless ctx already holds the store
// through RunInTx.
func (s *Store) read(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}
