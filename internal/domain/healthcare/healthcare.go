package healthcare

import (
	"errors"
	"fmt"
)

var (
	ErrNoCapacity       = errors.New("healthcare group has no free beds")
	ErrNothingToRelease = errors.New("healthcare group has no occupied beds")
	ErrBelowOccupied    = errors.New("capacity below occupied beds")
	ErrBelowAllocated   = errors.New("total capacity below beds allocated to groups")
	ErrCapacityExceeded = errors.New("capacity exceeds unallocated total")
	ErrUnknownKind      = errors.New("unknown healthcare group")
	ErrInvalidCost      = errors.New("cost per bed must be positive")
)

type Kind int

const (
	Child Kind = iota
	Adult
	Elder
)

var Kinds = [...]Kind{Child, Adult, Elder}

// KindForAge places 18 year olds in adult care and 65 year olds in elder
// care, the same ages at which people come of age and may retire.
func KindForAge(age int) Kind {
	switch {
	case age < 18:
		return Child
	case age < 65:
		return Adult
	default:
		return Elder
	}
}

func (k Kind) String() string {
	switch k {
	case Child:
		return "child"
	case Adult:
		return "adult"
	case Elder:
		return "elder"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Group is one age-segmented bed pool. Current counts free beds, so
// Current + Occupied() == Total at all times.
type Group struct {
	Budget  int64 `json:"budget"`
	Current int   `json:"current_capacity"`
	Total   int   `json:"total_capacity"`
}

func (g *Group) Occupied() int {
	return g.Total - g.Current
}

func (g *Group) Admit() bool {
	if g.Current <= 0 {
		return false
	}
	g.Current--
	return true
}

func (g *Group) Release() error {
	if g.Current >= g.Total {
		return ErrNothingToRelease
	}
	g.Current++
	return nil
}

func (g *Group) Resize(total int) error {
	occupied := g.Occupied()
	if total < occupied {
		return fmt.Errorf("%w: %d < %d", ErrBelowOccupied, total, occupied)
	}
	g.Total = total
	g.Current = total - occupied
	return nil
}

func (g Group) Valid() bool {
	return g.Current >= 0 && g.Current <= g.Total
}
