package healthcare

import "fmt"

type System struct {
	CostPerBed    int64
	Budget        int64
	TotalCapacity int
	Groups        [3]Group

	MonthUnhospitalised int
}

// NewSystem sizes the pools from the budget. shares are percentages of the
// total capacity handed to child, adult and elder groups.
func NewSystem(budget, costPerBed int64, shares [3]int) (System, error) {
	if costPerBed <= 0 {
		return System{}, ErrInvalidCost
	}
	s := System{CostPerBed: costPerBed, Budget: budget}
	s.TotalCapacity = int(budget / costPerBed)
	allocated := 0
	for i, k := range Kinds {
		n := s.TotalCapacity * shares[i] / 100
		if allocated+n > s.TotalCapacity {
			n = s.TotalCapacity - allocated
		}
		g := s.Group(k)
		g.Total, g.Current = n, n
		g.Budget = int64(n) * costPerBed
		allocated += n
	}
	return s, nil
}

func (s *System) Group(k Kind) *Group {
	switch k {
	case Child, Adult, Elder:
		return &s.Groups[k]
	default:
		return nil
	}
}

func (s *System) GroupForAge(age int) *Group {
	return s.Group(KindForAge(age))
}

func (s *System) Allocated() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Total
	}
	return n
}

func (s *System) Occupied() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Occupied()
	}
	return n
}

func (s *System) Unallocated() int {
	return s.TotalCapacity - s.Allocated()
}

func (s *System) SetGroupCapacity(k Kind, total int) error {
	g := s.Group(k)
	if g == nil {
		return ErrUnknownKind
	}
	if total < 0 {
		return fmt.Errorf("%w: %d", ErrBelowOccupied, total)
	}
	if delta := total - g.Total; delta > s.Unallocated() {
		return fmt.Errorf("%w: need %d, have %d", ErrCapacityExceeded, delta, s.Unallocated())
	}
	if err := g.Resize(total); err != nil {
		return err
	}
	g.Budget = int64(total) * s.CostPerBed
	return nil
}

// CapacityFor reports how many beds a budget buys.
func (s *System) CapacityFor(budget int64) int {
	if s.CostPerBed <= 0 {
		return 0
	}
	return int(budget / s.CostPerBed)
}

func (s *System) SetTotalCapacity(total int) error {
	if total < s.Allocated() {
		return fmt.Errorf("%w: %d < %d", ErrBelowAllocated, total, s.Allocated())
	}
	s.TotalCapacity = total
	return nil
}

func (s *System) Valid() bool {
	for _, g := range s.Groups {
		if !g.Valid() {
			return false
		}
	}
	return s.Allocated() <= s.TotalCapacity
}
