package welfare

const Days = 30

const (
	ImpactOne   = 1
	ImpactTwo   = 2
	ImpactThree = 4
	ImpactFour  = 6
	ImpactFive  = 8
)

type Slot struct {
	Max    int `json:"max"`
	Min    int `json:"min"`
	Amount int `json:"amount"`
}

// Machine keeps one slot per day of the month. AddIf always widens the
// slot's maximum and RemoveIf always widens its minimum, so Amount stays
// within [Min, Max].
type Machine struct {
	slots [Days]Slot
}

func (m *Machine) slot(day int) *Slot {
	if day < 1 || day > Days {
		return nil
	}
	return &m.slots[day-1]
}

func (m *Machine) Reset(day int) {
	if s := m.slot(day); s != nil {
		*s = Slot{}
	}
}

func (m *Machine) AddIf(amount, day int, cond bool) {
	s := m.slot(day)
	if s == nil || amount <= 0 {
		return
	}
	if cond {
		s.Amount += amount
	}
	s.Max += amount
}

func (m *Machine) RemoveIf(amount, day int, cond bool) {
	s := m.slot(day)
	if s == nil || amount <= 0 {
		return
	}
	if cond {
		s.Amount -= amount
	}
	s.Min -= amount
}

func (m *Machine) Day(day int) Slot {
	if s := m.slot(day); s != nil {
		return *s
	}
	return Slot{}
}

// Score is 100 when nothing was recorded, else the achieved share of the
// possible range across all slots.
func (m *Machine) Score() int {
	span, achieved := 0, 0
	for _, s := range m.slots {
		span += s.Max - s.Min
		achieved += s.Amount - s.Min
	}
	if span <= 0 {
		return 100
	}
	score := achieved * 100 / span
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
