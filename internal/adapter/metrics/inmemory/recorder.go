package inmemory

import (
	"sync"

	"incumbent/internal/domain/economy"
)

type Snapshot struct {
	Days             uint64            `json:"days"`
	Months           uint64            `json:"months"`
	Births           uint64            `json:"births"`
	Deaths           uint64            `json:"deaths"`
	BusinessesOpened uint64            `json:"businesses_opened"`
	BusinessesClosed uint64            `json:"businesses_closed"`
	ErrorsTotal      uint64            `json:"errors_total"`
	BySeverity       map[string]uint64 `json:"by_severity"`
}

// Recorder counts tick outcomes for the ops endpoint.
type Recorder struct {
	mu         sync.Mutex
	days       uint64
	months     uint64
	births     uint64
	deaths     uint64
	opened     uint64
	closed     uint64
	bySeverity map[economy.Severity]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		bySeverity: map[economy.Severity]uint64{},
	}
}

func (r *Recorder) RecordDay(births, deaths int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days++
	r.births += uint64(max(births, 0))
	r.deaths += uint64(max(deaths, 0))
}

func (r *Recorder) RecordMonth(opened, closed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.months++
	r.opened += uint64(max(opened, 0))
	r.closed += uint64(max(closed, 0))
}

func (r *Recorder) RecordError(severity economy.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySeverity[severity]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Days:             r.days,
		Months:           r.months,
		Births:           r.births,
		Deaths:           r.deaths,
		BusinessesOpened: r.opened,
		BusinessesClosed: r.closed,
		BySeverity:       make(map[string]uint64, len(r.bySeverity)),
	}
	for k, v := range r.bySeverity {
		out.BySeverity[k.String()] = v
		out.ErrorsTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
