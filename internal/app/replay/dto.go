package replay

import "incumbent/internal/app/ports"

type Kind string

const (
	KindDays   Kind = "days"
	KindMonths Kind = "months"
)

// Request lists persisted reports, latest first. FromOrdinal and ToOrdinal
// bound the simulated date when positive.
type Request struct {
	Kind        Kind
	Limit       int
	FromOrdinal int
	ToOrdinal   int
}

type Response struct {
	Days   []ports.DayReport   `json:"days,omitempty"`
	Months []ports.MonthReport `json:"months,omitempty"`
}
