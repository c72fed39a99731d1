package observe

import (
	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/economy"
)

type Panel string

const (
	PanelFinance    Panel = "finance"
	PanelHealthcare Panel = "healthcare"
	PanelWelfare    Panel = "welfare"
	PanelBusiness   Panel = "business"
)

// Request selects an optional panel; an empty panel returns only the
// latest day snapshot.
type Request struct {
	Panel Panel
}

type Response struct {
	Date     calendar.Date       `json:"date"`
	Snapshot economy.DaySnapshot `json:"snapshot"`
	Panel    Panel               `json:"panel,omitempty"`
	Data     any                 `json:"data,omitempty"`
}
