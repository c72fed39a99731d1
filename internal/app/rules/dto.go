package rules

import "incumbent/internal/domain/economy"

type ToggleRequest struct {
	Rule    string
	Enabled bool
}

// UpdateRequest carries the rule's fields by name. Monetary fields are in
// cents, rates are fractions in [0,1].
type UpdateRequest struct {
	Rule   string
	Params map[string]float64
}

type Response struct {
	Rule  string        `json:"rule"`
	Rules economy.Rules `json:"rules"`
}
