package status

import (
	"incumbent/internal/app/simulation"
	"incumbent/internal/domain/economy"
)

type Request struct{}

type Response struct {
	Loop        simulation.Status `json:"loop"`
	Population  int               `json:"population"`
	Businesses  int               `json:"businesses"`
	Government  economy.Money     `json:"government_balance"`
	SpareBudget economy.Money     `json:"spare_budget"`
}
