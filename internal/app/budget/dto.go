package budget

import "incumbent/internal/domain/economy"

type TaxTarget string

const (
	TaxPerson   TaxTarget = "person"
	TaxBusiness TaxTarget = "business"
)

// TaxRequest sets a flat tax rate as a percentage in [0,100].
type TaxRequest struct {
	Target  TaxTarget
	Percent float64
}

type TaxResponse struct {
	Target         TaxTarget     `json:"target"`
	ExpectedIncome economy.Money `json:"expected_income"`
}

type Kind string

const (
	Healthcare Kind = "healthcare"
	Welfare    Kind = "welfare"
	Business   Kind = "business"
)

// Request resizes a standing budget. Amount is in cents.
type Request struct {
	Budget Kind
	Amount economy.Money
}

type Response struct {
	Finance economy.FinancePanel `json:"finance"`
}

type CapacityRequest struct {
	Group string
	Total int
}

type CapacityResponse struct {
	Healthcare economy.HealthcarePanel `json:"healthcare"`
}
