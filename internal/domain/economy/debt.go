package economy

import (
	"math/rand/v2"

	"incumbent/internal/domain/sampler"
)

type DebtKind string

const DebtEducation DebtKind = "education"

type Debt struct {
	Owed Money `json:"owed"`
	// PayoffPercent is the share of monthly salary paid each month.
	PayoffPercent float64  `json:"payoff_percent"`
	Kind          DebtKind `json:"kind"`
}

func (p *Person) debtObligated() bool {
	return p.Age < AdultAge || p.Salary >= DebtRepaymentThreshold
}

func (p *Person) debtPayment(d Debt) Money {
	return p.Salary.Monthly().Percent(d.PayoffPercent)
}

func (p *Person) MonthlyDebtCost() Money {
	if !p.debtObligated() {
		return 0
	}
	var total Money
	for _, d := range p.Debts {
		total += p.debtPayment(d)
	}
	return total
}

// serviceDebts pays each debt's monthly installment to the government. A
// debt owing less than one installment is paid off and dropped.
func (p *Person) serviceDebts(gov *Money) Money {
	if !p.debtObligated() || len(p.Debts) == 0 {
		return 0
	}
	var paid Money
	kept := p.Debts[:0]
	for _, d := range p.Debts {
		pay := p.debtPayment(d)
		if pay <= 0 {
			kept = append(kept, d)
			continue
		}
		if d.Owed < pay {
			transfer(&p.Balance, gov, d.Owed)
			paid += d.Owed
			continue
		}
		transfer(&p.Balance, gov, pay)
		paid += pay
		d.Owed -= pay
		if d.Owed > 0 {
			kept = append(kept, d)
		}
	}
	p.Debts = kept
	return paid
}

func generateDebts(rng *rand.Rand, p *Person, expectedSalary Money) []Debt {
	p.YearsInHigherEducation = sampler.Between(rng, 1, 3)
	years := int64(p.YearsInHigherEducation)

	var owed Money
	switch p.Education {
	case College, AssociateDegree:
		owed = Dollars(int64(sampler.Below(rng, 10000, 12500)) * years)
	case Bachelors:
		owed = Dollars(int64(sampler.Below(rng, 12000, 15000)) * years)
	case AdvancedDegree:
		owed = Dollars(int64(sampler.Below(rng, 30000, 34000)) * years)
	default:
		return nil
	}

	payoff := float64(sampler.Below(rng, 11, 35))
	finished := AdultAge + p.YearsInHigherEducation
	if expectedSalary >= DebtRepaymentThreshold && p.Age > finished {
		owed -= expectedSalary.Percent(payoff).Scale(float64(p.Age - finished))
	}

	pct, lo, hi := prepaidProfile(p.Spending)
	if sampler.Chance(rng, float64(pct)) {
		owed -= Dollars(int64(sampler.Below(rng, lo, hi)))
	}
	if owed <= 0 {
		return nil
	}
	return []Debt{{Owed: owed, PayoffPercent: payoff, Kind: DebtEducation}}
}

func prepaidProfile(t SpendingTier) (chance, lo, hi int) {
	switch t {
	case SpendingOne:
		return 3, 50, 150
	case SpendingTwo:
		return 15, 100, 300
	case SpendingThree:
		return 30, 400, 1200
	default:
		return 72, 800, 3500
	}
}
