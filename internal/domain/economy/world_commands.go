package economy

import (
	"incumbent/internal/domain/healthcare"
)

// SpareBudget is the government balance left after the standing budgets.
func (w *World) SpareBudget() Money {
	return w.government - Money(w.healthcare.Budget) - w.welfareBudget - w.businessBudget
}

func (w *World) SetRuleEnabled(id RuleID, enabled bool) error {
	return w.rules.setEnabled(id, enabled)
}

// UpdateRule replaces a rule's parameters, keeping its enabled flag.
// Monetary parameters are in cents.
func (w *World) UpdateRule(id RuleID, params RuleParams) error {
	r := w.rules
	switch id {
	case RuleTax:
		minimum, err := params.money("minimum_salary")
		if err != nil {
			return err
		}
		rate, err := params.rate("tax_rate")
		if err != nil {
			return err
		}
		r.Tax.MinimumSalary, r.Tax.TaxRate = minimum, rate
	case RuleBusinessTax:
		minimum, err := params.money("minimum_monthly_income")
		if err != nil {
			return err
		}
		rate, err := params.rate("tax_rate")
		if err != nil {
			return err
		}
		r.BusinessTax.MinimumMonthlyIncome, r.BusinessTax.TaxRate = minimum, rate
	case RuleBusinessFunding:
		fund, err := params.money("fund")
		if err != nil {
			return err
		}
		maxIncome, err := params.money("maximum_income")
		if err != nil {
			return err
		}
		count, err := params.count("business_count")
		if err != nil {
			return err
		}
		cost := fund * Money(count)
		if cost > w.businessBudget {
			return Dangerf("business funding would cost %s, the business budget is %s", cost, w.businessBudget)
		}
		r.BusinessFunding.Fund, r.BusinessFunding.MaximumIncome = fund, maxIncome
		r.BusinessFunding.BusinessCount, r.BusinessFunding.BudgetCost = count, cost
	case RuleDenyAge:
		age, err := params.count("maximum_age")
		if err != nil {
			return err
		}
		r.DenyAge.MaximumAge = age
	case RuleDenyHealth:
		pct, err := params.count("maximum_percentage")
		if err != nil {
			return err
		}
		if pct > 100 {
			return Dangerf("'maximum_percentage' must be within [0,100], got %d", pct)
		}
		r.DenyHealth.MaximumPercentage = pct
	case RuleCoverFood:
		count, err := params.count("people_count")
		if err != nil {
			return err
		}
		maxSalary, err := params.money("maximum_salary")
		if err != nil {
			return err
		}
		cost := coverCost(count, w.cfg.foodUnit())
		if avail := w.welfareBudget - r.CoverFoodUnemployed.BudgetCost; cost > avail {
			return Dangerf("food cover would cost %s, only %s of the welfare budget is free", cost, avail)
		}
		r.CoverFood.PeopleCount, r.CoverFood.MaximumSalary, r.CoverFood.BudgetCost = count, maxSalary, cost
	case RuleCoverFoodUnemployed:
		count, err := params.count("people_count")
		if err != nil {
			return err
		}
		cost := coverCost(count, w.cfg.foodUnit())
		if avail := w.welfareBudget - r.CoverFood.BudgetCost; cost > avail {
			return Dangerf("food cover would cost %s, only %s of the welfare budget is free", cost, avail)
		}
		r.CoverFoodUnemployed.PeopleCount, r.CoverFoodUnemployed.BudgetCost = count, cost
	default:
		return Warningf("%w: %d", ErrUnknownRule, id)
	}
	w.rules = r
	return nil
}

// SetTaxRate sets the flat person tax rate from a percentage and returns
// the expected monthly person tax income.
func (w *World) SetTaxRate(pct float64) (Money, error) {
	if pct < 0 || pct > 100 {
		return 0, Dangerf("tax rate must be within [0,100], got %v", pct)
	}
	w.taxRate = pct / 100
	return w.expectedPersonTax(), nil
}

func (w *World) SetBusinessTaxRate(pct float64) (Money, error) {
	if pct < 0 || pct > 100 {
		return 0, Dangerf("business tax rate must be within [0,100], got %v", pct)
	}
	w.businessTaxRate = pct / 100
	return w.expectedBusinessTax(), nil
}

func (w *World) expectedPersonTax() Money {
	var total Money
	for _, p := range w.people {
		if _, ok := p.Job.(Employee); ok {
			total += p.Salary.Monthly().Scale(w.rules.personTaxRate(w.taxRate, p.Salary))
		}
	}
	return total
}

// expectedBusinessTax estimates next month's business tax from expected
// income less wages and overhead.
func (w *World) expectedBusinessTax() Money {
	var total Money
	for _, b := range w.businesses {
		profit := b.ExpectedIncome - b.ExpectedIncome.Percent(b.LossPct) - b.EmployeeSalary.Monthly()*Money(len(b.Employees))
		if profit > 0 {
			total += profit.Scale(w.rules.businessTaxRate(w.businessTaxRate, b.ExpectedIncome))
		}
	}
	return total
}

// UpdateHealthcareBudget resizes total bed capacity to what budget buys.
func (w *World) UpdateHealthcareBudget(budget Money) error {
	if budget < 0 {
		return Dangerf("healthcare budget must not be negative")
	}
	hc := &w.healthcare
	capacity := hc.CapacityFor(int64(budget))
	if occupied := hc.Occupied(); capacity < occupied {
		return Dangerf("a budget of %s buys %d beds, %d are occupied", budget, capacity, occupied)
	}
	if err := w.checkSpare(budget - Money(hc.Budget)); err != nil {
		return err
	}
	if err := hc.SetTotalCapacity(capacity); err != nil {
		return Dangerf("healthcare budget: %w", err)
	}
	hc.Budget = int64(budget)
	return nil
}

func (w *World) UpdateWelfareBudget(budget Money) error {
	if committed := w.rules.welfareCommitted(); budget < committed {
		return Dangerf("welfare budget %s is below the %s committed to food cover", budget, committed)
	}
	if err := w.checkSpare(budget - w.welfareBudget); err != nil {
		return err
	}
	w.welfareBudget = budget
	return nil
}

func (w *World) UpdateBusinessBudget(budget Money) error {
	if f := w.rules.BusinessFunding; f.Enabled && budget < f.BudgetCost {
		return Dangerf("business budget %s is below the %s committed to funding", budget, f.BudgetCost)
	}
	if budget < 0 {
		return Dangerf("business budget must not be negative")
	}
	if err := w.checkSpare(budget - w.businessBudget); err != nil {
		return err
	}
	w.businessBudget = budget
	return nil
}

// checkSpare rejects an increase that would leave no spare budget.
func (w *World) checkSpare(increase Money) error {
	if increase > 0 && w.SpareBudget()-increase <= 0 {
		return Dangerf("not enough spare budget: %s requested, %s available", increase, w.SpareBudget())
	}
	return nil
}

func (w *World) UpdateGroupCapacity(kind healthcare.Kind, total int) error {
	if err := w.healthcare.SetGroupCapacity(kind, total); err != nil {
		return Dangerf("%s capacity: %w", kind, err)
	}
	return nil
}
