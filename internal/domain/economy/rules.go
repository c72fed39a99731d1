package economy

import (
	"fmt"
	"strconv"
	"strings"
)

type RuleID int

const (
	RuleTax RuleID = iota
	RuleBusinessTax
	RuleBusinessFunding
	RuleDenyAge
	RuleDenyHealth
	RuleCoverFood
	RuleCoverFoodUnemployed
)

var ruleNames = [...]string{"tax", "business_tax", "business_funding", "deny_age", "deny_health", "cover_food", "cover_food_unemployed"}

func (id RuleID) String() string {
	if id < 0 || int(id) >= len(ruleNames) {
		return "unknown"
	}
	return ruleNames[id]
}

// ParseRuleID accepts a rule name or its numeric id.
func ParseRuleID(s string) (RuleID, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n < len(ruleNames) {
			return RuleID(n), nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownRule, n)
	}
	for i, name := range ruleNames {
		if name == s {
			return RuleID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, s)
}

// Monetary rule fields are in cents.

type TaxRule struct {
	Enabled       bool    `json:"enabled"`
	MinimumSalary Money   `json:"minimum_salary"`
	TaxRate       float64 `json:"tax_rate"`
}

type BusinessTaxRule struct {
	Enabled              bool    `json:"enabled"`
	MinimumMonthlyIncome Money   `json:"minimum_monthly_income"`
	TaxRate              float64 `json:"tax_rate"`
}

type BusinessFundingRule struct {
	Enabled       bool  `json:"enabled"`
	Fund          Money `json:"fund"`
	MaximumIncome Money `json:"maximum_income"`
	BusinessCount int   `json:"business_count"`
	BudgetCost    Money `json:"budget_cost"`
}

type DenyAgeRule struct {
	Enabled    bool `json:"enabled"`
	MaximumAge int  `json:"maximum_age"`
}

type DenyHealthRule struct {
	Enabled           bool `json:"enabled"`
	MaximumPercentage int  `json:"maximum_percentage"`
}

type CoverFoodRule struct {
	Enabled       bool  `json:"enabled"`
	PeopleCount   int   `json:"people_count"`
	MaximumSalary Money `json:"maximum_salary"`
	BudgetCost    Money `json:"budget_cost"`
}

type CoverFoodUnemployedRule struct {
	Enabled     bool  `json:"enabled"`
	PeopleCount int   `json:"people_count"`
	BudgetCost  Money `json:"budget_cost"`
}

type Rules struct {
	Tax                 TaxRule                 `json:"tax"`
	BusinessTax         BusinessTaxRule         `json:"business_tax"`
	BusinessFunding     BusinessFundingRule     `json:"business_funding"`
	DenyAge             DenyAgeRule             `json:"deny_age"`
	DenyHealth          DenyHealthRule          `json:"deny_health"`
	CoverFood           CoverFoodRule           `json:"cover_food"`
	CoverFoodUnemployed CoverFoodUnemployedRule `json:"cover_food_unemployed"`
}

// personTaxRate replaces the flat rate with the rule's rate once the salary
// reaches the rule's threshold.
func (r *Rules) personTaxRate(flat float64, salary Money) float64 {
	if r.Tax.Enabled && salary >= r.Tax.MinimumSalary {
		return r.Tax.TaxRate
	}
	return flat
}

func (r *Rules) businessTaxRate(flat float64, monthlyIncome Money) float64 {
	if r.BusinessTax.Enabled && monthlyIncome >= r.BusinessTax.MinimumMonthlyIncome {
		return r.BusinessTax.TaxRate
	}
	return flat
}

// deniesCare reports whether the denial rules refuse p a hospital bed.
func (r *Rules) deniesCare(p *Person) bool {
	if r.DenyAge.Enabled && p.Age > r.DenyAge.MaximumAge {
		return true
	}
	if r.DenyHealth.Enabled && p.Health > r.DenyHealth.MaximumPercentage {
		return true
	}
	return false
}

func (r *Rules) setEnabled(id RuleID, enabled bool) error {
	switch id {
	case RuleTax:
		r.Tax.Enabled = enabled
	case RuleBusinessTax:
		r.BusinessTax.Enabled = enabled
	case RuleBusinessFunding:
		r.BusinessFunding.Enabled = enabled
	case RuleDenyAge:
		r.DenyAge.Enabled = enabled
	case RuleDenyHealth:
		r.DenyHealth.Enabled = enabled
	case RuleCoverFood:
		r.CoverFood.Enabled = enabled
	case RuleCoverFoodUnemployed:
		r.CoverFoodUnemployed.Enabled = enabled
	default:
		return Warningf("%w: %d", ErrUnknownRule, id)
	}
	return nil
}

// welfareCommitted is the monthly cost of enabled food cover rules.
func (r *Rules) welfareCommitted() Money {
	var total Money
	if r.CoverFood.Enabled {
		total += r.CoverFood.BudgetCost
	}
	if r.CoverFoodUnemployed.Enabled {
		total += r.CoverFoodUnemployed.BudgetCost
	}
	return total
}

type RuleParams map[string]float64

func (p RuleParams) number(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, Dangerf("expected '%s', was not found", key)
	}
	return v, nil
}

func (p RuleParams) integer(key string) (int64, error) {
	v, err := p.number(key)
	if err != nil {
		return 0, err
	}
	if v != float64(int64(v)) {
		return 0, Dangerf("failed to convert '%v' to an integer", v)
	}
	return int64(v), nil
}

func (p RuleParams) rate(key string) (float64, error) {
	v, err := p.number(key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, Dangerf("'%s' must be within [0,1], got %v", key, v)
	}
	return v, nil
}

func (p RuleParams) count(key string) (int, error) {
	v, err := p.integer(key)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, Dangerf("'%s' must not be negative", key)
	}
	return int(v), nil
}

// money reads a non-negative amount in cents.
func (p RuleParams) money(key string) (Money, error) {
	v, err := p.integer(key)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, Dangerf("'%s' must not be negative", key)
	}
	return Money(v), nil
}
