package economy

import (
	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/healthcare"
)

type AgeHistogram struct {
	Children    int `json:"children"`
	YoungAdults int `json:"young_adults"`
	Adults      int `json:"adults"`
	MiddleAged  int `json:"middle_aged"`
	Seniors     int `json:"seniors"`
	Elders      int `json:"elders"`
}

func (h *AgeHistogram) add(age int) {
	switch {
	case age < AdultAge:
		h.Children++
	case age <= 25:
		h.YoungAdults++
	case age <= 34:
		h.Adults++
	case age <= 54:
		h.MiddleAged++
	case age <= WorkingAgeCeiling:
		h.Seniors++
	default:
		h.Elders++
	}
}

type GroupUsage struct {
	Group    string `json:"group"`
	Budget   Money  `json:"budget"`
	Current  int    `json:"current_capacity"`
	Total    int    `json:"total_capacity"`
	Occupied int    `json:"occupied"`
}

func groupUsage(hc *healthcare.System) []GroupUsage {
	out := make([]GroupUsage, 0, len(hc.Groups))
	for _, k := range healthcare.Kinds {
		g := hc.Group(k)
		out = append(out, GroupUsage{
			Group:    k.String(),
			Budget:   Money(g.Budget),
			Current:  g.Current,
			Total:    g.Total,
			Occupied: g.Occupied(),
		})
	}
	return out
}

// DaySnapshot is the read-only aggregate published after every tick.
type DaySnapshot struct {
	Date       calendar.Date `json:"date"`
	Population int           `json:"population"`
	Ages       AgeHistogram  `json:"ages"`

	Employed     int `json:"employed"`
	Unemployed   int `json:"unemployed"`
	Retired      int `json:"retired"`
	Owners       int `json:"owners"`
	Homeless     int `json:"homeless"`
	Hospitalised int `json:"hospitalised"`

	AverageWelfare    int `json:"average_welfare"`
	UnemployedWelfare int `json:"unemployed_welfare"`

	ProjectedMonthlyIncome Money `json:"projected_monthly_income"`
	Government             Money `json:"government_balance"`
	Businesses             int   `json:"businesses"`

	BirthsPerMonth int          `json:"births_per_month"`
	DeathsPerMonth int          `json:"deaths_per_month"`
	Healthcare     []GroupUsage `json:"healthcare"`
}

func (w *World) snapshot() DaySnapshot {
	s := DaySnapshot{
		Date:           w.date,
		Population:     len(w.people),
		Government:     w.government,
		Businesses:     len(w.businesses),
		BirthsPerMonth: w.birthsPerMonth(),
		DeathsPerMonth: w.deathsPerMonth(),
		Healthcare:     groupUsage(&w.healthcare),
	}
	welfareSum, unemployedSum := 0, 0
	for _, id := range w.personOrder {
		p, ok := w.people[id]
		if !ok {
			continue
		}
		s.Ages.add(p.Age)
		score := p.Welfare.Score()
		welfareSum += score
		switch p.Job.(type) {
		case Employee:
			s.Employed++
			s.ProjectedMonthlyIncome += p.Salary.Monthly()
		case BusinessOwner:
			s.Owners++
		case Retired:
			s.Retired++
		case Unemployed:
			if p.IsAdult() {
				s.Unemployed++
				unemployedSum += score
			}
		}
		if p.Homeless {
			s.Homeless++
		}
		if p.Hospitalised {
			s.Hospitalised++
		}
	}
	if s.Population > 0 {
		s.AverageWelfare = welfareSum / s.Population
	}
	if s.Unemployed > 0 {
		s.UnemployedWelfare = unemployedSum / s.Unemployed
	}
	return s
}

// MonthSummary reports one settlement.
type MonthSummary struct {
	Date calendar.Date `json:"date"`

	AverageIncome Money `json:"average_income"`
	Wages         Money `json:"wages"`
	PersonTax     Money `json:"person_tax"`
	BusinessTax   Money `json:"business_tax"`
	Benefits      Money `json:"benefits"`
	Pensions      Money `json:"pensions"`
	DebtCollected Money `json:"debt_collected"`

	WelfareSpent    Money `json:"welfare_spent"`
	FundingSpent    Money `json:"funding_spent"`
	HealthcareSpent Money `json:"healthcare_spent"`

	Retired        int `json:"retired"`
	Unhospitalised int `json:"unhospitalised"`

	Businesses             int   `json:"businesses"`
	Opened                 int   `json:"opened"`
	Closed                 int   `json:"closed"`
	AverageBusinessBalance Money `json:"average_business_balance"`
	AverageBusinessIncome  Money `json:"average_business_income"`

	Government Money `json:"government_balance"`
}

func (w *World) monthSummary() MonthSummary {
	m := w.month
	s := MonthSummary{
		Date:            w.date,
		Wages:           m.wages,
		PersonTax:       m.personTax,
		BusinessTax:     m.businessTax,
		Benefits:        m.benefits,
		Pensions:        m.pensions,
		DebtCollected:   m.debtCollected,
		WelfareSpent:    m.welfareSpent,
		FundingSpent:    m.fundingSpent,
		HealthcareSpent: m.healthcareSpent,
		Retired:         m.retired,
		Unhospitalised:  w.healthcare.MonthUnhospitalised,
		Businesses:      len(w.businesses),
		Opened:          m.opened,
		Closed:          m.closed,
		Government:      w.government,
	}
	if m.earners > 0 {
		s.AverageIncome = m.wages / Money(m.earners)
	}
	if n := Money(len(w.businesses)); n > 0 {
		var balance, income Money
		for _, b := range w.businesses {
			balance += b.Balance
			income += b.LastMonthIncome
		}
		s.AverageBusinessBalance = balance / n
		s.AverageBusinessIncome = income / n
	}
	return s
}

type FinancePanel struct {
	Government           Money           `json:"government_balance"`
	SpareBudget          Money           `json:"spare_budget"`
	TaxRate              float64         `json:"tax_rate"`
	BusinessTaxRate      float64         `json:"business_tax_rate"`
	AverageMonthlyIncome Money           `json:"average_monthly_income"`
	ExpectedPersonTax    Money           `json:"expected_person_tax"`
	ExpectedBusinessTax  Money           `json:"expected_business_tax"`
	HealthcareBudget     Money           `json:"healthcare_budget"`
	WelfareBudget        Money           `json:"welfare_budget"`
	BusinessBudget       Money           `json:"business_budget"`
	TaxRule              TaxRule         `json:"tax_rule"`
	BusinessTaxRule      BusinessTaxRule `json:"business_tax_rule"`
}

func (w *World) FinancePanel() FinancePanel {
	p := FinancePanel{
		Government:          w.government,
		SpareBudget:         w.SpareBudget(),
		TaxRate:             w.taxRate,
		BusinessTaxRate:     w.businessTaxRate,
		ExpectedPersonTax:   w.expectedPersonTax(),
		ExpectedBusinessTax: w.expectedBusinessTax(),
		HealthcareBudget:    Money(w.healthcare.Budget),
		WelfareBudget:       w.welfareBudget,
		BusinessBudget:      w.businessBudget,
		TaxRule:             w.rules.Tax,
		BusinessTaxRule:     w.rules.BusinessTax,
	}
	if w.last.Employed > 0 {
		p.AverageMonthlyIncome = w.last.ProjectedMonthlyIncome / Money(w.last.Employed)
	}
	return p
}

type HealthcarePanel struct {
	Budget              Money          `json:"budget"`
	CostPerBed          Money          `json:"cost_per_bed"`
	TotalCapacity       int            `json:"total_capacity"`
	Unallocated         int            `json:"unallocated"`
	Groups              []GroupUsage   `json:"groups"`
	MonthUnhospitalised int            `json:"month_unhospitalised"`
	DenyAge             DenyAgeRule    `json:"deny_age"`
	DenyHealth          DenyHealthRule `json:"deny_health"`
}

func (w *World) HealthcarePanel() HealthcarePanel {
	hc := &w.healthcare
	return HealthcarePanel{
		Budget:              Money(hc.Budget),
		CostPerBed:          Money(hc.CostPerBed),
		TotalCapacity:       hc.TotalCapacity,
		Unallocated:         hc.Unallocated(),
		Groups:              groupUsage(hc),
		MonthUnhospitalised: hc.MonthUnhospitalised,
		DenyAge:             w.rules.DenyAge,
		DenyHealth:          w.rules.DenyHealth,
	}
}

type WelfarePanel struct {
	Budget              Money                   `json:"budget"`
	Committed           Money                   `json:"committed"`
	MonthSpent          Money                   `json:"month_spent"`
	AverageWelfare      int                     `json:"average_welfare"`
	UnemployedWelfare   int                     `json:"unemployed_welfare"`
	Homeless            int                     `json:"homeless"`
	Unemployed          int                     `json:"unemployed"`
	CoverFood           CoverFoodRule           `json:"cover_food"`
	CoverFoodUnemployed CoverFoodUnemployedRule `json:"cover_food_unemployed"`
}

func (w *World) WelfarePanel() WelfarePanel {
	return WelfarePanel{
		Budget:              w.welfareBudget,
		Committed:           w.rules.welfareCommitted(),
		MonthSpent:          w.month.welfareSpent,
		AverageWelfare:      w.last.AverageWelfare,
		UnemployedWelfare:   w.last.UnemployedWelfare,
		Homeless:            w.last.Homeless,
		Unemployed:          w.last.Unemployed,
		CoverFood:           w.rules.CoverFood,
		CoverFoodUnemployed: w.rules.CoverFoodUnemployed,
	}
}

type BusinessSummary struct {
	ID              BusinessID     `json:"id"`
	MinEducation    EducationLevel `json:"min_education"`
	Balance         Money          `json:"balance"`
	Price           Money          `json:"price"`
	MarketShare     float64        `json:"market_share"`
	Employees       int            `json:"employees"`
	EmployeeSalary  Money          `json:"employee_salary"`
	ExpectedIncome  Money          `json:"expected_income"`
	LastMonthIncome Money          `json:"last_month_income"`
}

type BusinessPanel struct {
	Count            int                 `json:"count"`
	Budget           Money               `json:"budget"`
	AverageBalance   Money               `json:"average_balance"`
	AverageIncome    Money               `json:"average_income"`
	AverageEmployees int                 `json:"average_employees"`
	Funding          BusinessFundingRule `json:"funding"`
	Businesses       []BusinessSummary   `json:"businesses"`
}

func (w *World) BusinessPanel() BusinessPanel {
	p := BusinessPanel{
		Budget:     w.businessBudget,
		Funding:    w.rules.BusinessFunding,
		Businesses: []BusinessSummary{},
	}
	var balance, income Money
	employees := 0
	for _, b := range w.orderedBusinesses() {
		p.Businesses = append(p.Businesses, BusinessSummary{
			ID:              b.ID,
			MinEducation:    b.MinEducation,
			Balance:         b.Balance,
			Price:           b.Price,
			MarketShare:     b.MarketShare,
			Employees:       len(b.Employees),
			EmployeeSalary:  b.EmployeeSalary,
			ExpectedIncome:  b.ExpectedIncome,
			LastMonthIncome: b.LastMonthIncome,
		})
		balance += b.Balance
		income += b.LastMonthIncome
		employees += len(b.Employees)
	}
	p.Count = len(p.Businesses)
	if p.Count > 0 {
		p.AverageBalance = balance / Money(p.Count)
		p.AverageIncome = income / Money(p.Count)
		p.AverageEmployees = employees / p.Count
	}
	return p
}
