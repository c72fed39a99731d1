package economy

import (
	"math"
	"sort"

	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/sampler"
)

const maxUnitsPerCustomer = 60

type Business struct {
	ID    BusinessID
	Owner PersonID
	Seq   uint64

	Balance      Money
	MinEducation EducationLevel
	Product      ProductType

	Price          Money
	ProductionCost Money
	MarketingPct   float64
	MarketShare    float64
	// LossPct is the overhead share of income: marketing, production and tax.
	LossPct float64

	Employees      []PersonID
	EmployeeSalary Money

	ExpectedIncome   Money
	LastMonthIncome  Money
	LastMonthBalance Money
	Revenue          Money
	UnitsScheduled   int
}

func (b *Business) hasEmployee(id PersonID) bool {
	for _, e := range b.Employees {
		if e == id {
			return true
		}
	}
	return false
}

func (b *Business) removeEmployee(id PersonID) bool {
	for i, e := range b.Employees {
		if e == id {
			b.Employees = append(b.Employees[:i], b.Employees[i+1:]...)
			return true
		}
	}
	return false
}

// targetHeadcount is how many employees the wage budget carries.
func (b *Business) targetHeadcount(allocation float64) int {
	monthly := b.EmployeeSalary.Monthly()
	if monthly <= 0 || b.ExpectedIncome <= 0 {
		return 0
	}
	return int(b.ExpectedIncome.Scale(allocation) / monthly)
}

// draft is a business that has not entered the market yet.
type draft struct {
	business *Business
	reach    float64
}

func (w *World) draftBusiness() draft {
	level := businessEducation.Draw(w.rng)
	profile := businessProfileFor(level)
	b := &Business{
		ID:           w.newBusinessID(),
		MinEducation: level,
		Product:      ProductLeisure,
		Price:        Dollars(int64(sampler.Between(w.rng, profile.price[0], profile.price[1]))),
		MarketingPct: sampler.Float(w.rng, 5, 15, 1),
	}
	prodPct := sampler.Float(w.rng, profile.prodCost[0], profile.prodCost[1], 1)
	b.ProductionCost = b.Price.Percent(prodPct)

	boost := boostMultiplier(reachBoosts.Draw(w.rng))
	reach := sampler.Float(w.rng, profile.reach[0], profile.reach[1], 2) * sampler.Float(w.rng, boost[0], boost[1], 2)

	b.LossPct = b.MarketingPct + prodPct + w.businessTaxRate*100
	band := w.cfg.SalaryRange(level)
	narrow := math.Min(math.Max(b.LossPct/200, 0), 0.5)
	lo := band.Min + (band.Max - band.Min).Scale(narrow)
	b.EmployeeSalary = lo
	if band.Max > lo {
		b.EmployeeSalary = lo + Money(w.rng.Int64N(int64(band.Max-lo)+1))
	}
	return draft{business: b, reach: reach}
}

func (w *World) remainingMarket() float64 {
	remaining := 100.0
	for _, id := range w.businessOrder {
		if b, ok := w.businesses[id]; ok {
			remaining -= b.MarketShare
		}
	}
	return remaining
}

// enterMarket assigns the draft its reach out of the remaining share. It
// refuses without touching any person when the share does not fit.
func (w *World) enterMarket(d draft, remaining float64) error {
	if remaining <= 0 {
		return ErrMarketSaturated
	}
	if d.reach > remaining {
		return ErrInsufficientMarket
	}
	b := d.business
	b.MarketShare = d.reach
	b.ExpectedIncome = w.matchMarket(b, d.reach, w.totalDemand(b.Product))
	return nil
}

func (w *World) totalDemand(pt ProductType) Money {
	var total Money
	for _, id := range w.personOrder {
		if p, ok := w.people[id]; ok {
			total += p.Demand[pt]
		}
	}
	return total
}

// matchMarket assigns unassigned buyers to b until share percent of the
// total demand is matched, scheduling each buyer's purchases for the month.
// It returns the expected income.
func (w *World) matchMarket(b *Business, share float64, totalDemand Money) Money {
	target := totalDemand.Percent(share)
	if target <= 0 || b.Price <= 0 {
		return 0
	}
	var matched, income Money
	for _, i := range w.rng.Perm(len(w.personOrder)) {
		if matched >= target {
			break
		}
		p, ok := w.people[w.personOrder[i]]
		if !ok || !p.Assigned.IsZero() || !p.IsAdult() || p.Dying {
			continue
		}
		d := p.Demand[b.Product]
		if d <= 0 {
			continue
		}
		matched += d
		p.Assigned = b.ID
		units := min(int(d/b.Price), maxUnitsPerCustomer)
		for u := 0; u < units; u++ {
			p.Purchases[sampler.Between(w.rng, 1, calendar.DaysPerMonth)]++
		}
		b.UnitsScheduled += units
		income += Money(units) * b.Price
	}
	return income
}

func (w *World) hire(b *Business, n int) int {
	hired := 0
	for _, id := range w.personOrder {
		if hired >= n {
			break
		}
		p, ok := w.people[id]
		if !ok || !p.Employable(b.MinEducation) {
			continue
		}
		p.Job = Employee{Business: b.ID}
		p.Salary = b.EmployeeSalary
		b.Employees = append(b.Employees, p.ID)
		hired++
	}
	return hired
}

// layOff lets n employees go, lowest welfare first. Ties keep roster order.
func (w *World) layOff(b *Business, n int) int {
	if n <= 0 || len(b.Employees) == 0 {
		return 0
	}
	ranked := make([]PersonID, len(b.Employees))
	copy(ranked, b.Employees)
	sort.SliceStable(ranked, func(i, j int) bool {
		return w.welfareOf(ranked[i]) < w.welfareOf(ranked[j])
	})
	n = min(n, len(ranked))
	for _, id := range ranked[:n] {
		b.removeEmployee(id)
		if p, ok := w.people[id]; ok {
			p.becomeUnemployed(w.rng)
		}
	}
	return n
}

func (w *World) welfareOf(id PersonID) int {
	if p, ok := w.people[id]; ok {
		return p.Welfare.Score()
	}
	return 0
}

func (w *World) adjustHeadcount(b *Business) {
	target := b.targetHeadcount(w.cfg.Business.BudgetAllocation)
	switch current := len(b.Employees); {
	case target > current:
		w.hire(b, target-current)
	case target < current:
		w.layOff(b, current-target)
	}
}

func (w *World) startingBalance(b *Business) Money {
	income := b.ExpectedIncome
	return income.Scale(sampler.Float(w.rng, 1.5, 3, 2)) - income.Percent(b.LossPct)
}

// installBusiness registers b and makes owner its BusinessOwner.
func (w *World) installBusiness(b *Business, owner *Person) {
	w.nextSeq++
	b.Seq = w.nextSeq
	w.businesses[b.ID] = b
	w.businessOrder = append(w.businessOrder, b.ID)

	if id, ok := employerOf(owner.Job); ok {
		if prev, ok := w.businesses[id]; ok {
			prev.removeEmployee(owner.ID)
		}
	}
	owner.Job = BusinessOwner{Business: b.ID}
	owner.Salary = 0
	owner.Spending = ownerSpending.Draw(w.rng)
	owner.DailyFood = FoodUnitsHealthy
	owner.Homeless = false
	b.Owner = owner.ID
}

// reacquire re-matches demand for a newly bought share, pays production for
// the scheduled units and resizes the workforce.
func (w *World) reacquire(b *Business, share float64, totalDemand Money) {
	b.MarketShare = share
	b.UnitsScheduled = 0
	b.ExpectedIncome = w.matchMarket(b, share, totalDemand)
	transfer(&b.Balance, &w.external, Money(b.UnitsScheduled)*b.ProductionCost)
	w.adjustHeadcount(b)
}

// closeBusiness removes b, reverting its staff and owner to Unemployed. The
// government absorbs whatever balance is left, positive or negative.
func (w *World) closeBusiness(b *Business) {
	for _, id := range b.Employees {
		if p, ok := w.people[id]; ok {
			p.becomeUnemployed(w.rng)
		}
	}
	b.Employees = nil
	if owner, ok := w.people[b.Owner]; ok && owner.IsOwner() {
		owner.becomeUnemployed(w.rng)
		owner.Spending = spendingTable(owner.Education, false).Draw(w.rng)
	}
	for _, id := range w.personOrder {
		if p, ok := w.people[id]; ok && p.Assigned == b.ID {
			p.Assigned = BusinessID{}
			clear(p.Purchases)
		}
	}
	transfer(&b.Balance, &w.government, b.Balance)
	delete(w.businesses, b.ID)
	w.month.closed++
}
