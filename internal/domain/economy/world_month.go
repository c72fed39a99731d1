package economy

import (
	"incumbent/internal/domain/sampler"
)

// advanceMonth is the settlement run on the month edge:
//
//  1. person settlement: assignment reset, demand, pay, retirement, debts
//  2. business settlement: funding, income tax, insolvency queue
//  3. insolvent removal
//  4. reallocation of market share
//  5. new businesses when unemployment is high
//  6. government ledger reconciliation
func (w *World) advanceMonth() (MonthSummary, []error) {
	var errs []error
	for _, id := range w.personOrder {
		if p, ok := w.people[id]; ok {
			if err := w.settlePerson(p); err != nil {
				errs = append(errs, err)
			}
		}
	}

	var insolvent []*Business
	for _, b := range w.orderedBusinesses() {
		if w.settleBusiness(b) {
			insolvent = append(insolvent, b)
		}
	}
	for _, b := range insolvent {
		w.closeBusiness(b)
	}
	if len(insolvent) > 0 {
		w.compactBusinesses()
	}

	w.reallocate()
	w.spawnBusinesses()
	errs = append(errs, w.reconcile()...)

	summary := w.monthSummary()
	w.month = monthCounters{}
	w.healthcare.MonthUnhospitalised = 0
	return summary, errs
}

func (w *World) settlePerson(p *Person) error {
	var err error
	p.Assigned = BusinessID{}
	clear(p.Purchases)
	p.setDemand(w.rng, p.Salary)

	switch job := p.Job.(type) {
	case Employee:
		b, ok := w.businesses[job.Business]
		if !ok || !b.hasEmployee(p.ID) {
			err = Dangerf("employer %s of person %s not found", job.Business, p.ID)
			p.becomeUnemployed(w.rng)
			break
		}
		gross := p.Salary.Monthly()
		transfer(&b.Balance, &p.Balance, gross)
		tax := gross.Scale(w.rules.personTaxRate(w.taxRate, p.Salary))
		transfer(&p.Balance, &w.government, tax)
		w.month.wages += gross
		w.month.earners++
		w.month.personTax += tax
	case Unemployed:
		if p.IsAdult() {
			benefit := p.Salary.Monthly()
			transfer(&w.government, &p.Balance, benefit)
			w.month.benefits += benefit
		}
	case Retired:
		pension := p.Salary.Monthly()
		transfer(&w.government, &p.Balance, pension)
		w.month.pensions += pension
	case BusinessOwner:
	}

	if p.Age >= w.cfg.Lifecycle.RetirementAge && !p.IsOwner() {
		if _, retired := p.Job.(Retired); !retired && sampler.Chance(w.rng, w.cfg.Lifecycle.RetirementChance) {
			w.retire(p)
		}
	}

	w.month.debtCollected += p.serviceDebts(&w.government)

	if p.IsAdult() && !p.IsOwner() {
		p.Homeless = p.Balance <= 0
		p.DailyFood = p.foodLadder(w.rng, w.cfg.foodUnit())
	} else {
		p.Homeless = false
	}
	return err
}

func (w *World) retire(p *Person) {
	if job, ok := p.Job.(Employee); ok {
		if b, found := w.businesses[job.Business]; found {
			b.removeEmployee(p.ID)
		}
	}
	p.Job = Retired{}
	p.Salary = Dollars(w.cfg.Government.AnnualPension)
	w.month.retired++
}

// settleBusiness applies the funding rule and taxes last month's profit.
// It reports whether b ended insolvent.
func (w *World) settleBusiness(b *Business) bool {
	var funded Money
	fr := &w.rules.BusinessFunding
	if fr.Enabled && w.month.funded < fr.BusinessCount && b.LastMonthIncome < fr.MaximumIncome {
		transfer(&w.government, &b.Balance, fr.Fund)
		funded = fr.Fund
		w.month.funded++
		w.month.fundingSpent += fr.Fund
	}

	b.LastMonthIncome = b.Revenue
	b.Revenue = 0
	if profit := b.Balance - b.LastMonthBalance - funded; profit > 0 {
		tax := profit.Scale(w.rules.businessTaxRate(w.businessTaxRate, b.LastMonthIncome))
		transfer(&b.Balance, &w.government, tax)
		w.month.businessTax += tax
	}
	return b.Balance <= 0
}

// reallocate redistributes the whole market in proportion to each solvent
// business's reinvestment budget. The first business in sequence order fixes
// the cost of one percentage point; each later one is capped at whatever
// share is left.
func (w *World) reallocate() {
	businesses := w.orderedBusinesses()
	var pool Money
	budgets := make([]Money, len(businesses))
	for i, b := range businesses {
		budgets[i] = max(b.Balance, 0).Percent(b.MarketingPct)
		pool += budgets[i]
	}

	demand := w.totalDemand(ProductLeisure)
	remaining := 100.0
	var costPerPoint float64
	for i, b := range businesses {
		share := 0.0
		if pool > 0 && budgets[i] > 0 {
			if costPerPoint == 0 {
				share = float64(budgets[i]) * 100 / float64(pool)
				costPerPoint = float64(budgets[i]) / share
			} else {
				share = float64(budgets[i]) / costPerPoint
			}
			share = min(share, remaining)
			remaining -= share
			transfer(&b.Balance, &w.external, Money(share*costPerPoint))
		}
		w.reacquire(b, share, demand)
		b.LastMonthBalance = b.Balance
	}
}

// spawnBusinesses opens businesses from the richest candidates when the
// unemployment ratio is above the configured threshold. New businesses
// trade from capital until the next reallocation grants them a share.
func (w *World) spawnBusinesses() {
	if w.unemploymentRatio() <= w.cfg.Business.UnemploymentSpawnRatio {
		return
	}
	for i := 0; i < w.cfg.Business.MaxSpawnPerMonth; i++ {
		founder := w.richestFounder()
		if founder == nil {
			return
		}
		d := w.draftBusiness()
		b := d.business
		b.ExpectedIncome = w.totalDemand(b.Product).Percent(d.reach)
		capital := w.startingBalance(b)
		if capital <= 0 || founder.Balance <= capital {
			return
		}
		w.installBusiness(b, founder)
		transfer(&founder.Balance, &b.Balance, capital)
		b.LastMonthBalance = b.Balance
		w.adjustHeadcount(b)
		w.month.opened++
	}
}

func (w *World) unemploymentRatio() float64 {
	working, unemployed := 0, 0
	for _, id := range w.personOrder {
		p, ok := w.people[id]
		if !ok || !p.IsAdult() || p.Age > WorkingAgeCeiling || p.Dying {
			continue
		}
		working++
		if p.IsUnemployed() {
			unemployed++
		}
	}
	if working == 0 {
		return 0
	}
	return float64(unemployed) / float64(working)
}

func (w *World) richestFounder() *Person {
	var best *Person
	for _, id := range w.personOrder {
		p, ok := w.people[id]
		if !ok || !p.IsAdult() || p.Age > WorkingAgeCeiling || p.Dying || p.Hospitalised || p.IsOwner() {
			continue
		}
		if _, retired := p.Job.(Retired); retired {
			continue
		}
		if best == nil || p.Balance > best.Balance {
			best = p
		}
	}
	return best
}

// reconcile pays the healthcare budget and checks the month's outlays
// against their budgets.
func (w *World) reconcile() []error {
	var errs []error
	hc := Money(w.healthcare.Budget)
	transfer(&w.government, &w.external, hc)
	w.month.healthcareSpent = hc

	if w.month.welfareSpent > w.welfareBudget {
		errs = append(errs, Warningf("welfare outlays %s exceeded the budget of %s", w.month.welfareSpent, w.welfareBudget))
	}
	if w.month.fundingSpent > w.businessBudget {
		errs = append(errs, Warningf("business funding %s exceeded the budget of %s", w.month.fundingSpent, w.businessBudget))
	}
	if w.government < 0 {
		errs = append(errs, Dangerf("government balance is negative: %s", w.government))
	}
	return errs
}
