package economy

import (
	"math/rand/v2"

	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/healthcare"
	"incumbent/internal/domain/sampler"
	"incumbent/internal/domain/welfare"
)

const (
	homelessIncomeMin = 1
	homelessIncomeMax = 2
)

// DayResult is everything one tick produced. Month is set on the tick that
// crossed a month boundary.
type DayResult struct {
	Date     calendar.Date
	Snapshot DaySnapshot
	Births   int
	Deaths   int
	Month    *MonthSummary
	Errors   []error
}

// Fatal returns the first fatal error of the tick, if any.
func (r DayResult) Fatal() error {
	for _, err := range r.Errors {
		if IsFatal(err) {
			return err
		}
	}
	return nil
}

// AdvanceDay runs one tick: every person's daily step, deaths and births,
// then the monthly settlement when the calendar crossed a month.
func (w *World) AdvanceDay() DayResult {
	return w.AdvanceDayWith(nil)
}

// AdvanceDayWith is AdvanceDay with a wrapper around the monthly settlement.
// On a month edge settle is handed the settlement and must call it exactly
// once. A nil settle runs it directly.
func (w *World) AdvanceDayWith(settle func(run func())) DayResult {
	w.date.NewDay()
	day := w.date.Day
	w.daily = dayCounters{}
	w.births[day-1], w.deaths[day-1] = 0, 0

	var (
		errs     []error
		dead     []*Person
		newborns []*Person
	)
	for _, id := range w.personOrder {
		p, ok := w.people[id]
		if !ok {
			continue
		}
		infant, err := w.personDay(p, day)
		if err != nil {
			errs = append(errs, err)
		}
		if p.deathDue() {
			dead = append(dead, p)
			continue
		}
		if infant != nil {
			newborns = append(newborns, infant)
		}
	}

	for _, p := range dead {
		if err := w.bury(p); err != nil {
			errs = append(errs, err)
		}
		w.deaths[day-1]++
	}
	if len(dead) > 0 {
		w.compactPeople()
	}
	for _, p := range newborns {
		w.addPerson(p)
		w.births[day-1]++
	}

	res := DayResult{Date: w.date, Births: len(newborns), Deaths: len(dead)}
	if w.date.NewMonth {
		run := func() {
			summary, monthErrs := w.advanceMonth()
			res.Month = &summary
			errs = append(errs, monthErrs...)
		}
		if settle == nil {
			run()
		} else {
			settle(run)
		}
		if res.Month == nil {
			errs = append(errs, Fatalf("month %s was not settled", w.date))
		}
	}

	if !w.healthcare.Valid() {
		errs = append(errs, Fatalf("healthcare capacity out of bounds"))
	}
	if got := w.TotalMoney(); got != w.total {
		errs = append(errs, Fatalf("money not conserved: expected %s, got %s", w.total, got))
	}

	w.last = w.snapshot()
	res.Snapshot = w.last
	res.Errors = errs
	return res
}

func (w *World) personDay(p *Person, day int) (*Person, error) {
	var err error
	unit := w.cfg.foodUnit()
	p.Welfare.Reset(day)

	if p.Birthday.Day == w.date.Day && p.Birthday.Month == w.date.Month {
		p.growUp(w.rng, &w.cfg)
	}
	if sampler.OneIn(w.rng, MinorAccidentOneIn) {
		w.damage(p, sampler.Between(w.rng, MinorAccidentMin, MinorAccidentMax))
	}
	if p.Homeless {
		transfer(&w.external, &p.Balance, homelessIncome(w.rng))
		p.Welfare.RemoveIf(welfare.ImpactFour, day, true)
	}

	if w.coverFood(p, unit) {
		if sampler.Chance(w.rng, 0.6) {
			w.damage(p, 1)
		}
		p.Welfare.AddIf(welfare.ImpactTwo, day, true)
	} else if p.IsAdult() && !p.IsOwner() {
		p.DailyFood = p.foodLadder(w.rng, unit)
		transfer(&p.Balance, &w.external, unit*Money(p.DailyFood))
		loss, impact := foodEffects(p.DailyFood)
		if sampler.Chance(w.rng, loss) {
			w.damage(p, 1)
		}
		p.Welfare.AddIf(welfare.ImpactTwo, day, p.DailyFood == FoodUnitsHealthy)
		p.Welfare.RemoveIf(impact, day, true)
	}

	if p.Dying {
		if p.DeathIn > 0 {
			p.DeathIn--
		}
		if p.deathDue() {
			return nil, nil
		}
	}

	if p.Hospitalised {
		p.HospitalDays--
		p.Welfare.RemoveIf(welfare.ImpactThree, day, true)
		if p.HospitalDays <= 0 {
			p.Hospitalised = false
			p.Health = p.recoverTo
			if e := w.healthcare.Group(p.hospitalKind).Release(); e != nil {
				err = Dangerf("discharging person %s: %w", p.ID, e)
			}
		}
	} else {
		p.regenerate(w.rng)
	}

	if e := w.purchase(p, day, unit); e != nil {
		err = e
	}
	if p.IsAdult() {
		p.Welfare.RemoveIf(welfare.ImpactFour, day, p.Assigned.IsZero())
	}

	if p.Expecting && w.date.Same(p.BirthDue) {
		p.Expecting = false
		w.damage(p, sampler.Between(w.rng, w.cfg.Lifecycle.BirthDamageMin, w.cfg.Lifecycle.BirthDamageMax))
		if !p.Dying {
			return newInfant(w.rng, &w.cfg, w.newPersonID(), w.date), err
		}
	}
	return nil, err
}

func homelessIncome(rng *rand.Rand) Money {
	return Dollars(int64(sampler.Between(rng, homelessIncomeMin, homelessIncomeMax)))
}

// coverFood feeds p at the government's expense when a food cover rule
// applies and still has room today.
func (w *World) coverFood(p *Person, unit Money) bool {
	if !p.IsAdult() || p.IsOwner() {
		return false
	}
	r := &w.rules
	switch {
	case r.CoverFoodUnemployed.Enabled && p.IsUnemployed() && w.daily.coveredUnemployed < r.CoverFoodUnemployed.PeopleCount:
		w.daily.coveredUnemployed++
	case r.CoverFood.Enabled && p.Salary <= r.CoverFood.MaximumSalary && w.daily.covered < r.CoverFood.PeopleCount:
		w.daily.covered++
	default:
		return false
	}
	cost := unit * CoveredFoodUnits
	transfer(&w.government, &w.external, cost)
	w.month.welfareSpent += cost
	p.DailyFood = CoveredFoodUnits
	return true
}

// purchase executes today's scheduled purchases at the assigned business.
func (w *World) purchase(p *Person, day int, unit Money) error {
	n := p.Purchases[day]
	if n <= 0 || p.Assigned.IsZero() {
		return nil
	}
	delete(p.Purchases, day)
	b, ok := w.businesses[p.Assigned]
	if !ok {
		return Dangerf("person %s assigned to missing business %s", p.ID, p.Assigned)
	}
	for i := 0; i < n; i++ {
		if !p.CanAfford(w.rng, b.Price, unit) {
			p.Welfare.RemoveIf(welfare.ImpactThree, day, true)
			continue
		}
		transfer(&p.Balance, &b.Balance, b.Price)
		b.Revenue += b.Price
		p.Demand[b.Product] = max(p.Demand[b.Product]-b.Price, 0)
		p.Welfare.AddIf(welfare.ImpactTwo, day, true)
	}
	return nil
}

// damage runs the health pipeline: certain death at the floor, otherwise a
// hospital admission or the unhospitalised path once below the threshold.
func (w *World) damage(p *Person, amount int) {
	p.Health = max(p.Health-amount, 0)
	if p.Health <= DeathHealthFloor {
		p.Dying, p.DeathIn = true, 0
		return
	}
	if p.Dying || p.Hospitalised {
		return
	}
	below := p.HospitalThreshold - p.Health
	if below < 0 {
		return
	}

	kind := healthcare.KindForAge(p.Age)
	group := w.healthcare.Group(kind)
	chance := deathChance(p.Health) + p.HospitalCount
	if p.HospitalThreshold > 20 {
		chance += below
	}
	chance = min(int(float64(chance)*capacityMultiplier(group.Current)), 100)

	if w.rules.deniesCare(p) || !group.Admit() {
		w.healthcare.MonthUnhospitalised++
		chance = min(chance*3, 100)
		if sampler.Chance(w.rng, float64(chance)) {
			p.Dying, p.DeathIn = true, 1
		}
		return
	}

	p.Hospitalised, p.hospitalKind = true, kind
	p.HospitalCount++
	p.HospitalThreshold += thresholdIncrease(w.rng, below)
	p.recoverTo = min(p.MaxHealth, p.HospitalThreshold+max(amount/2, dischargeMargin))
	p.HospitalDays = max(1, chance)
	if sampler.Chance(w.rng, float64(chance)) {
		p.Dying, p.DeathIn = true, sampler.Between(w.rng, 0, p.HospitalDays/2)
	}
}

// dischargeMargin keeps discharged patients clear of their new threshold,
// so a single point of damage does not readmit them.
const dischargeMargin = 2

// thresholdIncrease raises the admission threshold by how far below it the
// patient fell.
func thresholdIncrease(rng *rand.Rand, below int) int {
	switch {
	case below <= 8:
		return sampler.Below(rng, 0, 2)
	case below <= 15:
		return 3
	case below <= 25:
		return 5
	default:
		return 8
	}
}

// bury removes p, freeing its bed and its roster entry. The estate goes to
// the government.
func (w *World) bury(p *Person) error {
	var err error
	if p.Hospitalised {
		if e := w.healthcare.Group(p.hospitalKind).Release(); e != nil {
			err = Dangerf("releasing bed of person %s: %w", p.ID, e)
		}
		p.Hospitalised = false
	}
	if id, ok := employerOf(p.Job); ok {
		b, found := w.businesses[id]
		switch {
		case !found:
			err = Dangerf("business %s of person %s not found", id, p.ID)
		case p.IsOwner():
			b.Owner = PersonID{}
		case !b.removeEmployee(p.ID):
			err = Dangerf("person %s missing from roster of business %s", p.ID, id)
		}
	}
	transfer(&p.Balance, &w.government, p.Balance)
	delete(w.people, p.ID)
	return err
}

func (w *World) birthsPerMonth() int {
	n := 0
	for _, v := range w.births {
		n += v
	}
	return n
}

func (w *World) deathsPerMonth() int {
	n := 0
	for _, v := range w.deaths {
		n += v
	}
	return n
}
