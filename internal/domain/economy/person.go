package economy

import (
	"math/rand/v2"

	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/healthcare"
	"incumbent/internal/domain/sampler"
	"incumbent/internal/domain/welfare"
)

type Person struct {
	ID       PersonID
	Age      int
	Gender   Gender
	Birthday Birthday

	Education              EducationLevel
	YearsInHigherEducation int
	SalaryRange            SalaryRange
	Job                    Job

	Balance Money
	// Salary is annual. Unemployed adults hold their benefit here.
	Salary Money
	Debts  []Debt

	Spending  SpendingTier
	DailyFood int
	Demand    map[ProductType]Money

	Health            int
	HospitalThreshold int
	HospitalCount     int
	MaxHealth         int

	Dying   bool
	DeathIn int

	Hospitalised bool
	HospitalDays int
	hospitalKind healthcare.Kind
	recoverTo    int

	Homeless bool
	Welfare  welfare.Machine

	Assigned  BusinessID
	Purchases map[int]int

	Expecting bool
	BirthDue  calendar.Date
}

func (p *Person) IsAdult() bool {
	return p.Age >= AdultAge
}

func (p *Person) IsOwner() bool {
	_, ok := p.Job.(BusinessOwner)
	return ok
}

func (p *Person) IsUnemployed() bool {
	_, ok := p.Job.(Unemployed)
	return ok
}

// Employable reports whether p can take a job at a business requiring the given education.
func (p *Person) Employable(required EducationLevel) bool {
	if !p.IsUnemployed() || p.Dying {
		return false
	}
	return p.Age >= AdultAge && p.Age <= WorkingAgeCeiling && p.Education >= required
}

// deathDue reports whether a pending death has counted down.
func (p *Person) deathDue() bool {
	return p.Dying && p.DeathIn <= 0
}

func newPerson(rng *rand.Rand, cfg *Config, id PersonID, today calendar.Date) *Person {
	p := &Person{
		ID:        id,
		Gender:    genders.Draw(rng),
		Birthday:  Birthday{Day: sampler.Between(rng, 1, calendar.DaysPerMonth), Month: sampler.Between(rng, 1, calendar.MonthsPerYear)},
		Job:       Unemployed{},
		Demand:    map[ProductType]Money{ProductLeisure: 0},
		Purchases: map[int]int{},
		MaxHealth: MaxHealth,
	}
	bracket := ageBrackets.Draw(rng)
	p.Age = sampler.Between(rng, bracket.lo, bracket.hi)
	p.Education = cfg.education.Draw(rng)
	p.SalaryRange = cfg.SalaryRange(p.Education)
	expected := p.SalaryRange.Mid()

	p.Spending = spendingTable(p.Education, false).Draw(rng)
	p.generateBalance(rng, expected)

	if p.IsAdult() {
		if p.Age >= cfg.Lifecycle.RetirementAge && sampler.Chance(rng, cfg.Lifecycle.RetiredAtGeneration) {
			p.Job = Retired{}
			p.Salary = Dollars(cfg.Government.AnnualPension)
		} else {
			p.Salary = unemployedBenefit(rng)
		}
		p.Debts = generateDebts(rng, p, expected)
		p.DailyFood = p.foodLadder(rng, cfg.foodUnit())
	}

	p.setDemand(rng, expected)
	p.generateHealth(rng)

	if p.Gender == Female && p.Age >= AdultAge && p.Age < FertileUntil && sampler.Chance(rng, cfg.Lifecycle.PregnancyChance) {
		window := (FertileUntil-p.Age)*calendar.DaysPerYear - 1
		p.Expecting = true
		p.BirthDue = today.AddDays(sampler.Between(rng, calendar.DaysPerMonth, max(window, calendar.DaysPerMonth)))
	}
	return p
}

func newInfant(rng *rand.Rand, cfg *Config, id PersonID, today calendar.Date) *Person {
	p := &Person{
		ID:                id,
		Gender:            genders.Draw(rng),
		Birthday:          Birthday{Day: today.Day, Month: today.Month},
		Job:               Unemployed{},
		Demand:            map[ProductType]Money{ProductLeisure: 0},
		Purchases:         map[int]int{},
		Health:            InfantHealth,
		HospitalThreshold: InfantThreshold,
		MaxHealth:         MaxHealth,
	}
	p.Education = cfg.education.Draw(rng)
	p.SalaryRange = cfg.SalaryRange(p.Education)
	p.Spending = spendingTable(p.Education, false).Draw(rng)
	return p
}

func unemployedBenefit(rng *rand.Rand) Money {
	return Dollars(int64(sampler.Between(rng, UnemployedBenefitMin, UnemployedBenefitMax)))
}

func (p *Person) generateBalance(rng *rand.Rand, expected Money) {
	switch {
	case !p.IsAdult():
		p.Balance = FromFloat(sampler.Float(rng, 4, 90, 1))
	case expected > 0:
		p.Balance = expected.Scale(sampler.Float(rng, 0.535, 2.14, 3))
	default:
		p.Balance = FromFloat(sampler.Float(rng, 50, 1200, 1))
	}
}

func (p *Person) generateHealth(rng *rand.Rand) {
	hp := healthProfileForAge(p.Age)
	p.Health = sampler.Below(rng, hp.health[0], hp.health[1])
	p.HospitalThreshold = sampler.Below(rng, hp.threshold[0], hp.threshold[1])
	p.HospitalCount = sampler.Below(rng, hp.history[0], hp.history[1])
}

// setDemand recomputes the month's leisure budget from balance and salary.
// The percentages are sized so that a generated market pays for staff at
// the configured salary bands and budget allocation.
func (p *Person) setDemand(rng *rand.Rand, salary Money) Money {
	if salary <= 0 {
		p.Demand[ProductLeisure] = 0
		return 0
	}
	var balPct, salPct float64
	switch p.Spending {
	case SpendingOne:
		balPct, salPct = sampler.Float(rng, 3, 6, 2), sampler.Float(rng, 20, 35, 1)
	case SpendingTwo:
		balPct, salPct = sampler.Float(rng, 2, 4, 2), sampler.Float(rng, 15, 25, 1)
	case SpendingThree:
		balPct, salPct = sampler.Float(rng, 1, 2.5, 2), sampler.Float(rng, 10, 20, 1)
	default:
		balPct, salPct = sampler.Float(rng, 0.5, 1.5, 2), sampler.Float(rng, 5, 10, 1)
	}
	d := max(p.Balance, 0).Percent(balPct) + salary.Monthly().Percent(salPct)
	p.Demand[ProductLeisure] = d
	return d
}

// CanAfford draws a fresh saving percentage on every call, so the same state
// may answer differently on repeated calls.
func (p *Person) CanAfford(rng *rand.Rand, price, foodUnit Money) bool {
	lo, hi := savingRange(p.Spending)
	saving := float64(sampler.Below(rng, lo, hi))
	available := p.Balance - p.Balance.Percent(saving) - p.Salary.Monthly().Percent(saving)
	available -= p.MonthlyDebtCost()
	available -= foodUnit * Money(p.DailyFood*calendar.DaysPerMonth)
	return available > price
}

func (p *Person) canAffordBare(cost Money) bool {
	return p.Balance-cost > 0
}

// foodLadder picks today's food units from what a month of each level
// would cost on top of debt payments.
func (p *Person) foodLadder(rng *rand.Rand, unit Money) int {
	debt := p.MonthlyDebtCost()
	month := Money(calendar.DaysPerMonth) * unit
	switch {
	case p.canAffordBare(debt + FoodUnitsHealthy*month):
		return FoodUnitsHealthy
	case p.canAffordBare(debt + FoodUnitsSurvive*month):
		return FoodUnitsSurvive
	case p.canAffordBare(debt + FoodUnitsUnhealthy*month):
		return foodDowngrade[p.Spending].Draw(rng)
	default:
		return FoodUnitsStarving
	}
}

// growUp advances one year. Coming of age regenerates the adult economy.
func (p *Person) growUp(rng *rand.Rand, cfg *Config) {
	p.Age++
	if p.Age%2 == 0 {
		p.HospitalThreshold++
	}
	if p.Age == AdultAge {
		if p.IsUnemployed() {
			p.Salary = unemployedBenefit(rng)
		}
		p.Spending = spendingTable(p.Education, p.IsOwner()).Draw(rng)
		p.Debts = generateDebts(rng, p, p.SalaryRange.Mid())
		p.DailyFood = p.foodLadder(rng, cfg.foodUnit())
	}
}

func (p *Person) regenerate(rng *rand.Rand) {
	if sampler.OneIn(rng, HealthRegenOneIn) && p.Health < p.MaxHealth {
		p.Health++
	}
}

func (p *Person) becomeUnemployed(rng *rand.Rand) {
	p.Job = Unemployed{}
	if p.IsAdult() {
		p.Salary = unemployedBenefit(rng)
	} else {
		p.Salary = 0
	}
}
