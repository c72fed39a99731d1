package economy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incumbent/internal/domain/healthcare"
	"incumbent/internal/domain/welfare"
)

func newTestWorld(t *testing.T, population int, seed uint64) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Population = population
	w, err := NewWorld(cfg, seed)
	require.NoError(t, err)
	return w
}

func advance(t *testing.T, w *World, days int) []DayResult {
	t.Helper()
	out := make([]DayResult, 0, days)
	for i := 0; i < days; i++ {
		res := w.AdvanceDay()
		require.NoError(t, res.Fatal(), "day %s", res.Date)
		out = append(out, res)
	}
	return out
}

func employed(w *World) int {
	n := 0
	for _, p := range w.people {
		if _, ok := p.Job.(Employee); ok {
			n++
		}
	}
	return n
}

func TestWorld_MoneyConservedAcrossMonths(t *testing.T) {
	w := newTestWorld(t, 400, 42)
	require.Positive(t, employed(w), "payroll transfers need employees")
	start := w.TotalMoney()
	advance(t, w, 120)
	assert.Equal(t, start, w.TotalMoney())
}

func TestWorld_SameSeedSameHistory(t *testing.T) {
	a := newTestWorld(t, 250, 7)
	b := newTestWorld(t, 250, 7)
	advance(t, a, 45)
	advance(t, b, 45)
	assert.Equal(t, a.LastSnapshot(), b.LastSnapshot())
	assert.Equal(t, a.TotalMoney(), b.TotalMoney())
}

func TestWorld_MonthSummaryOnlyOnMonthEdge(t *testing.T) {
	w := newTestWorld(t, 100, 3)
	results := advance(t, w, 60)
	months := 0
	for i, res := range results {
		if res.Month != nil {
			months++
			assert.Equal(t, 1, res.Date.Day, "tick %d", i)
		}
	}
	assert.Equal(t, 2, months)
	assert.Nil(t, results[28].Month)
	require.NotNil(t, results[29].Month)
	assert.Equal(t, 2, results[29].Date.Month)
}

func TestWorld_HospitalBedsMatchPatients(t *testing.T) {
	w := newTestWorld(t, 400, 11)
	for day := 0; day < 90; day++ {
		advance(t, w, 1)
		var patients [3]int
		for _, p := range w.people {
			if p.Hospitalised {
				patients[p.hospitalKind]++
			}
		}
		for _, k := range healthcare.Kinds {
			g := w.healthcare.Group(k)
			require.Equal(t, g.Total, g.Current+g.Occupied())
			require.Equal(t, patients[k], g.Occupied(), "group %s on day %d", k, day)
		}
	}
}

func TestWorld_RostersStayLinked(t *testing.T) {
	w := newTestWorld(t, 400, 21)
	require.Positive(t, employed(w))
	advance(t, w, 95)
	for _, b := range w.businesses {
		for _, id := range b.Employees {
			p, ok := w.people[id]
			require.True(t, ok, "roster of %s holds missing person %s", b.ID, id)
			assert.Equal(t, Employee{Business: b.ID}, p.Job)
			assert.GreaterOrEqual(t, p.Education, b.MinEducation)
		}
	}
	for _, p := range w.people {
		if job, ok := p.Job.(Employee); ok {
			b, found := w.businesses[job.Business]
			require.True(t, found)
			assert.True(t, b.hasEmployee(p.ID))
		}
	}
}

func TestWorld_WelfareScoresWithinBounds(t *testing.T) {
	w := newTestWorld(t, 200, 5)
	advance(t, w, 40)
	for _, p := range w.people {
		s := p.Welfare.Score()
		require.True(t, s >= 0 && s <= 100, "score %d", s)
	}
}

func TestEnterMarket_InsufficientShareAssignsNobody(t *testing.T) {
	w := newTestWorld(t, 300, 13)
	d := w.draftBusiness()
	d.reach = 8

	err := w.enterMarket(d, 5)
	require.ErrorIs(t, err, ErrInsufficientMarket)
	for _, p := range w.people {
		assert.NotEqual(t, d.business.ID, p.Assigned)
	}
	assert.Empty(t, d.business.Employees)
	assert.Zero(t, d.business.ExpectedIncome)
	assert.Zero(t, d.business.UnitsScheduled)
	_, registered := w.businesses[d.business.ID]
	assert.False(t, registered)

	require.ErrorIs(t, w.enterMarket(d, 0), ErrMarketSaturated)
}

func TestGenerateBusinesses_StaffsTheMarket(t *testing.T) {
	w := newTestWorld(t, 1000, 97)
	working := 0
	for _, p := range w.people {
		if p.IsAdult() && p.Age <= WorkingAgeCeiling {
			working++
		}
	}
	require.Positive(t, working)
	// at least one working-age adult in twenty holds a job
	assert.GreaterOrEqual(t, employed(w)*20, working)
	assert.Positive(t, int64(w.LastSnapshot().ProjectedMonthlyIncome))

	staffed := 0
	for _, b := range w.orderedBusinesses() {
		if len(b.Employees) > 0 {
			staffed++
		}
	}
	assert.Positive(t, staffed)
}

func TestGenerateBusinesses_NeverExceedsMarket(t *testing.T) {
	w := newTestWorld(t, 600, 17)
	require.NotZero(t, w.BusinessCount())
	assert.GreaterOrEqual(t, w.remainingMarket(), -1e-9)
}

func TestReallocate_DistributesWholeMarket(t *testing.T) {
	w := newTestWorld(t, 500, 19)
	require.NotZero(t, w.BusinessCount())
	before := w.TotalMoney()

	w.reallocate()

	total := 0.0
	for _, b := range w.orderedBusinesses() {
		assert.GreaterOrEqual(t, b.MarketShare, 0.0)
		total += b.MarketShare
	}
	assert.InDelta(t, 100, total, 1e-6)
	assert.Equal(t, before, w.TotalMoney())
}

func TestCloseBusiness_RevertsEmployeesToUnemployed(t *testing.T) {
	w := newTestWorld(t, 400, 23)
	b := w.orderedBusinesses()[0]
	w.hire(b, 3)
	require.NotEmpty(t, b.Employees)
	staff := append([]PersonID(nil), b.Employees...)
	owner := b.Owner
	before := w.TotalMoney()

	transfer(&b.Balance, &w.government, b.Balance+Dollars(10))
	require.True(t, w.settleBusiness(b))
	w.closeBusiness(b)
	w.compactBusinesses()

	_, ok := w.businesses[b.ID]
	assert.False(t, ok)
	for _, id := range staff {
		p := w.people[id]
		assert.Equal(t, Unemployed{}, p.Job)
		assert.GreaterOrEqual(t, p.Salary, Dollars(UnemployedBenefitMin))
		assert.LessOrEqual(t, p.Salary, Dollars(UnemployedBenefitMax))
	}
	assert.Equal(t, Unemployed{}, w.people[owner].Job)
	assert.Equal(t, before, w.TotalMoney())
}

func TestLayOff_LowestWelfareFirst(t *testing.T) {
	w := newTestWorld(t, 400, 29)
	b := w.orderedBusinesses()[0]
	w.hire(b, 3)
	require.GreaterOrEqual(t, len(b.Employees), 2)
	unhappy := b.Employees[1]
	w.people[unhappy].Welfare.RemoveIf(welfare.ImpactFive, 1, true)

	require.Equal(t, 1, w.layOff(b, 1))
	assert.False(t, b.hasEmployee(unhappy))
	assert.Equal(t, Unemployed{}, w.people[unhappy].Job)
}

func TestOwner_NeverHomelessAndSkipsFoodLadder(t *testing.T) {
	w := newTestWorld(t, 0, 31)
	p := newPerson(w.rng, &w.cfg, w.newPersonID(), w.date)
	p.Age, p.Expecting = 40, false
	p.Job = BusinessOwner{Business: w.newBusinessID()}
	p.Salary, p.Debts = 0, nil
	p.Balance = -Dollars(50)
	p.DailyFood = FoodUnitsHealthy
	p.Health, p.HospitalThreshold = 100, 10
	w.addPerson(p)
	w.total = w.TotalMoney()

	for i := 0; i < 45; i++ {
		w.AdvanceDay()
		if _, alive := w.people[p.ID]; !alive {
			break
		}
		require.False(t, p.Homeless, "day %s", w.date)
		require.Equal(t, FoodUnitsHealthy, p.DailyFood)
	}
}

func TestDamage_FloorIsCertainDeath(t *testing.T) {
	w := newTestWorld(t, 0, 37)
	p := &Person{Age: 30, Health: 5, HospitalThreshold: 40, MaxHealth: MaxHealth}
	w.damage(p, 4)
	assert.True(t, p.Dying)
	assert.Zero(t, p.DeathIn)
	assert.False(t, p.Hospitalised)
}

func TestDamage_AdmitsBelowThreshold(t *testing.T) {
	w := newTestWorld(t, 0, 41)
	p := &Person{Age: 30, Health: 55, HospitalThreshold: 60, MaxHealth: MaxHealth}
	w.damage(p, 5)
	require.True(t, p.Hospitalised)
	assert.Equal(t, 1, w.healthcare.Group(healthcare.Adult).Occupied())
	assert.Equal(t, 1, p.HospitalCount)
	// five points below raises the threshold by at most one
	assert.Contains(t, []int{60, 61}, p.HospitalThreshold)
	assert.Equal(t, p.HospitalThreshold+dischargeMargin, p.recoverTo)
	assert.GreaterOrEqual(t, p.HospitalDays, 1)
}

func TestDamage_DischargedPatientSurvivesOnePointLoss(t *testing.T) {
	w := newTestWorld(t, 0, 45)
	p := &Person{Age: 30, Health: 55, HospitalThreshold: 60, MaxHealth: MaxHealth}
	w.damage(p, 5)
	require.True(t, p.Hospitalised)

	p.Hospitalised, p.Dying, p.HospitalDays = false, false, 0
	p.Health = p.recoverTo
	require.NoError(t, w.healthcare.Group(p.hospitalKind).Release())

	w.damage(p, 1)
	assert.False(t, p.Hospitalised)
	assert.Equal(t, 1, p.HospitalCount)
	assert.Greater(t, p.Health, p.HospitalThreshold)
}

func TestThresholdIncrease_ByDepthBelow(t *testing.T) {
	rng := testRand(3)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		n := thresholdIncrease(rng, i%9)
		require.Contains(t, []int{0, 1}, n)
		seen[n] = true
	}
	assert.True(t, seen[0] && seen[1], "expected both outcomes within eight points")

	cases := map[int]int{9: 3, 15: 3, 16: 5, 25: 5, 26: 8, 60: 8}
	for below, want := range cases {
		assert.Equal(t, want, thresholdIncrease(rng, below), "below %d", below)
	}
}

func TestDamage_EighteenYearOldUsesAdultCare(t *testing.T) {
	w := newTestWorld(t, 0, 49)
	p := &Person{Age: AdultAge, Health: 55, HospitalThreshold: 60, MaxHealth: MaxHealth}
	w.damage(p, 5)
	require.True(t, p.Hospitalised)
	assert.Equal(t, healthcare.Adult, p.hospitalKind)
	assert.Equal(t, 1, w.healthcare.Group(healthcare.Adult).Occupied())
	assert.Zero(t, w.healthcare.Group(healthcare.Child).Occupied())
}

func TestDamage_DeniedCareUsesNoBed(t *testing.T) {
	w := newTestWorld(t, 0, 43)
	require.NoError(t, w.UpdateRule(RuleDenyAge, RuleParams{"maximum_age": 20}))
	require.NoError(t, w.SetRuleEnabled(RuleDenyAge, true))

	p := &Person{Age: 30, Health: 55, HospitalThreshold: 60, MaxHealth: MaxHealth}
	w.damage(p, 5)
	assert.False(t, p.Hospitalised)
	assert.Zero(t, w.healthcare.Occupied())
	assert.Equal(t, 1, w.healthcare.MonthUnhospitalised)
}

func TestDamage_FullGroupUsesNoBed(t *testing.T) {
	w := newTestWorld(t, 0, 47)
	g := w.healthcare.Group(healthcare.Adult)
	for g.Admit() {
	}
	occupied := g.Occupied()

	p := &Person{Age: 30, Health: 55, HospitalThreshold: 60, MaxHealth: MaxHealth}
	w.damage(p, 5)
	assert.False(t, p.Hospitalised)
	assert.Equal(t, occupied, g.Occupied())
	assert.Zero(t, g.Current)
}

func TestUpdateRule_FundingOverBudgetIsDanger(t *testing.T) {
	w := newTestWorld(t, 0, 53)
	before := w.Rules()
	err := w.UpdateRule(RuleBusinessFunding, RuleParams{
		"fund":           float64(Dollars(5_000)),
		"maximum_income": float64(Dollars(500)),
		"business_count": 5,
	})
	require.Error(t, err)
	assert.Equal(t, SeverityDanger, SeverityOf(err))
	assert.Equal(t, before, w.Rules())
}

func TestUpdateRule_MissingFieldIsDanger(t *testing.T) {
	w := newTestWorld(t, 0, 59)
	err := w.UpdateRule(RuleTax, RuleParams{"tax_rate": 0.3})
	require.Error(t, err)
	assert.Equal(t, SeverityDanger, SeverityOf(err))
	assert.Contains(t, err.Error(), "minimum_salary")
}

func TestUpdateRule_FoodCoverSharesWelfareBudget(t *testing.T) {
	w := newTestWorld(t, 0, 61)
	require.NoError(t, w.UpdateRule(RuleCoverFoodUnemployed, RuleParams{"people_count": 100}))
	// 100 people cost 12,000.00 of the 20,000.00 welfare budget.
	err := w.UpdateRule(RuleCoverFood, RuleParams{"people_count": 100, "maximum_salary": float64(Dollars(10_000))})
	require.Error(t, err)
	assert.Equal(t, SeverityDanger, SeverityOf(err))
	require.NoError(t, w.UpdateRule(RuleCoverFood, RuleParams{"people_count": 50, "maximum_salary": float64(Dollars(10_000))}))
}

func TestSetRuleEnabled_UnknownIsWarning(t *testing.T) {
	w := newTestWorld(t, 0, 67)
	err := w.SetRuleEnabled(RuleID(42), true)
	require.Error(t, err)
	assert.Equal(t, SeverityWarning, SeverityOf(err))
	assert.True(t, errors.Is(err, ErrUnknownRule))
}

func TestHealthcareBudget_RejectsBelowOccupied(t *testing.T) {
	w := newTestWorld(t, 0, 71)
	require.True(t, w.healthcare.Group(healthcare.Adult).Admit())
	err := w.UpdateHealthcareBudget(0)
	require.Error(t, err)
	assert.Equal(t, SeverityDanger, SeverityOf(err))
}

func TestHealthcareBudget_RejectsBelowAllocated(t *testing.T) {
	w := newTestWorld(t, 0, 73)
	half := Money(w.healthcare.Budget / 2)
	err := w.UpdateHealthcareBudget(half)
	require.Error(t, err)
	assert.ErrorIs(t, err, healthcare.ErrBelowAllocated)
}

func TestBudgets_RequireSpareBudget(t *testing.T) {
	w := newTestWorld(t, 0, 79)
	spare := w.SpareBudget()
	assert.Equal(t, w.government-Money(w.healthcare.Budget)-w.welfareBudget-w.businessBudget, spare)

	err := w.UpdateWelfareBudget(w.welfareBudget + spare)
	require.Error(t, err)
	require.NoError(t, w.UpdateWelfareBudget(w.welfareBudget+spare/2))
	assert.Equal(t, spare-spare/2, w.SpareBudget())
}

func TestGroupCapacity_CannotExceedUnallocated(t *testing.T) {
	w := newTestWorld(t, 0, 83)
	g := w.healthcare.Group(healthcare.Child)
	err := w.UpdateGroupCapacity(healthcare.Child, g.Total+w.healthcare.Unallocated()+1)
	require.ErrorIs(t, err, healthcare.ErrCapacityExceeded)

	require.NoError(t, w.UpdateGroupCapacity(healthcare.Child, g.Total-1))
	assert.Equal(t, 1, w.healthcare.Unallocated())
}

func TestSetTaxRate_ReturnsExpectedIncome(t *testing.T) {
	w := newTestWorld(t, 300, 89)
	_, err := w.SetTaxRate(120)
	require.Error(t, err)

	zero, err := w.SetTaxRate(0)
	require.NoError(t, err)
	assert.Zero(t, zero)

	require.Positive(t, w.LastSnapshot().Employed)
	some, err := w.SetTaxRate(25)
	require.NoError(t, err)
	assert.Positive(t, int64(some))
}

func TestAdvanceMonth_ClosesInsolventBusiness(t *testing.T) {
	w := newTestWorld(t, 400, 101)
	w.cfg.Business.UnemploymentSpawnRatio = 1
	businesses := w.orderedBusinesses()
	require.NotEmpty(t, businesses)
	b := businesses[0]
	for _, other := range businesses[1:] {
		w.closeBusiness(other)
	}
	w.compactBusinesses()
	w.month = monthCounters{}

	if len(b.Employees) == 0 {
		w.hire(b, 3)
	}
	require.NotEmpty(t, b.Employees)
	staff := append([]PersonID(nil), b.Employees...)
	w.rules.BusinessFunding.Enabled = false
	transfer(&b.Balance, &w.government, b.Balance+Dollars(100))
	before := w.TotalMoney()

	summary, _ := w.advanceMonth()

	_, open := w.businesses[b.ID]
	assert.False(t, open)
	assert.Equal(t, 1, summary.Closed)
	for _, id := range staff {
		p, ok := w.people[id]
		require.True(t, ok)
		assert.Equal(t, Unemployed{}, p.Job)
		assert.GreaterOrEqual(t, p.Salary, Dollars(UnemployedBenefitMin))
		assert.LessOrEqual(t, p.Salary, Dollars(UnemployedBenefitMax))
	}
	assert.Equal(t, before, w.TotalMoney())
}

func TestSettleBusiness_FundingCapsBusinessCount(t *testing.T) {
	w := newTestWorld(t, 600, 103)
	businesses := w.orderedBusinesses()
	require.GreaterOrEqual(t, len(businesses), 4)

	w.rules.BusinessFunding = BusinessFundingRule{
		Enabled:       true,
		Fund:          Dollars(1_000),
		MaximumIncome: Dollars(500),
		BusinessCount: 2,
	}
	w.month = monthCounters{}
	before := make([]Money, len(businesses))
	for i, b := range businesses {
		b.LastMonthIncome = 0
		b.Revenue = 0
		b.Balance += Dollars(10_000)
		w.external -= Dollars(10_000)
		b.LastMonthBalance = b.Balance
		before[i] = b.Balance
	}
	// the first business earned too much to qualify
	businesses[0].LastMonthIncome = Dollars(500)

	for _, b := range businesses {
		require.False(t, w.settleBusiness(b))
	}

	funded := []int{}
	for i, b := range businesses {
		if b.Balance-before[i] == Dollars(1_000) {
			funded = append(funded, i)
		} else {
			assert.Equal(t, before[i], b.Balance, "business %d", i)
		}
	}
	assert.Equal(t, []int{1, 2}, funded)
	assert.Equal(t, 2, w.month.funded)
	assert.Equal(t, Dollars(2_000), w.month.fundingSpent)
}

func TestTaxRules_ReplaceFlatRateAboveThreshold(t *testing.T) {
	r := Rules{
		Tax:         TaxRule{MinimumSalary: Dollars(60_000), TaxRate: 0.3},
		BusinessTax: BusinessTaxRule{MinimumMonthlyIncome: Dollars(50_000), TaxRate: 0.28},
	}
	assert.Equal(t, 0.1, r.personTaxRate(0.1, Dollars(90_000)))
	assert.Equal(t, 0.1, r.businessTaxRate(0.1, Dollars(90_000)))

	r.Tax.Enabled, r.BusinessTax.Enabled = true, true
	assert.Equal(t, 0.1, r.personTaxRate(0.1, Dollars(59_999)))
	assert.Equal(t, 0.3, r.personTaxRate(0.1, Dollars(60_000)))
	assert.Equal(t, 0.1, r.businessTaxRate(0.1, Dollars(49_999)))
	assert.Equal(t, 0.28, r.businessTaxRate(0.1, Dollars(50_000)))
}

func TestSettlePerson_WithholdsProgressiveTax(t *testing.T) {
	w := newTestWorld(t, 400, 107)
	var p *Person
	for _, id := range w.personOrder {
		if q := w.people[id]; q != nil {
			if _, ok := q.Job.(Employee); ok {
				p = q
				break
			}
		}
	}
	require.NotNil(t, p)
	require.NoError(t, w.SetRuleEnabled(RuleTax, true))
	w.taxRate = 0.1
	p.Salary = Dollars(84_000)
	p.Debts = nil
	gov := w.government

	require.NoError(t, w.settlePerson(p))
	want := Dollars(7_000).Scale(0.3)
	assert.Equal(t, want, w.government-gov)
	assert.Equal(t, want, w.month.personTax)
}

func TestUpdateRule_FundingRejectsNegativeAmounts(t *testing.T) {
	w := newTestWorld(t, 0, 109)
	before := w.Rules()
	for _, params := range []RuleParams{
		{"fund": -100, "maximum_income": float64(Dollars(500)), "business_count": 1},
		{"fund": float64(Dollars(100)), "maximum_income": -1, "business_count": 1},
	} {
		err := w.UpdateRule(RuleBusinessFunding, params)
		require.Error(t, err)
		assert.Equal(t, SeverityDanger, SeverityOf(err))
		assert.Contains(t, err.Error(), "must not be negative")
	}
	assert.Equal(t, before, w.Rules())
}

func TestHomelessIncome_OneOrTwoDollars(t *testing.T) {
	rng := testRand(5)
	seen := map[Money]bool{}
	for i := 0; i < 100; i++ {
		n := homelessIncome(rng)
		require.Contains(t, []Money{Dollars(1), Dollars(2)}, n)
		seen[n] = true
	}
	assert.Len(t, seen, 2)
}

func TestPersonDay_UnassignedAdultLosesWelfare(t *testing.T) {
	w := newTestWorld(t, 0, 113)
	day := w.date.Day
	newOwner := func() *Person {
		return &Person{
			ID:                w.newPersonID(),
			Age:               40,
			Job:               BusinessOwner{Business: w.newBusinessID()},
			Demand:            map[ProductType]Money{},
			Purchases:         map[int]int{},
			Health:            100,
			HospitalThreshold: 10,
			MaxHealth:         MaxHealth,
		}
	}

	idle := newOwner()
	_, err := w.personDay(idle, day)
	require.NoError(t, err)
	assert.Equal(t, -welfare.ImpactFour, idle.Welfare.Day(day).Amount)

	buyer := newOwner()
	buyer.Assigned = w.newBusinessID()
	_, err = w.personDay(buyer, day)
	require.NoError(t, err)
	assert.Zero(t, buyer.Welfare.Day(day).Amount)
}

func TestAdvanceDayWith_WrapsMonthSettlement(t *testing.T) {
	w := newTestWorld(t, 100, 127)
	calls := 0
	for i := 0; i < 30; i++ {
		res := w.AdvanceDayWith(func(run func()) {
			calls++
			run()
		})
		require.NoError(t, res.Fatal())
		assert.Equal(t, res.Month != nil, res.Date.NewMonth)
	}
	assert.Equal(t, 1, calls)

	for w.date.AddDays(1).Day != 1 {
		w.AdvanceDay()
	}
	res := w.AdvanceDayWith(func(func()) {})
	require.Error(t, res.Fatal())
	assert.Nil(t, res.Month)
}
