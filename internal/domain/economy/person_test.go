package economy

import (
	"errors"
	"math/rand/v2"
	"testing"

	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/sampler"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func compiledConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	if err := cfg.Compile(); err != nil {
		t.Fatalf("compile default config: %v", err)
	}
	return &cfg
}

func TestConfig_RejectsEducationWeightsNotSummingToHundred(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Education[0].Chance = 10
	if err := cfg.Compile(); !errors.Is(err, sampler.ErrWeightsNotHundred) {
		t.Fatalf("expected ErrWeightsNotHundred, got %v", err)
	}
	if _, err := NewWorld(cfg, 1); !errors.Is(err, sampler.ErrWeightsNotHundred) {
		t.Fatalf("expected NewWorld to fail fast, got %v", err)
	}
}

func TestConfig_RejectsDuplicateLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Education[1].Level = cfg.Education[0].Level
	if err := cfg.Compile(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDebt_ClearedWhenOwedBelowPayment(t *testing.T) {
	p := &Person{
		Age:     40,
		Salary:  Dollars(60_000),
		Balance: Dollars(1_000),
		Debts:   []Debt{{Owed: 100, PayoffPercent: 20, Kind: DebtEducation}},
	}
	var gov Money
	paid := p.serviceDebts(&gov)
	if paid != 100 || gov != 100 {
		t.Fatalf("expected exactly the owed 100 cents paid, got paid=%d gov=%d", paid, gov)
	}
	if len(p.Debts) != 0 {
		t.Fatalf("expected debt removed, got %+v", p.Debts)
	}
	if p.Balance != Dollars(1_000)-100 {
		t.Fatalf("expected balance reduced by 100 cents, got %s", p.Balance)
	}
}

func TestDebt_PartialPayment(t *testing.T) {
	p := &Person{
		Age:    40,
		Salary: Dollars(60_000),
		Debts:  []Debt{{Owed: Dollars(5_000), PayoffPercent: 10}},
	}
	var gov Money
	p.serviceDebts(&gov)
	if gov != Dollars(500) {
		t.Fatalf("expected 500.00 paid, got %s", gov)
	}
	if len(p.Debts) != 1 || p.Debts[0].Owed != Dollars(4_500) {
		t.Fatalf("expected 4500.00 still owed, got %+v", p.Debts)
	}
}

func TestDebt_NotObligatedBelowThreshold(t *testing.T) {
	p := &Person{
		Age:    30,
		Salary: Dollars(20_000),
		Debts:  []Debt{{Owed: Dollars(5_000), PayoffPercent: 10}},
	}
	var gov Money
	if paid := p.serviceDebts(&gov); paid != 0 || gov != 0 {
		t.Fatalf("expected nothing collected, got %s", paid)
	}
	if p.MonthlyDebtCost() != 0 {
		t.Fatalf("expected no monthly debt cost, got %s", p.MonthlyDebtCost())
	}
}

func TestGenerateDebts_NeverNegative(t *testing.T) {
	rng := testRand(3)
	for i := 0; i < 2000; i++ {
		p := &Person{Age: sampler.Between(rng, 18, 90), Education: EducationLevels[i%len(EducationLevels)], Spending: SpendingTier(i%4 + 1)}
		for _, d := range generateDebts(rng, p, Dollars(80_000)) {
			if d.Owed <= 0 {
				t.Fatalf("expected positive owed amount, got %s", d.Owed)
			}
		}
	}
}

func TestNewPerson_Invariants(t *testing.T) {
	cfg := compiledConfig(t)
	rng := testRand(5)
	for i := 0; i < 1000; i++ {
		p := newPerson(rng, cfg, PersonID{byte(i), byte(i >> 8), 1}, calendar.Start())
		if p.Age < 0 || p.Age > 90 {
			t.Fatalf("expected age within brackets, got %d", p.Age)
		}
		if !p.IsAdult() && len(p.Debts) > 0 {
			t.Fatalf("expected minors without debts, got %+v", p.Debts)
		}
		if p.Job == nil {
			t.Fatalf("expected a job variant")
		}
		if p.Expecting && (p.Gender != Female || p.Age >= FertileUntil) {
			t.Fatalf("expected only fertile women expecting, got %s aged %d", p.Gender, p.Age)
		}
		if p.Health <= 0 || p.Health > p.MaxHealth {
			t.Fatalf("expected health within (0,%d], got %d", p.MaxHealth, p.Health)
		}
	}
}

func TestGrowUp_RegeneratesAtEighteen(t *testing.T) {
	cfg := compiledConfig(t)
	p := &Person{
		Age:               17,
		Education:         Bachelors,
		SalaryRange:       cfg.SalaryRange(Bachelors),
		Job:               Unemployed{},
		Balance:           Dollars(10_000),
		HospitalThreshold: 10,
	}
	p.growUp(testRand(1), cfg)
	if p.Age != 18 || p.HospitalThreshold != 11 {
		t.Fatalf("expected age 18 and threshold 11, got %d and %d", p.Age, p.HospitalThreshold)
	}
	if p.Salary < Dollars(UnemployedBenefitMin) || p.Salary > Dollars(UnemployedBenefitMax) {
		t.Fatalf("expected a benefit, got %s", p.Salary)
	}
	if p.DailyFood == 0 {
		t.Fatalf("expected a food tier after coming of age")
	}
}

func TestFoodLadder_FollowsAffordability(t *testing.T) {
	unit := Money(100)
	rng := testRand(9)
	rich := &Person{Balance: Dollars(10_000), Spending: SpendingTwo}
	if got := rich.foodLadder(rng, unit); got != FoodUnitsHealthy {
		t.Fatalf("expected %d units, got %d", FoodUnitsHealthy, got)
	}
	broke := &Person{Balance: 0, Spending: SpendingTwo}
	if got := broke.foodLadder(rng, unit); got != FoodUnitsStarving {
		t.Fatalf("expected %d units, got %d", FoodUnitsStarving, got)
	}
	// 3 units for 30 days costs 90.00; 2 units cost 60.00.
	tight := &Person{Balance: Dollars(80), Spending: SpendingTwo}
	if got := tight.foodLadder(rng, unit); got != FoodUnitsSurvive && got != FoodUnitsUnhealthy {
		t.Fatalf("expected a downgrade draw, got %d", got)
	}
}

func TestCanAfford_AccountsForCommitments(t *testing.T) {
	rng := testRand(2)
	p := &Person{Balance: Dollars(100), Spending: SpendingOne, DailyFood: FoodUnitsHealthy}
	// food alone commits 120.00
	if p.CanAfford(rng, 100, 100) {
		t.Fatalf("expected food commitment to block the purchase")
	}
	p.Balance = Dollars(10_000)
	if !p.CanAfford(rng, Dollars(10), 100) {
		t.Fatalf("expected purchase to be affordable")
	}
}

func TestSetDemand_ZeroWithoutSalary(t *testing.T) {
	p := &Person{Balance: Dollars(5_000), Spending: SpendingThree, Demand: map[ProductType]Money{}}
	if d := p.setDemand(testRand(1), 0); d != 0 || p.Demand[ProductLeisure] != 0 {
		t.Fatalf("expected zero demand, got %s", d)
	}
	if d := p.setDemand(testRand(1), Dollars(40_000)); d <= 0 {
		t.Fatalf("expected positive demand, got %s", d)
	}
}
