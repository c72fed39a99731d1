package economy

import (
	"incumbent/internal/domain/sampler"
	"incumbent/internal/domain/welfare"
)

const (
	AdultAge          = 18
	FertileUntil      = 35
	WorkingAgeCeiling = 64

	DebtRepaymentThreshold = 32_000 * 100

	MinorAccidentOneIn = 7300
	MinorAccidentMin   = 15
	MinorAccidentMax   = 25
	HealthRegenOneIn   = 30
	DeathHealthFloor   = 2

	InfantHealth    = 100
	InfantThreshold = 8
	MaxHealth       = 100

	FoodUnitsHealthy   = 4
	FoodUnitsSurvive   = 3
	FoodUnitsUnhealthy = 2
	FoodUnitsStarving  = 1

	// CoveredFoodUnits is what a covered person receives per day, and the
	// per-person daily cost of the food cover rules.
	CoveredFoodUnits = 4

	UnemployedBenefitMin = 300
	UnemployedBenefitMax = 1100
)

type ageBracket struct{ lo, hi int }

var ageBrackets = sampler.MustNew(
	sampler.E(ageBracket{0, 18}, 24),
	sampler.E(ageBracket{19, 25}, 9),
	sampler.E(ageBracket{26, 34}, 12),
	sampler.E(ageBracket{35, 54}, 25),
	sampler.E(ageBracket{55, 64}, 13),
	sampler.E(ageBracket{65, 90}, 17),
)

var genders = sampler.MustNew(sampler.E(Male, 50), sampler.E(Female, 50))

var (
	ownerSpending = sampler.MustNew(
		sampler.E(SpendingOne, 1), sampler.E(SpendingTwo, 4),
		sampler.E(SpendingThree, 25), sampler.E(SpendingFour, 70),
	)
	noEducationSpending = sampler.MustNew(
		sampler.E(SpendingOne, 75), sampler.E(SpendingTwo, 20),
		sampler.E(SpendingThree, 4), sampler.E(SpendingFour, 1),
	)
	highSchoolSpending = sampler.MustNew(
		sampler.E(SpendingOne, 20), sampler.E(SpendingTwo, 70),
		sampler.E(SpendingThree, 9), sampler.E(SpendingFour, 1),
	)
	collegeSpending = sampler.MustNew(
		sampler.E(SpendingOne, 3), sampler.E(SpendingTwo, 10),
		sampler.E(SpendingThree, 82), sampler.E(SpendingFour, 5),
	)
	degreeSpending = sampler.MustNew(
		sampler.E(SpendingOne, 1), sampler.E(SpendingTwo, 4),
		sampler.E(SpendingThree, 77), sampler.E(SpendingFour, 18),
	)
)

func spendingTable(level EducationLevel, owner bool) sampler.Weighted[SpendingTier] {
	if owner {
		return ownerSpending
	}
	switch level {
	case NoFormalEducation:
		return noEducationSpending
	case HighSchoolDiploma:
		return highSchoolSpending
	case College, AssociateDegree:
		return collegeSpending
	default:
		return degreeSpending
	}
}

// savingRange is the [lo, hi) percentage of funds a tier holds back.
func savingRange(t SpendingTier) (int, int) {
	switch t {
	case SpendingOne:
		return 5, 10
	case SpendingTwo:
		return 8, 14
	case SpendingThree:
		return 15, 20
	default:
		return 20, 28
	}
}

// Chance of settling for 3 rather than 2 food units at the ladder boundary.
var foodDowngrade = map[SpendingTier]sampler.Weighted[int]{
	SpendingOne:   sampler.MustNew(sampler.E(FoodUnitsSurvive, 90), sampler.E(FoodUnitsUnhealthy, 10)),
	SpendingTwo:   sampler.MustNew(sampler.E(FoodUnitsSurvive, 55), sampler.E(FoodUnitsUnhealthy, 45)),
	SpendingThree: sampler.MustNew(sampler.E(FoodUnitsSurvive, 35), sampler.E(FoodUnitsUnhealthy, 65)),
	SpendingFour:  sampler.MustNew(sampler.E(FoodUnitsSurvive, 10), sampler.E(FoodUnitsUnhealthy, 90)),
}

type healthProfile struct {
	health, threshold, history [2]int
}

func healthProfileForAge(age int) healthProfile {
	switch {
	case age <= 20:
		return healthProfile{[2]int{75, 95}, [2]int{8, 15}, [2]int{0, 3}}
	case age <= 35:
		return healthProfile{[2]int{65, 85}, [2]int{12, 20}, [2]int{1, 6}}
	case age <= 55:
		return healthProfile{[2]int{55, 80}, [2]int{15, 25}, [2]int{1, 12}}
	case age <= 75:
		return healthProfile{[2]int{30, 55}, [2]int{20, 40}, [2]int{5, 25}}
	default:
		return healthProfile{[2]int{20, 30}, [2]int{25, 50}, [2]int{5, 25}}
	}
}

func deathChance(health int) int {
	switch {
	case health >= 40:
		return 0
	case health >= 30:
		return 5
	case health >= 20:
		return 20
	case health >= 10:
		return 30
	case health >= DeathHealthFloor:
		return 45
	default:
		return 100
	}
}

// capacityMultiplier scales death chance by how few beds remain free.
func capacityMultiplier(free int) float64 {
	switch {
	case free <= 0:
		return 4
	case free <= 3:
		return 2
	case free <= 7:
		return 1.5
	case free <= 15:
		return 1.2
	default:
		return 1
	}
}

// Daily food outcome by units eaten: chance of losing 1 health, welfare loss.
func foodEffects(units int) (float64, int) {
	switch units {
	case FoodUnitsStarving:
		return 50, welfare.ImpactFive
	case FoodUnitsUnhealthy:
		return 25, welfare.ImpactFour
	case FoodUnitsSurvive:
		return 0.9, welfare.ImpactThree
	default:
		return 0.6, 0
	}
}

// Business drafting tables, by the business's minimum education.
type businessProfile struct {
	price    [2]int // dollars per unit
	reach    [2]float64
	prodCost [2]float64 // percent of price
}

func businessProfileFor(level EducationLevel) businessProfile {
	switch level {
	case NoFormalEducation:
		return businessProfile{[2]int{5, 20}, [2]float64{0.5, 2}, [2]float64{25, 45}}
	case HighSchoolDiploma:
		return businessProfile{[2]int{10, 40}, [2]float64{1, 3}, [2]float64{22, 40}}
	case College, AssociateDegree:
		return businessProfile{[2]int{20, 70}, [2]float64{2, 5}, [2]float64{20, 35}}
	case Bachelors:
		return businessProfile{[2]int{35, 120}, [2]float64{3, 7}, [2]float64{15, 30}}
	default:
		return businessProfile{[2]int{60, 200}, [2]float64{4, 9}, [2]float64{12, 28}}
	}
}

var businessEducation = sampler.MustNew(
	sampler.E(NoFormalEducation, 15),
	sampler.E(HighSchoolDiploma, 35),
	sampler.E(College, 15),
	sampler.E(AssociateDegree, 10),
	sampler.E(Bachelors, 17),
	sampler.E(AdvancedDegree, 8),
)

type reachBoost int

const (
	boostNone reachBoost = iota
	boostModerate
	boostLarge
)

var reachBoosts = sampler.MustNew(
	sampler.E(boostNone, 82),
	sampler.E(boostModerate, 15),
	sampler.E(boostLarge, 3),
)

func boostMultiplier(b reachBoost) [2]float64 {
	switch b {
	case boostModerate:
		return [2]float64{1.5, 2}
	case boostLarge:
		return [2]float64{3, 4}
	default:
		return [2]float64{1, 1}
	}
}
