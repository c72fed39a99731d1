package economy

import (
	"errors"
	"fmt"

	"incumbent/internal/domain/sampler"
)

var ErrInvalidConfig = errors.New("invalid config")

type Range struct {
	Min int64 `yaml:"min" json:"min"`
	Max int64 `yaml:"max" json:"max"`
}

type EducationConfig struct {
	Level       EducationLevel `yaml:"level" json:"level"`
	Chance      int            `yaml:"chance" json:"chance"`
	SalaryRange Range          `yaml:"salary_range" json:"salary_range"`
}

type GovernmentConfig struct {
	StartingBalance  int64   `yaml:"starting_balance" json:"starting_balance"`
	TaxRate          float64 `yaml:"tax_rate" json:"tax_rate"`
	BusinessTaxRate  float64 `yaml:"business_tax_rate" json:"business_tax_rate"`
	HealthcareBudget int64   `yaml:"healthcare_budget" json:"healthcare_budget"`
	WelfareBudget    int64   `yaml:"welfare_budget" json:"welfare_budget"`
	BusinessBudget   int64   `yaml:"business_budget" json:"business_budget"`
	CostPerBed       int64   `yaml:"cost_per_bed" json:"cost_per_bed"`
	CareShares       [3]int  `yaml:"care_shares" json:"care_shares"`
	AnnualPension    int64   `yaml:"annual_pension" json:"annual_pension"`
}

type BusinessConfig struct {
	// BudgetAllocation is the share of expected income spent on wages.
	BudgetAllocation       float64 `yaml:"budget_allocation" json:"budget_allocation"`
	UnemploymentSpawnRatio float64 `yaml:"unemployment_spawn_ratio" json:"unemployment_spawn_ratio"`
	MaxSpawnPerMonth       int     `yaml:"max_spawn_per_month" json:"max_spawn_per_month"`
	MaxGenerationAttempts  int     `yaml:"max_generation_attempts" json:"max_generation_attempts"`
}

type LifecycleConfig struct {
	RetirementAge        int     `yaml:"retirement_age" json:"retirement_age"`
	RetirementChance     float64 `yaml:"retirement_chance" json:"retirement_chance"`
	PregnancyChance      float64 `yaml:"pregnancy_chance" json:"pregnancy_chance"`
	BirthDamageMin       int     `yaml:"birth_damage_min" json:"birth_damage_min"`
	BirthDamageMax       int     `yaml:"birth_damage_max" json:"birth_damage_max"`
	RetiredAtGeneration  float64 `yaml:"retired_at_generation" json:"retired_at_generation"`
	FoodUnitPriceInCents int64   `yaml:"food_unit_price_cents" json:"food_unit_price_cents"`
}

// Config is the game configuration consumed at generation. Monetary values
// are whole dollars unless the field name says otherwise.
type Config struct {
	Population int               `yaml:"population" json:"population"`
	Education  []EducationConfig `yaml:"education" json:"education"`
	Government GovernmentConfig  `yaml:"government" json:"government"`
	Business   BusinessConfig    `yaml:"business" json:"business"`
	Lifecycle  LifecycleConfig   `yaml:"lifecycle" json:"lifecycle"`

	education sampler.Weighted[EducationLevel]
	salaries  [len(EducationLevels)]SalaryRange
}

func DefaultConfig() Config {
	return Config{
		Population: 1000,
		Education: []EducationConfig{
			{Level: NoFormalEducation, Chance: 9, SalaryRange: Range{Min: 18000, Max: 30000}},
			{Level: HighSchoolDiploma, Chance: 38, SalaryRange: Range{Min: 25000, Max: 42000}},
			{Level: College, Chance: 15, SalaryRange: Range{Min: 30000, Max: 48000}},
			{Level: AssociateDegree, Chance: 10, SalaryRange: Range{Min: 34000, Max: 52000}},
			{Level: Bachelors, Chance: 20, SalaryRange: Range{Min: 42000, Max: 75000}},
			{Level: AdvancedDegree, Chance: 8, SalaryRange: Range{Min: 55000, Max: 110000}},
		},
		Government: GovernmentConfig{
			StartingBalance:  5_000_000,
			TaxRate:          0.24,
			BusinessTaxRate:  0.22,
			HealthcareBudget: 60_000,
			WelfareBudget:    20_000,
			BusinessBudget:   20_000,
			CostPerBed:       1_200,
			CareShares:       [3]int{20, 50, 30},
			AnnualPension:    9_000,
		},
		Business: BusinessConfig{
			BudgetAllocation:       0.45,
			UnemploymentSpawnRatio: 0.12,
			MaxSpawnPerMonth:       2,
			MaxGenerationAttempts:  200,
		},
		Lifecycle: LifecycleConfig{
			RetirementAge:        65,
			RetirementChance:     8,
			PregnancyChance:      35,
			BirthDamageMin:       5,
			BirthDamageMax:       20,
			RetiredAtGeneration:  60,
			FoodUnitPriceInCents: 100,
		},
	}
}

// Compile validates the config and builds its lookup tables. Weight tables
// that do not sum to 100 fail here, before anything is drawn.
func (c *Config) Compile() error {
	if c.Population < 0 {
		return fmt.Errorf("%w: population must not be negative", ErrInvalidConfig)
	}
	if len(c.Education) == 0 {
		return fmt.Errorf("%w: education table is empty", ErrInvalidConfig)
	}
	entries := make([]sampler.Entry[EducationLevel], 0, len(c.Education))
	seen := map[EducationLevel]bool{}
	for _, e := range c.Education {
		if e.Level < NoFormalEducation || e.Level > AdvancedDegree {
			return fmt.Errorf("%w: unknown education level %d", ErrInvalidConfig, e.Level)
		}
		if seen[e.Level] {
			return fmt.Errorf("%w: duplicate education level %s", ErrInvalidConfig, e.Level)
		}
		if e.SalaryRange.Min < 0 || e.SalaryRange.Max < e.SalaryRange.Min {
			return fmt.Errorf("%w: bad salary range for %s", ErrInvalidConfig, e.Level)
		}
		seen[e.Level] = true
		entries = append(entries, sampler.E(e.Level, e.Chance))
		c.salaries[e.Level] = SalaryRange{Min: Dollars(e.SalaryRange.Min), Max: Dollars(e.SalaryRange.Max)}
	}
	table, err := sampler.New(entries...)
	if err != nil {
		return fmt.Errorf("education table: %w", err)
	}
	c.education = table

	g := c.Government
	if g.CostPerBed <= 0 {
		return fmt.Errorf("%w: cost_per_bed must be positive", ErrInvalidConfig)
	}
	if g.CareShares[0]+g.CareShares[1]+g.CareShares[2] > 100 {
		return fmt.Errorf("%w: care shares exceed 100", ErrInvalidConfig)
	}
	if g.TaxRate < 0 || g.TaxRate > 1 || g.BusinessTaxRate < 0 || g.BusinessTaxRate > 1 {
		return fmt.Errorf("%w: tax rates must be within [0,1]", ErrInvalidConfig)
	}
	if c.Business.BudgetAllocation <= 0 || c.Business.BudgetAllocation > 1 {
		return fmt.Errorf("%w: budget_allocation must be within (0,1]", ErrInvalidConfig)
	}
	if c.Business.MaxGenerationAttempts <= 0 {
		c.Business.MaxGenerationAttempts = 200
	}
	if c.Lifecycle.BirthDamageMax < c.Lifecycle.BirthDamageMin {
		return fmt.Errorf("%w: birth damage range inverted", ErrInvalidConfig)
	}
	if c.Lifecycle.FoodUnitPriceInCents <= 0 {
		c.Lifecycle.FoodUnitPriceInCents = 100
	}
	if c.Lifecycle.RetirementAge <= 18 {
		c.Lifecycle.RetirementAge = 65
	}
	return nil
}

func (c *Config) compiled() bool {
	return c.education.Len() > 0
}

func (c *Config) SalaryRange(level EducationLevel) SalaryRange {
	if level < 0 || int(level) >= len(c.salaries) {
		return SalaryRange{}
	}
	return c.salaries[level]
}

func (c *Config) foodUnit() Money {
	return Money(c.Lifecycle.FoodUnitPriceInCents)
}
