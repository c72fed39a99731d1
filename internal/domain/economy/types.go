package economy

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Money is an amount in cents. Every transfer moves an exact integer amount
// between two ledgers.
type Money int64

func Dollars(n int64) Money {
	return Money(n * 100)
}

func FromFloat(dollars float64) Money {
	return Money(math.Round(dollars * 100))
}

func (m Money) Float() float64 {
	return float64(m) / 100
}

// Percent returns pct percent of m, rounded to the nearest cent.
func (m Money) Percent(pct float64) Money {
	return Money(math.Round(float64(m) * pct / 100))
}

// Scale multiplies m by f, rounded to the nearest cent.
func (m Money) Scale(f float64) Money {
	return Money(math.Round(float64(m) * f))
}

func (m Money) Monthly() Money {
	return m / 12
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// transfer moves amount from one ledger to another.
func transfer(from, to *Money, amount Money) {
	*from -= amount
	*to += amount
}

type PersonID uuid.UUID

func (id PersonID) String() string { return uuid.UUID(id).String() }

func (id PersonID) IsZero() bool { return id == PersonID{} }

func (id PersonID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *PersonID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func (id PersonID) Less(o PersonID) bool { return bytes.Compare(id[:], o[:]) < 0 }

type BusinessID uuid.UUID

func (id BusinessID) String() string { return uuid.UUID(id).String() }

func (id BusinessID) IsZero() bool { return id == BusinessID{} }

func (id BusinessID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *BusinessID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

type EducationLevel int

const (
	NoFormalEducation EducationLevel = iota
	HighSchoolDiploma
	College
	AssociateDegree
	Bachelors
	AdvancedDegree
)

var EducationLevels = [...]EducationLevel{NoFormalEducation, HighSchoolDiploma, College, AssociateDegree, Bachelors, AdvancedDegree}

var educationNames = [...]string{"no_formal_education", "high_school_diploma", "college", "associate_degree", "bachelors", "advanced_degree"}

func (e EducationLevel) String() string {
	if e < 0 || int(e) >= len(educationNames) {
		return "unknown"
	}
	return educationNames[e]
}

func (e EducationLevel) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EducationLevel) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range educationNames {
		if n == name {
			*e = EducationLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown education level %q", name)
}

type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// SpendingTier orders spending behaviour from frugal-by-necessity (One) to
// wealthy saver (Four).
type SpendingTier int

const (
	SpendingOne SpendingTier = iota + 1
	SpendingTwo
	SpendingThree
	SpendingFour
)

type ProductType string

const ProductLeisure ProductType = "leisure"

type Birthday struct {
	Day   int `json:"day"`
	Month int `json:"month"`
}

type SalaryRange struct {
	Min Money `json:"min"`
	Max Money `json:"max"`
}

func (r SalaryRange) Mid() Money {
	return (r.Min + r.Max) / 2
}
