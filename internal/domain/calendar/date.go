package calendar

import "fmt"

const (
	DaysPerMonth  = 30
	MonthsPerYear = 12
	DaysPerYear   = DaysPerMonth * MonthsPerYear
)

// Date counts simulated days. NewMonth is raised by the tick that rolls the
// month over and cleared by the next one.
type Date struct {
	Day      int  `json:"day"`
	Month    int  `json:"month"`
	Year     int  `json:"year"`
	NewMonth bool `json:"new_month"`
}

func Start() Date {
	return Date{Day: 1, Month: 1, Year: 0}
}

func (d *Date) NewDay() {
	d.NewMonth = false
	d.Day++
	if d.Day > DaysPerMonth {
		d.Day = 1
		d.newMonth()
	}
}

func (d *Date) newMonth() {
	d.Month++
	if d.Month > MonthsPerYear {
		d.Month = 1
		d.Year++
	}
	d.NewMonth = true
}

func (d Date) IsGenerationDay() bool {
	return d.Day == 1 && d.Month == 1 && d.Year == 0
}

func (d Date) Same(o Date) bool {
	return d.Day == o.Day && d.Month == o.Month && d.Year == o.Year
}

// Ordinal is the number of days elapsed since 01/01/0000.
func (d Date) Ordinal() int {
	return d.Year*DaysPerYear + (d.Month-1)*DaysPerMonth + (d.Day - 1)
}

func FromOrdinal(n int) Date {
	if n < 0 {
		n = 0
	}
	return Date{
		Year:  n / DaysPerYear,
		Month: (n%DaysPerYear)/DaysPerMonth + 1,
		Day:   n%DaysPerMonth + 1,
	}
}

func (d Date) AddDays(n int) Date {
	return FromOrdinal(d.Ordinal() + n)
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}
