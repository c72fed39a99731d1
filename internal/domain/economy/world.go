package economy

import (
	"encoding/binary"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"

	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/healthcare"
)

// maxMarketMisses stops business generation after this many consecutive
// drafts that did not fit the remaining market.
const maxMarketMisses = 25

// World is the single authoritative simulation state. It is not safe for
// concurrent use; callers serialise access.
type World struct {
	cfg Config
	src *rand.ChaCha8
	rng *rand.Rand

	date calendar.Date

	people      map[PersonID]*Person
	personOrder []PersonID

	businesses    map[BusinessID]*Business
	businessOrder []BusinessID
	nextSeq       uint64

	government Money
	// external is the rest of the world: food sellers, suppliers, the
	// advertising market and hospitals. It closes the money loop.
	external Money
	total    Money

	taxRate         float64
	businessTaxRate float64
	rules           Rules

	healthcare     healthcare.System
	welfareBudget  Money
	businessBudget Money

	births [calendar.DaysPerMonth]int
	deaths [calendar.DaysPerMonth]int

	daily dayCounters
	month monthCounters
	last  DaySnapshot
}

type dayCounters struct {
	covered           int
	coveredUnemployed int
}

type monthCounters struct {
	wages           Money
	earners         int
	personTax       Money
	businessTax     Money
	benefits        Money
	pensions        Money
	debtCollected   Money
	welfareSpent    Money
	fundingSpent    Money
	funded          int
	healthcareSpent Money
	retired         int
	opened          int
	closed          int
}

// NewWorld generates the population and the opening businesses. The same
// config and seed always produce the same world.
func NewWorld(cfg Config, seed uint64) (*World, error) {
	if !cfg.compiled() {
		if err := cfg.Compile(); err != nil {
			return nil, err
		}
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)

	g := cfg.Government
	hc, err := healthcare.NewSystem(int64(Dollars(g.HealthcareBudget)), int64(Dollars(g.CostPerBed)), g.CareShares)
	if err != nil {
		return nil, err
	}
	w := &World{
		cfg:             cfg,
		src:             src,
		rng:             rand.New(src),
		date:            calendar.Start(),
		people:          make(map[PersonID]*Person, cfg.Population),
		businesses:      map[BusinessID]*Business{},
		government:      Dollars(g.StartingBalance),
		taxRate:         g.TaxRate,
		businessTaxRate: g.BusinessTaxRate,
		healthcare:      hc,
		welfareBudget:   Dollars(g.WelfareBudget),
		businessBudget:  Dollars(g.BusinessBudget),
	}
	w.rules = defaultRules(&w.cfg)

	for i := 0; i < cfg.Population; i++ {
		w.addPerson(newPerson(w.rng, &w.cfg, w.newPersonID(), w.date))
	}
	w.generateBusinesses()
	w.total = w.TotalMoney()
	w.last = w.snapshot()
	return w, nil
}

func defaultRules(cfg *Config) Rules {
	return Rules{
		Tax:                 TaxRule{MinimumSalary: Dollars(60_000), TaxRate: 0.3},
		BusinessTax:         BusinessTaxRule{MinimumMonthlyIncome: Dollars(50_000), TaxRate: 0.28},
		BusinessFunding:     BusinessFundingRule{Fund: Dollars(1_000), MaximumIncome: Dollars(500), BusinessCount: 5, BudgetCost: Dollars(5_000)},
		DenyAge:             DenyAgeRule{MaximumAge: 85},
		DenyHealth:          DenyHealthRule{MaximumPercentage: 50},
		CoverFood:           CoverFoodRule{PeopleCount: 20, MaximumSalary: Dollars(12_000), BudgetCost: coverCost(20, cfg.foodUnit())},
		CoverFoodUnemployed: CoverFoodUnemployedRule{PeopleCount: 20, BudgetCost: coverCost(20, cfg.foodUnit())},
	}
}

// coverCost is the monthly cost of covering count people's food.
func coverCost(count int, unit Money) Money {
	return Money(count*CoveredFoodUnits*calendar.DaysPerMonth) * unit
}

func (w *World) newPersonID() PersonID {
	id, err := uuid.NewRandomFromReader(w.src)
	if err != nil {
		panic(err) // ChaCha8 reads never fail
	}
	return PersonID(id)
}

func (w *World) newBusinessID() BusinessID {
	id, err := uuid.NewRandomFromReader(w.src)
	if err != nil {
		panic(err)
	}
	return BusinessID(id)
}

func (w *World) addPerson(p *Person) {
	w.people[p.ID] = p
	w.personOrder = append(w.personOrder, p.ID)
}

func (w *World) generateBusinesses() {
	misses := 0
	for attempt := 0; attempt < w.cfg.Business.MaxGenerationAttempts; attempt++ {
		d := w.draftBusiness()
		founder := w.pickFounder(d.business.MinEducation)
		if founder == nil {
			misses++
		} else {
			err := w.openGenerated(d, founder)
			switch {
			case errors.Is(err, ErrMarketSaturated):
				return
			case err != nil:
				misses++
			default:
				misses = 0
			}
		}
		if misses >= maxMarketMisses {
			return
		}
	}
}

// openGenerated enters d into the market and endows it. Generation is the
// only place where business capital appears without a paying counterparty.
func (w *World) openGenerated(d draft, founder *Person) error {
	if err := w.enterMarket(d, w.remainingMarket()); err != nil {
		return err
	}
	b := d.business
	w.installBusiness(b, founder)
	w.adjustHeadcount(b)
	b.Balance = w.startingBalance(b)
	b.LastMonthBalance = b.Balance
	transfer(&b.Balance, &w.external, Money(b.UnitsScheduled)*b.ProductionCost)
	return nil
}

// pickFounder draws a working-age unemployed adult meeting the education bar.
func (w *World) pickFounder(required EducationLevel) *Person {
	var pool []*Person
	for _, id := range w.personOrder {
		if p := w.people[id]; p != nil && p.Employable(required) {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	return pool[w.rng.IntN(len(pool))]
}

func (w *World) orderedBusinesses() []*Business {
	out := make([]*Business, 0, len(w.businesses))
	for _, id := range w.businessOrder {
		if b, ok := w.businesses[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (w *World) compactPeople() {
	kept := w.personOrder[:0]
	for _, id := range w.personOrder {
		if _, ok := w.people[id]; ok {
			kept = append(kept, id)
		}
	}
	w.personOrder = kept
}

func (w *World) compactBusinesses() {
	kept := w.businessOrder[:0]
	for _, id := range w.businessOrder {
		if _, ok := w.businesses[id]; ok {
			kept = append(kept, id)
		}
	}
	w.businessOrder = kept
}

// TotalMoney sums every ledger. It stays constant after generation.
func (w *World) TotalMoney() Money {
	total := w.government + w.external
	for _, p := range w.people {
		total += p.Balance
	}
	for _, b := range w.businesses {
		total += b.Balance
	}
	return total
}

func (w *World) Date() calendar.Date { return w.date }

func (w *World) Government() Money { return w.government }

func (w *World) Population() int { return len(w.people) }

func (w *World) BusinessCount() int { return len(w.businesses) }

func (w *World) Rules() Rules { return w.rules }

func (w *World) Healthcare() healthcare.System { return w.healthcare }

// LastSnapshot is the snapshot taken at the end of the latest day.
func (w *World) LastSnapshot() DaySnapshot { return w.last }
