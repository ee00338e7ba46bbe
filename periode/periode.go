/*
Package periode provides the month-aligned period model.

PURPOSE:
  Every piece of case data in this system (grunnlag, vilkår, beregning,
  utbetaling) is scoped to a Periode: a closed date range that always
  starts on the first day of a month and ends on the last day of a month.
  Benefit amounts are granted per month, so all period algebra is month
  algebra underneath.

KEY CONCEPTS:
  - Maned:   a single calendar month (year + month), the atomic unit
  - Periode: a contiguous, inclusive range of whole months
  - List operations: subtraction, intersection, merging to the minimal
    set of contiguous periods

DESIGN PRINCIPLES:
  1. Immutability: Periode is a value type; operations return new values
  2. Month granularity: days only appear at the boundaries (1st / last)
  3. Validation at construction: an existing Periode is always well-formed

SEE ALSO:
  - perioder.go: operations on lists of perioder
  - grunnlag:    period-scoped basis facts
*/
package periode

import (
	"fmt"
	"time"
)

// =============================================================================
// MANED - A single calendar month
// =============================================================================

// Maned identifies one calendar month. The zero value is not a valid month;
// construct via NyManed or ManedFra.
type Maned struct {
	ar  int
	mnd time.Month
}

func NyManed(ar int, mnd time.Month) Maned {
	return Maned{ar: ar, mnd: mnd}
}

// ManedFra returns the month containing the given date.
func ManedFra(dato time.Time) Maned {
	return Maned{ar: dato.Year(), mnd: dato.Month()}
}

func (m Maned) Ar() int          { return m.ar }
func (m Maned) Mnd() time.Month  { return m.mnd }
func (m Maned) indeks() int      { return m.ar*12 + int(m.mnd) - 1 }
func (m Maned) For(o Maned) bool { return m.indeks() < o.indeks() }

// FraOgMed returns the first day of the month.
func (m Maned) FraOgMed() time.Time {
	return time.Date(m.ar, m.mnd, 1, 0, 0, 0, 0, time.UTC)
}

// TilOgMed returns the last day of the month.
func (m Maned) TilOgMed() time.Time {
	return time.Date(m.ar, m.mnd, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

func (m Maned) Pluss(antall int) Maned {
	i := m.indeks() + antall
	return Maned{ar: i / 12, mnd: time.Month(i%12 + 1)}
}

// Inneholder returns true if the date falls inside this month.
func (m Maned) Inneholder(dato time.Time) bool {
	return dato.Year() == m.ar && dato.Month() == m.mnd
}

func (m Maned) Periode() Periode { return Periode{fra: m, til: m} }

func (m Maned) String() string { return fmt.Sprintf("%d-%02d", m.ar, int(m.mnd)) }

// =============================================================================
// PERIODE - Inclusive, month-aligned date range
// =============================================================================

// Periode is a contiguous range of whole months [fraOgMed, tilOgMed].
// A Periode always spans at least one month.
type Periode struct {
	fra Maned
	til Maned
}

// NyPeriode creates a Periode from boundary dates. The dates must be the
// first and last day of their months, fraOgMed not after tilOgMed.
func NyPeriode(fraOgMed, tilOgMed time.Time) (Periode, error) {
	if fraOgMed.Day() != 1 {
		return Periode{}, ErrFraOgMedMaVareForsteDagIManeden
	}
	if !erSisteDagIManeden(tilOgMed) {
		return Periode{}, ErrTilOgMedMaVareSisteDagIManeden
	}
	fra, til := ManedFra(fraOgMed), ManedFra(tilOgMed)
	if til.For(fra) {
		return Periode{}, ErrFraOgMedMaVareForTilOgMed
	}
	return Periode{fra: fra, til: til}, nil
}

// MaNyPeriode is like NyPeriode but panics on invalid input. For fixtures
// and compile-time-known periods.
func MaNyPeriode(fraOgMed, tilOgMed time.Time) Periode {
	p, err := NyPeriode(fraOgMed, tilOgMed)
	if err != nil {
		panic(fmt.Sprintf("ugyldig periode %s-%s: %v", fraOgMed, tilOgMed, err))
	}
	return p
}

// OverManeder creates the Periode spanning two months, inclusive.
func OverManeder(fra, til Maned) (Periode, error) {
	if til.For(fra) {
		return Periode{}, ErrFraOgMedMaVareForTilOgMed
	}
	return Periode{fra: fra, til: til}, nil
}

// MaOverManeder is like OverManeder but panics on reversed months. For
// fixtures and ranges whose ordering holds by construction.
func MaOverManeder(fra, til Maned) Periode {
	p, err := OverManeder(fra, til)
	if err != nil {
		panic(fmt.Sprintf("ugyldig periode %s-%s: %v", fra, til, err))
	}
	return p
}

// Ar returns the calendar-year period for the given year.
func Ar(ar int) Periode {
	return Periode{fra: NyManed(ar, time.January), til: NyManed(ar, time.December)}
}

func erSisteDagIManeden(dato time.Time) bool {
	return dato.AddDate(0, 0, 1).Day() == 1
}

func (p Periode) FraOgMed() time.Time  { return p.fra.FraOgMed() }
func (p Periode) TilOgMed() time.Time  { return p.til.TilOgMed() }
func (p Periode) ForsteManed() Maned   { return p.fra }
func (p Periode) SisteManed() Maned    { return p.til }
func (p Periode) AntallManeder() int   { return p.til.indeks() - p.fra.indeks() + 1 }
func (p Periode) ErManed() bool        { return p.fra == p.til }

// Maneder returns every month in the period, in order.
func (p Periode) Maneder() []Maned {
	maneder := make([]Maned, 0, p.AntallManeder())
	for m := p.fra; !p.til.For(m); m = m.Pluss(1) {
		maneder = append(maneder, m)
	}
	return maneder
}

// Inneholder returns true if other lies fully inside p.
func (p Periode) Inneholder(other Periode) bool {
	return !other.fra.For(p.fra) && !p.til.For(other.til)
}

// InneholderDato returns true if the date falls inside the period.
func (p Periode) InneholderDato(dato time.Time) bool {
	return !dato.Before(p.FraOgMed()) && !dato.After(p.TilOgMed())
}

// Overlapper returns true if at least one month is shared.
func (p Periode) Overlapper(other Periode) bool {
	return !p.til.For(other.fra) && !other.til.For(p.fra)
}

// Tilstoter returns true if the periods share a boundary (or overlap is
// irrelevant here: strictly adjacent months).
func (p Periode) Tilstoter(other Periode) bool {
	return other.fra == p.til.Pluss(1) || p.fra == other.til.Pluss(1)
}

// Snitt returns the intersection, or false when the periods do not overlap.
func (p Periode) Snitt(other Periode) (Periode, bool) {
	if !p.Overlapper(other) {
		return Periode{}, false
	}
	fra, til := p.fra, p.til
	if fra.For(other.fra) {
		fra = other.fra
	}
	if other.til.For(til) {
		til = other.til
	}
	return Periode{fra: fra, til: til}, true
}

// SlaSammen merges two overlapping or adjacent periods into one.
func (p Periode) SlaSammen(other Periode) (Periode, bool) {
	if !p.Overlapper(other) && !p.Tilstoter(other) {
		return Periode{}, false
	}
	fra, til := p.fra, p.til
	if other.fra.For(fra) {
		fra = other.fra
	}
	if til.For(other.til) {
		til = other.til
	}
	return Periode{fra: fra, til: til}, true
}

// Minus subtracts other from p, returning 0, 1 or 2 remaining periods.
// Subtracting a fully-contained middle range yields two.
func (p Periode) Minus(other Periode) []Periode {
	if !p.Overlapper(other) {
		return []Periode{p}
	}
	var rest []Periode
	if p.fra.For(other.fra) {
		rest = append(rest, Periode{fra: p.fra, til: other.fra.Pluss(-1)})
	}
	if other.til.For(p.til) {
		rest = append(rest, Periode{fra: other.til.Pluss(1), til: p.til})
	}
	return rest
}

// InneholderAlle returns true iff the union of the given periods, merged,
// covers exactly this period with no gaps and no months outside it.
func (p Periode) InneholderAlle(perioder []Periode) bool {
	dekket := make(map[Maned]bool)
	for _, o := range perioder {
		for _, m := range o.Maneder() {
			if !p.Inneholder(m.Periode()) {
				return false
			}
			dekket[m] = true
		}
	}
	return len(dekket) == p.AntallManeder()
}

// Forskyv shifts the period n whole months; negative n shifts backwards.
func (p Periode) Forskyv(maneder int) Periode {
	return Periode{fra: p.fra.Pluss(maneder), til: p.til.Pluss(maneder)}
}

func (p Periode) Equals(other Periode) bool { return p.fra == other.fra && p.til == other.til }

func (p Periode) String() string {
	return fmt.Sprintf("Periode(%s, %s)", p.fra, p.til)
}
