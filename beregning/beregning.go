/*
Package beregning computes month-by-month benefit amounts.

PURPOSE:
  For every month in the behandling's period: resolve the rate from the
  bosituasjon and the dated rate table, sum the deductions according to the
  strategy the bosituasjon selects, and subtract. A positive result below the
  minimum threshold (two percent of the high yearly rate) is zeroed and
  flagged; a zero or negative result is zeroed and flagged. The classified
  outcome (ordinary change, no change, opphør) and the supported-outcome
  checks live in utfall.go.

KEY CONCEPTS:
  - Manedsberegning: one month's rate, deduction sum and payout
  - Beregning:       the full period, immutable once created
  - Merknad:         machine-readable flag attached to a month

SEE ALSO:
  - fradrag.go: deduction strategies per bosituasjon
  - utfall.go:  outcome classification and supported-outcome checks
*/
package beregning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/sats"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// Merknad flags a month where the computed amount was adjusted or zeroed.
type Merknad string

const (
	// MerknadBelopErNull: deductions consumed the whole rate.
	MerknadBelopErNull Merknad = "BELØP_ER_NULL"
	// MerknadUnderMinstegrense: positive amount below two percent of high rate.
	MerknadUnderMinstegrense Merknad = "SU_UNDER_MINSTEGRENSE"
	// MerknadAvslagVilkar: a condition fails for this month; nothing is paid.
	MerknadAvslagVilkar Merknad = "AVSLAG_VILKÅR"
)

// Manedsberegning is one month's calculation.
type Manedsberegning struct {
	Maned     periode.Maned
	Kategori  sats.Satskategori
	Satsbelop int
	Fradrag   int
	Belop     int
	Merknader []Merknad
}

// HarMerknad reports whether the month carries the given flag.
func (m Manedsberegning) HarMerknad(merknad Merknad) bool {
	for _, funnet := range m.Merknader {
		if funnet == merknad {
			return true
		}
	}
	return false
}

// Beregning is the calculated result for a whole behandling period.
type Beregning struct {
	ID        uuid.UUID
	Opprettet time.Time
	Periode   periode.Periode
	Maneder   []Manedsberegning
}

// SumYtelse returns the total payout over the period.
func (b Beregning) SumYtelse() int {
	sum := 0
	for _, m := range b.Maneder {
		sum += m.Belop
	}
	return sum
}

// ManedFor returns the calculation for one month.
func (b Beregning) ManedFor(m periode.Maned) (Manedsberegning, bool) {
	for _, mb := range b.Maneder {
		if mb.Maned == m {
			return mb, true
		}
	}
	return Manedsberegning{}, false
}

// AlleManederUtenUtbetaling reports whether no month pays anything.
func (b Beregning) AlleManederUtenUtbetaling() bool {
	for _, m := range b.Maneder {
		if m.Belop > 0 {
			return false
		}
	}
	return len(b.Maneder) > 0
}

// ForsteManedUtenUtbetaling returns the first month that pays nothing.
func (b Beregning) ForsteManedUtenUtbetaling() (periode.Maned, bool) {
	for _, m := range b.Maneder {
		if m.Belop == 0 {
			return m.Maned, true
		}
	}
	return periode.Maned{}, false
}

// Input is everything a beregning needs.
type Input struct {
	Opprettet   time.Time
	Periode     periode.Periode
	Grunnlag    grunnlag.Grunnlagsdata
	Vilkar      vilkar.Vilkarsvurderinger
	SatsFactory *sats.Factory
}

// Beregn runs the month-by-month calculation over the whole period.
func Beregn(input Input) (Beregning, error) {
	maneder := make([]Manedsberegning, 0, input.Periode.AntallManeder())
	avslagsperioder := input.Vilkar.AvslagsPerioder()
	uforegrunnlag := input.Vilkar.Uforegrunnlag()

	for _, m := range input.Periode.Maneder() {
		bosituasjon, funnet := input.Grunnlag.BosituasjonFor(m)
		if !funnet {
			return Beregning{}, &ManglerBosituasjonError{Maned: m}
		}

		full, err := input.SatsFactory.ForManedOgBosituasjon(m, bosituasjon.Type)
		if err != nil {
			return Beregning{}, err
		}

		mb := beregnManed(m, full, bosituasjon, input.Grunnlag.FradragFor(m), uforegrunnlag)
		if manedErAvslatt(m, avslagsperioder) {
			mb.Belop = 0
			mb.Merknader = []Merknad{MerknadAvslagVilkar}
		}
		maneder = append(maneder, mb)
	}

	return Beregning{
		ID:        uuid.New(),
		Opprettet: input.Opprettet,
		Periode:   input.Periode,
		Maneder:   maneder,
	}, nil
}

func beregnManed(
	m periode.Maned,
	full sats.FullSupplerendeStonadForManed,
	bosituasjon grunnlag.Bosituasjon,
	fradrag []grunnlag.Fradragsgrunnlag,
	uforegrunnlag []grunnlag.Uforegrunnlag,
) Manedsberegning {
	strategi := strategiFor(bosituasjon.Type)
	sumFradrag := strategi.beregnFradrag(m, full, fradrag, uforegrunnlag)

	satsbelop := full.SatsForManedAvrundet()
	belop := decimal.NewFromInt(int64(satsbelop)).Sub(sumFradrag)

	mb := Manedsberegning{
		Maned:     m,
		Kategori:  full.Kategori,
		Satsbelop: satsbelop,
		Fradrag:   int(sumFradrag.Round(0).IntPart()),
	}

	switch {
	case belop.LessThanOrEqual(decimal.Zero):
		mb.Belop = 0
		mb.Merknader = []Merknad{MerknadBelopErNull}
	case belop.LessThan(full.ToProsentAvHoyForManed()):
		mb.Belop = 0
		mb.Merknader = []Merknad{MerknadUnderMinstegrense}
	default:
		mb.Belop = int(belop.Round(0).IntPart())
	}
	return mb
}

func manedErAvslatt(m periode.Maned, avslagsperioder []periode.Periode) bool {
	for _, p := range avslagsperioder {
		if p.Inneholder(m.Periode()) {
			return true
		}
	}
	return false
}
