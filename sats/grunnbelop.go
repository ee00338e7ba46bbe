/*
Package sats resolves the monthly benefit rate (sats) for supplerende stønad.

PURPOSE:
  The rate is a factor of folketrygdens grunnbeløp (G): 2.28×G/12 for the
  ordinary rate and 2.48×G/12 for the high rate. G is adjusted yearly with a
  virkningstidspunkt (the date the new value applies from, typically 1 May)
  and an ikrafttredelse (the date the regulation was actually enacted, often
  weeks later). A beregning performed before the enactment date must use the
  old G even for months the new value will eventually cover, so the factory
  is constructed "på dato" and only sees regulations enacted by then.

KEY CONCEPTS:
  - Grunnbelopsendring:           one row of the G table
  - Factory:                      dated view of the table
  - FullSupplerendeStonadForManed: resolved rate for one month

SEE ALSO:
  - beregning: consumes the resolved rates month by month
*/
package sats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/navikt/supplerende-stonad/periode"
)

// Grunnbelopsendring is one adjustment of folketrygdens grunnbeløp.
type Grunnbelopsendring struct {
	// Virkningstidspunkt is the date the new value applies from.
	Virkningstidspunkt time.Time
	// Ikrafttredelse is the date the regulation was enacted. Before this
	// date the adjustment is invisible to beregninger.
	Ikrafttredelse time.Time
	// Verdi is the yearly grunnbeløp in whole kroner.
	Verdi int
}

func dato(ar int, mnd time.Month, dag int) time.Time {
	return time.Date(ar, mnd, dag, 0, 0, 0, 0, time.UTC)
}

// grunnbelopsendringer lists every adjustment the application knows about,
// ordered by virkningstidspunkt. Until 2019 the enactment date equals the
// effective date; from 2019 on the actual enactment dates are recorded.
var grunnbelopsendringer = []Grunnbelopsendring{
	{Virkningstidspunkt: dato(2005, time.May, 1), Ikrafttredelse: dato(2005, time.May, 1), Verdi: 60699},
	{Virkningstidspunkt: dato(2006, time.May, 1), Ikrafttredelse: dato(2006, time.May, 1), Verdi: 62892},
	{Virkningstidspunkt: dato(2007, time.May, 1), Ikrafttredelse: dato(2007, time.May, 1), Verdi: 66812},
	{Virkningstidspunkt: dato(2008, time.May, 1), Ikrafttredelse: dato(2008, time.May, 1), Verdi: 70256},
	{Virkningstidspunkt: dato(2009, time.May, 1), Ikrafttredelse: dato(2009, time.May, 1), Verdi: 72881},
	{Virkningstidspunkt: dato(2010, time.May, 1), Ikrafttredelse: dato(2010, time.May, 1), Verdi: 75641},
	{Virkningstidspunkt: dato(2011, time.May, 1), Ikrafttredelse: dato(2011, time.May, 1), Verdi: 79216},
	{Virkningstidspunkt: dato(2012, time.May, 1), Ikrafttredelse: dato(2012, time.May, 1), Verdi: 82122},
	{Virkningstidspunkt: dato(2013, time.May, 1), Ikrafttredelse: dato(2013, time.May, 1), Verdi: 85245},
	{Virkningstidspunkt: dato(2014, time.May, 1), Ikrafttredelse: dato(2014, time.May, 1), Verdi: 88370},
	{Virkningstidspunkt: dato(2015, time.May, 1), Ikrafttredelse: dato(2015, time.May, 1), Verdi: 90068},
	{Virkningstidspunkt: dato(2016, time.May, 1), Ikrafttredelse: dato(2016, time.May, 1), Verdi: 92576},
	{Virkningstidspunkt: dato(2017, time.May, 1), Ikrafttredelse: dato(2017, time.May, 1), Verdi: 93634},
	{Virkningstidspunkt: dato(2018, time.May, 1), Ikrafttredelse: dato(2018, time.May, 1), Verdi: 96883},
	{Virkningstidspunkt: dato(2019, time.May, 1), Ikrafttredelse: dato(2019, time.May, 1), Verdi: 99858},
	{Virkningstidspunkt: dato(2020, time.May, 1), Ikrafttredelse: dato(2020, time.September, 4), Verdi: 101351},
	{Virkningstidspunkt: dato(2021, time.May, 1), Ikrafttredelse: dato(2021, time.May, 21), Verdi: 106399},
	{Virkningstidspunkt: dato(2022, time.May, 1), Ikrafttredelse: dato(2022, time.May, 20), Verdi: 111477},
	{Virkningstidspunkt: dato(2023, time.May, 1), Ikrafttredelse: dato(2023, time.May, 26), Verdi: 118620},
	{Virkningstidspunkt: dato(2024, time.May, 1), Ikrafttredelse: dato(2024, time.May, 24), Verdi: 124028},
}

// GrunnbelopForManed is the grunnbeløp in effect for one month, as seen from
// the factory's date.
type GrunnbelopForManed struct {
	Maned              periode.Maned
	GrunnbelopPerAr    int
	Ikrafttredelse     time.Time
	Virkningstidspunkt time.Time
}

// GrunnbelopPerManed returns G/12 without rounding.
func (g GrunnbelopForManed) GrunnbelopPerManed() decimal.Decimal {
	return decimal.NewFromInt(int64(g.GrunnbelopPerAr)).Div(decimal.NewFromInt(12))
}
