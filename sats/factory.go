package sats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
)

// Satskategori is the rate class a bosituasjon maps to.
type Satskategori string

const (
	Ordinar Satskategori = "ordinær"
	Hoy     Satskategori = "høy"
)

var faktorer = map[Satskategori]decimal.Decimal{
	Ordinar: decimal.RequireFromString("2.28"),
	Hoy:     decimal.RequireFromString("2.48"),
}

// KategoriForBosituasjon maps a living-situation variant to its rate class.
// Living alone or with a partner not on pension gives the high rate; sharing
// household economy with an adult or a pensioner gives the ordinary rate.
func KategoriForBosituasjon(t grunnlag.Bosituasjonstype) Satskategori {
	switch t {
	case grunnlag.BosituasjonDelerBoligMedVoksne,
		grunnlag.BosituasjonEpsOver67,
		grunnlag.BosituasjonEpsUnder67UforFlyktning:
		return Ordinar
	default:
		return Hoy
	}
}

// FullSupplerendeStonadForManed is the resolved rate for one month.
type FullSupplerendeStonadForManed struct {
	Maned        periode.Maned
	Kategori     Satskategori
	Grunnbelop   GrunnbelopForManed
	Faktor       decimal.Decimal
	SatsPerAr    decimal.Decimal
	SatsForManed decimal.Decimal
}

// SatsForManedAvrundet rounds half away from zero to whole kroner, which is
// what ends up on the utbetaling.
func (f FullSupplerendeStonadForManed) SatsForManedAvrundet() int {
	return int(f.SatsForManed.Round(0).IntPart())
}

// ToProsentAvHoyForManed is the monthly minimum threshold: two percent of the
// high yearly rate, divided over twelve months. A beregnet ytelse below this
// is not paid out.
func (f FullSupplerendeStonadForManed) ToProsentAvHoyForManed() decimal.Decimal {
	return faktorer[Hoy].
		Mul(decimal.NewFromInt(int64(f.Grunnbelop.GrunnbelopPerAr))).
		Mul(decimal.RequireFromString("0.02")).
		Div(decimal.NewFromInt(12))
}

// tidligsteTilgjengeligeManed bounds how far back rates can be resolved.
var tidligsteTilgjengeligeManed = periode.Januar(2020)

// Factory resolves rates as they were knowable on a given date. Regulations
// enacted after that date do not exist from the factory's point of view.
type Factory struct {
	paDato time.Time
}

func NyFactory(paDato time.Time) *Factory {
	return &Factory{paDato: paDato}
}

// PaDato returns the date the factory's view is anchored to.
func (f *Factory) PaDato() time.Time { return f.paDato }

// ForManed resolves the full rate for one month and rate class.
func (f *Factory) ForManed(m periode.Maned, kategori Satskategori) (FullSupplerendeStonadForManed, error) {
	if m.For(tidligsteTilgjengeligeManed) {
		return FullSupplerendeStonadForManed{}, fmt.Errorf(
			"har ikke satser for måneden %s, tidligste tilgjengelige måned er %s", m, tidligsteTilgjengeligeManed,
		)
	}
	g, err := f.grunnbelopFor(m)
	if err != nil {
		return FullSupplerendeStonadForManed{}, err
	}
	faktor := faktorer[kategori]
	satsPerAr := faktor.Mul(decimal.NewFromInt(int64(g.GrunnbelopPerAr)))
	return FullSupplerendeStonadForManed{
		Maned:        m,
		Kategori:     kategori,
		Grunnbelop:   g,
		Faktor:       faktor,
		SatsPerAr:    satsPerAr,
		SatsForManed: satsPerAr.Div(decimal.NewFromInt(12)),
	}, nil
}

// ForManedOgBosituasjon resolves via the bosituasjon's rate class.
func (f *Factory) ForManedOgBosituasjon(m periode.Maned, t grunnlag.Bosituasjonstype) (FullSupplerendeStonadForManed, error) {
	return f.ForManed(m, KategoriForBosituasjon(t))
}

func (f *Factory) grunnbelopFor(m periode.Maned) (GrunnbelopForManed, error) {
	forsteDag := m.Periode().FraOgMed()
	var funnet *Grunnbelopsendring
	for i := range grunnbelopsendringer {
		e := &grunnbelopsendringer[i]
		if e.Ikrafttredelse.After(f.paDato) {
			continue
		}
		if e.Virkningstidspunkt.After(forsteDag) {
			continue
		}
		funnet = e
	}
	if funnet == nil {
		return GrunnbelopForManed{}, fmt.Errorf("finner ikke grunnbeløp for måneden %s per %s", m, f.paDato.Format("2006-01-02"))
	}
	return GrunnbelopForManed{
		Maned:              m,
		GrunnbelopPerAr:    funnet.Verdi,
		Ikrafttredelse:     funnet.Ikrafttredelse,
		Virkningstidspunkt: funnet.Virkningstidspunkt,
	}, nil
}
