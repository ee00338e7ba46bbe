package sats

import (
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
)

/// Satsperiode is one row of the rate overview shown in vedtaksbrev: a
// contiguous stretch of months with the same rate amount, rate class and
// living situation. Dates are formatted dd.mm.yyyy as the letter expects.
type Satsperiode struct {
	FraOgMed    string
	TilOgMed    string
	Sats        string
	SatsBelop   int
	Bosituasjon string
}

const brevDatoFormat = "02.01.2006"

// Satsoversikt builds the per-period rate rows for a set of bosituasjoner.
// Consecutive months collapse into one row as long as amount, rate class and
// bosituasjon stay the same; a grunnbeløp adjustment mid-year splits the row.
func Satsoversikt(factory *Factory, bosituasjoner []grunnlag.Bosituasjon) ([]Satsperiode, error) {
	type manedsrad struct {
		maned       periode.Maned
		sats        Satskategori
		belop       int
		bosituasjon grunnlag.Bosituasjonstype
	}

	var rader []manedsrad
	for _, b := range bosituasjoner {
		for _, m := range b.Periode.Maneder() {
			full, err := factory.ForManedOgBosituasjon(m, b.Type)
			if err != nil {
				return nil, err
			}
			rader = append(rader, manedsrad{
				maned:       m,
				sats:        full.Kategori,
				belop:       full.SatsForManedAvrundet(),
				bosituasjon: b.Type,
			})
		}
	}
	if len(rader) == 0 {
		return nil, nil
	}

	var oversikt []Satsperiode
	start := 0
	for i := 1; i <= len(rader); i++ {
		if i < len(rader) &&
			rader[i].sats == rader[start].sats &&
			rader[i].belop == rader[start].belop &&
			rader[i].bosituasjon == rader[start].bosituasjon &&
			rader[i-1].maned.Pluss(1) == rader[i].maned {
			continue
		}
		p := periode.MaOverManeder(rader[start].maned, rader[i-1].maned)
		oversikt = append(oversikt, Satsperiode{
			FraOgMed:    p.FraOgMed().Format(brevDatoFormat),
			TilOgMed:    p.TilOgMed().Format(brevDatoFormat),
			Sats:        string(rader[start].sats),
			SatsBelop:   rader[start].belop,
			Bosituasjon: string(rader[start].bosituasjon),
		})
		start = i
	}
	return oversikt, nil
}
