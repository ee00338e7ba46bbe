/*
Package vedtak models finished decisions and the reconstruction of the
currently effective case data from a decision history.

PURPOSE:
  Every iverksatt behandling produces a vedtak carrying the grunnlag, vilkår
  and beregning it was decided on. Later vedtak supersede earlier ones month
  by month. A revurdering starts from "gjeldende vedtaksdata": the per-month
  winner across the history, stitched back into one grunnlag/vilkår set for
  the revision period. The stitching must chain consecutive vedtak correctly
  and refuse periods with months no vedtak covers.

KEY CONCEPTS:
  - Vedtak:               one finished decision
  - Tidslinje:            month -> newest covering vedtak
  - GjeldendeVedtaksdata: the stitched view a revurdering starts from

SEE ALSO:
  - revurdering: resets its grunnlag/vilkår from GjeldendeVedtaksdata
*/
package vedtak

import (
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// Vedtakstype classifies what a decision did.
type Vedtakstype string

const (
	TypeSoknad       Vedtakstype = "SØKNAD"
	TypeEndring      Vedtakstype = "ENDRING"
	TypeOpphor       Vedtakstype = "OPPHØR"
	TypeIngenEndring Vedtakstype = "INGEN_ENDRING"
	TypeStans        Vedtakstype = "STANS_AV_YTELSE"
	TypeGjenopptak   Vedtakstype = "GJENOPPTAK_AV_YTELSE"
)

// Vedtak is one finished decision with the data it was decided on.
type Vedtak struct {
	ID            uuid.UUID
	Opprettet     time.Time
	SakID         uuid.UUID
	BehandlingID  uuid.UUID
	Periode       periode.Periode
	Type          Vedtakstype
	Saksbehandler string
	Attestant     string

	Grunnlagsdata      grunnlag.Grunnlagsdata
	Vilkarsvurderinger vilkar.Vilkarsvurderinger
	Beregning          *beregning.Beregning
}

// ManedBelop returns the decided monthly amounts. Stans and opphør pay
// nothing from their effective date.
func (v Vedtak) ManedBelop() []beregning.ManedBelop {
	switch v.Type {
	case TypeStans, TypeOpphor:
		var mb []beregning.ManedBelop
		for _, m := range v.Periode.Maneder() {
			mb = append(mb, beregning.ManedBelop{Maned: m, Belop: 0})
		}
		return mb
	}
	if v.Beregning == nil {
		return nil
	}
	mb := make([]beregning.ManedBelop, 0, len(v.Beregning.Maneder))
	for _, m := range v.Beregning.Maneder {
		mb = append(mb, beregning.ManedBelop{Maned: m.Maned, Belop: m.Belop})
	}
	return mb
}

// GjeldendeVedtakForManed returns the newest vedtak covering the month.
func GjeldendeVedtakForManed(historikk []Vedtak, m periode.Maned) (Vedtak, bool) {
	var gjeldende Vedtak
	funnet := false
	for _, v := range historikk {
		if !v.Periode.Inneholder(m.Periode()) {
			continue
		}
		if !funnet || v.Opprettet.After(gjeldende.Opprettet) {
			gjeldende = v
			funnet = true
		}
	}
	return gjeldende, funnet
}

// GjeldendeVedtakPaDato returns the newest vedtak covering the date.
func GjeldendeVedtakPaDato(historikk []Vedtak, dato time.Time) (Vedtak, bool) {
	return GjeldendeVedtakForManed(historikk, periode.ManedFra(dato))
}
