package vedtak

import (
	"errors"
	"fmt"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// ErrKanIkkeRevurdere is the sentinel every reconstruction failure unwraps to.
var ErrKanIkkeRevurdere = errors.New("gjeldende vedtaksdata kan ikke revurderes")

type KanIkkeRevurdereGrunn string

const (
	// HeleRevurderingsperiodenInneholderIkkeVedtak: some month in the
	// requested period has no covering vedtak.
	HeleRevurderingsperiodenInneholderIkkeVedtak KanIkkeRevurdereGrunn = "HELE_REVURDERINGSPERIODEN_INNEHOLDER_IKKE_VEDTAK"
	// FantIngenVedtak: the case has no decision history at all.
	FantIngenVedtak KanIkkeRevurdereGrunn = "FANT_INGEN_VEDTAK"
)

// KanIkkeRevurdereError explains why a period cannot be revised.
type KanIkkeRevurdereError struct {
	Grunn KanIkkeRevurdereGrunn
}

func (e *KanIkkeRevurdereError) Error() string {
	return fmt.Sprintf("gjeldende vedtaksdata kan ikke revurderes: %s", e.Grunn)
}

func (e *KanIkkeRevurdereError) Unwrap() error { return ErrKanIkkeRevurdere }

// GjeldendeVedtaksdata is the stitched, currently effective case data for a
// period: for every month the newest covering vedtak wins, and its grunnlag
// and vilkår are clipped to the months it governs.
type GjeldendeVedtaksdata struct {
	Periode            periode.Periode
	Grunnlagsdata      grunnlag.Grunnlagsdata
	Vilkarsvurderinger vilkar.Vilkarsvurderinger
	ManedBelop         []beregning.ManedBelop

	vedtakPerManed map[periode.Maned]Vedtak
}

// VedtakForManed returns the vedtak governing a month of the period.
func (g GjeldendeVedtaksdata) VedtakForManed(m periode.Maned) (Vedtak, bool) {
	v, ok := g.vedtakPerManed[m]
	return v, ok
}

// HentGjeldendeVedtaksdata reconstructs the effective case data for a period
// from the decision history.
func HentGjeldendeVedtaksdata(p periode.Periode, historikk []Vedtak) (GjeldendeVedtaksdata, error) {
	if len(historikk) == 0 {
		return GjeldendeVedtaksdata{}, &KanIkkeRevurdereError{Grunn: FantIngenVedtak}
	}

	vedtakPerManed := make(map[periode.Maned]Vedtak, p.AntallManeder())
	for _, m := range p.Maneder() {
		v, funnet := GjeldendeVedtakForManed(historikk, m)
		if !funnet {
			return GjeldendeVedtaksdata{}, &KanIkkeRevurdereError{Grunn: HeleRevurderingsperiodenInneholderIkkeVedtak}
		}
		vedtakPerManed[m] = v
	}

	data := GjeldendeVedtaksdata{
		Periode:        p,
		vedtakPerManed: vedtakPerManed,
	}

	// Group the period into contiguous stretches governed by the same
	// vedtak, then clip that vedtak's data to each stretch.
	maneder := p.Maneder()
	var bosituasjon []grunnlag.Bosituasjon
	var fradrag []grunnlag.Fradragsgrunnlag
	vurderingerPerType := make(map[vilkar.Vilkartype][]vilkar.Vurderingsperiode)

	start := 0
	for i := 1; i <= len(maneder); i++ {
		if i < len(maneder) && vedtakPerManed[maneder[i]].ID == vedtakPerManed[maneder[start]].ID {
			continue
		}
		stykke := periode.MaOverManeder(maneder[start], maneder[i-1])
		v := vedtakPerManed[maneder[start]]

		for _, b := range v.Grunnlagsdata.Bosituasjon {
			if snitt, ok := b.Periode.Snitt(stykke); ok {
				klippet := b
				klippet.Periode = snitt
				bosituasjon = append(bosituasjon, klippet)
			}
		}
		for _, f := range v.Grunnlagsdata.Fradragsgrunnlag {
			if snitt, ok := f.Periode.Snitt(stykke); ok {
				klippet := f
				klippet.Periode = snitt
				fradrag = append(fradrag, klippet)
			}
		}
		for _, t := range vilkar.AlleVilkartyper {
			for _, vp := range v.Vilkarsvurderinger.Vilkar(t).Vurderinger {
				if snitt, ok := vp.Periode.Snitt(stykke); ok {
					klippet := vp
					klippet.Periode = snitt
					vurderingerPerType[t] = append(vurderingerPerType[t], klippet)
				}
			}
		}

		for _, mb := range v.ManedBelop() {
			if stykke.Inneholder(mb.Maned.Periode()) {
				data.ManedBelop = append(data.ManedBelop, mb)
			}
		}
		start = i
	}

	data.Grunnlagsdata = grunnlag.Grunnlagsdata{Bosituasjon: bosituasjon, Fradragsgrunnlag: fradrag}

	vilkarsvurderinger := vilkar.IkkeVurderteVilkar(p)
	for _, t := range vilkar.AlleVilkartyper {
		vurderinger := vurderingerPerType[t]
		if len(vurderinger) == 0 {
			continue
		}
		vurdert, err := vilkar.NyVurdertVilkar(t, vurderinger)
		if err != nil {
			return GjeldendeVedtaksdata{}, err
		}
		vilkarsvurderinger, err = vilkarsvurderinger.Oppdater(vurdert)
		if err != nil {
			return GjeldendeVedtaksdata{}, err
		}
	}
	data.Vilkarsvurderinger = vilkarsvurderinger

	return data, nil
}
