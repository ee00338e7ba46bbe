package vilkar

import (
	"time"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
)

// Vilkarsvurderinger is the full condition set for one behandling, scoped to
// its period. The zero value is not usable; construct with
// IkkeVurderteVilkar and enrich with Oppdater.
type Vilkarsvurderinger struct {
	Periode     periode.Periode
	vurderinger map[Vilkartype]Vilkarsvurdering
}

// IkkeVurderteVilkar returns the baseline where every condition is uavklart.
func IkkeVurderteVilkar(p periode.Periode) Vilkarsvurderinger {
	vurderinger := make(map[Vilkartype]Vilkarsvurdering, len(AlleVilkartyper))
	for _, t := range AlleVilkartyper {
		vurderinger[t] = IkkeVurdert(t)
	}
	return Vilkarsvurderinger{Periode: p, vurderinger: vurderinger}
}

// Oppdater replaces the assessment of one condition type. Assessed conditions
// must exactly cover the behandling's period.
func (v Vilkarsvurderinger) Oppdater(vurdering Vilkarsvurdering) (Vilkarsvurderinger, error) {
	if vurdering.ErVurdert() && !vurdering.DekkerPeriode(v.Periode) {
		return Vilkarsvurderinger{}, ErrVurderingsperiodeUtenforBehandlingsperioden
	}
	ny := v.kopi()
	ny.vurderinger[vurdering.Type] = vurdering
	return ny, nil
}

// Vilkar returns the assessment of one condition type.
func (v Vilkarsvurderinger) Vilkar(t Vilkartype) Vilkarsvurdering {
	return v.vurderinger[t]
}

// Resultat folds all conditions into the behandling's overall verdict.
// Avslått wins over uavklart: one failing condition settles the case even if
// others are unassessed.
func (v Vilkarsvurderinger) Resultat() Resultat {
	resultat := Innvilget
	for _, t := range AlleVilkartyper {
		switch v.vurderinger[t].Resultat() {
		case Avslatt:
			return Avslatt
		case Uavklart:
			resultat = Uavklart
		}
	}
	return resultat
}

// Avslagsgrunner returns the rejection reason of every failing condition, in
// the fixed condition order.
func (v Vilkarsvurderinger) Avslagsgrunner() []Avslagsgrunn {
	var grunner []Avslagsgrunn
	for _, t := range AlleVilkartyper {
		if v.vurderinger[t].Resultat() == Avslatt {
			grunner = append(grunner, AvslagsgrunnForVilkar(t))
		}
	}
	return grunner
}

// AvslagsPerioder returns the union of every failing period, merged to the
// minimal contiguous set.
func (v Vilkarsvurderinger) AvslagsPerioder() []periode.Periode {
	var perioder []periode.Periode
	for _, t := range AlleVilkartyper {
		perioder = append(perioder, v.vurderinger[t].AvslagsPerioder()...)
	}
	return periode.MinsteAntallSammenhengendePerioder(perioder)
}

// TidligsteDatoForAvslag returns the first day of the earliest failing
// period, if any condition fails.
func (v Vilkarsvurderinger) TidligsteDatoForAvslag() (time.Time, bool) {
	perioder := v.AvslagsPerioder()
	if len(perioder) == 0 {
		return time.Time{}, false
	}
	return perioder[0].FraOgMed(), true
}

// UtledOpphorsgrunner maps every failing condition to its opphør reason.
func (v Vilkarsvurderinger) UtledOpphorsgrunner() []Opphorsgrunn {
	var grunner []Opphorsgrunn
	for _, t := range AlleVilkartyper {
		if v.vurderinger[t].Resultat() == Avslatt {
			grunner = append(grunner, OpphorsgrunnForVilkar(t))
		}
	}
	return grunner
}

// AntallAvslatteVilkar counts the independently failing conditions.
func (v Vilkarsvurderinger) AntallAvslatteVilkar() int {
	antall := 0
	for _, t := range AlleVilkartyper {
		if v.vurderinger[t].Resultat() == Avslatt {
			antall++
		}
	}
	return antall
}

// Uforegrunnlag returns the disability basis facts attached to the uførhet
// vilkår, sorted by period.
func (v Vilkarsvurderinger) Uforegrunnlag() []grunnlag.Uforegrunnlag {
	var ut []grunnlag.Uforegrunnlag
	for _, vp := range v.vurderinger[Uforhet].Vurderinger {
		if vp.Uforegrunnlag != nil {
			ut = append(ut, *vp.Uforegrunnlag)
		}
	}
	return ut
}

// Formuegrunnlag returns the asset basis facts attached to the formue vilkår.
func (v Vilkarsvurderinger) Formuegrunnlag() []grunnlag.Formuegrunnlag {
	var ut []grunnlag.Formuegrunnlag
	for _, vp := range v.vurderinger[Formue].Vurderinger {
		if vp.Formuegrunnlag != nil {
			ut = append(ut, *vp.Formuegrunnlag)
		}
	}
	return ut
}

func (v Vilkarsvurderinger) kopi() Vilkarsvurderinger {
	vurderinger := make(map[Vilkartype]Vilkarsvurdering, len(v.vurderinger))
	for t, vurdering := range v.vurderinger {
		vurderinger[t] = vurdering
	}
	return Vilkarsvurderinger{Periode: v.Periode, vurderinger: vurderinger}
}
