/*
Package vilkar evaluates eligibility conditions into per-period verdicts.

PURPOSE:
  Each condition type (uførhet, formue, opphold i utlandet, ...) is assessed
  over one or more vurderingsperioder, each carrying a verdict. A behandling
  owns one vilkårsvurdering per condition type; the aggregate folds them into
  an overall verdict: innvilget only when every condition is innvilget for
  every month, avslått as soon as one condition fails somewhere, uavklart
  while anything is unassessed.

KEY CONCEPTS:
  - Vurderingsperiode:  one period + verdict for one condition
  - Vilkarsvurdering:   all vurderingsperioder for one condition type
  - Vilkarsvurderinger: the full set for a behandling
  - Avslagsgrunn:       rejection reason with its statute paragraphs

SEE ALSO:
  - avslag.go:  paragraph mapping and opphør reasons
  - beregning:  consumes uføregrunnlag attached to the uførhet vilkår
*/
package vilkar

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
)

// Vilkartype identifies a condition type.
type Vilkartype string

const (
	Uforhet             Vilkartype = "UFØRHET"
	Flyktning           Vilkartype = "FLYKTNING"
	Formue              Vilkartype = "FORMUE"
	Utenlandsopphold    Vilkartype = "UTENLANDSOPPHOLD"
	PersonligOppmote    Vilkartype = "PERSONLIG_OPPMØTE"
	Institusjonsopphold Vilkartype = "INSTITUSJONSOPPHOLD"
	FastOppholdINorge   Vilkartype = "FAST_OPPHOLD_I_NORGE"
)

// AlleVilkartyper is the fixed condition set for the uføre flow.
var AlleVilkartyper = []Vilkartype{
	Uforhet, Flyktning, Formue, Utenlandsopphold, PersonligOppmote, Institusjonsopphold, FastOppholdINorge,
}

// Resultat is the verdict for one vurderingsperiode or for the aggregate.
type Resultat string

const (
	Innvilget Resultat = "INNVILGET"
	Avslatt   Resultat = "AVSLÅTT"
	Uavklart  Resultat = "UAVKLART"
)

// Vurderingsperiode is one assessed period for one condition. The grunnlag
// pointers are set for the condition types that carry basis facts: uførhet
// carries grade and expected income, formue carries the asset record.
type Vurderingsperiode struct {
	ID          uuid.UUID
	Opprettet   time.Time
	Periode     periode.Periode
	Resultat    Resultat
	Begrunnelse string

	Uforegrunnlag  *grunnlag.Uforegrunnlag
	Formuegrunnlag *grunnlag.Formuegrunnlag
}

func NyVurderingsperiode(opprettet time.Time, p periode.Periode, resultat Resultat, begrunnelse string) Vurderingsperiode {
	return Vurderingsperiode{
		ID:          uuid.New(),
		Opprettet:   opprettet,
		Periode:     p,
		Resultat:    resultat,
		Begrunnelse: begrunnelse,
	}
}

// Vilkarsvurdering is the assessment of one condition type. A nil or empty
// vurderingsliste means the condition has not been assessed yet.
type Vilkarsvurdering struct {
	Type        Vilkartype
	Vurderinger []Vurderingsperiode
}

// IkkeVurdert returns the unassessed state for a condition type.
func IkkeVurdert(t Vilkartype) Vilkarsvurdering {
	return Vilkarsvurdering{Type: t}
}

// NyVurdertVilkar constructs an assessed condition. The vurderingsperioder
// must be non-empty and free of overlap; they are stored sorted.
func NyVurdertVilkar(t Vilkartype, vurderinger []Vurderingsperiode) (Vilkarsvurdering, error) {
	if len(vurderinger) == 0 {
		return Vilkarsvurdering{}, ErrVurderingsperioderMangler
	}
	perioder := make([]periode.Periode, 0, len(vurderinger))
	for _, v := range vurderinger {
		perioder = append(perioder, v.Periode)
	}
	if periode.HarOverlappende(perioder) {
		return Vilkarsvurdering{}, ErrOverlappendeVurderingsperioder
	}
	sortert := make([]Vurderingsperiode, len(vurderinger))
	copy(sortert, vurderinger)
	sort.Slice(sortert, func(i, j int) bool {
		return sortert[i].Periode.ForsteManed().For(sortert[j].Periode.ForsteManed())
	})
	return Vilkarsvurdering{Type: t, Vurderinger: sortert}, nil
}

// ErVurdert reports whether any vurderingsperioder exist.
func (v Vilkarsvurdering) ErVurdert() bool { return len(v.Vurderinger) > 0 }

// Resultat folds the per-period verdicts: avslått beats innvilget, and an
// unassessed condition is uavklart.
func (v Vilkarsvurdering) Resultat() Resultat {
	if !v.ErVurdert() {
		return Uavklart
	}
	resultat := Innvilget
	for _, vp := range v.Vurderinger {
		switch vp.Resultat {
		case Avslatt:
			return Avslatt
		case Uavklart:
			resultat = Uavklart
		}
	}
	return resultat
}

// Perioder returns every assessed period, sorted.
func (v Vilkarsvurdering) Perioder() []periode.Periode {
	perioder := make([]periode.Periode, 0, len(v.Vurderinger))
	for _, vp := range v.Vurderinger {
		perioder = append(perioder, vp.Periode)
	}
	return perioder
}

// AvslagsPerioder returns the periods where the condition fails.
func (v Vilkarsvurdering) AvslagsPerioder() []periode.Periode {
	var avslag []periode.Periode
	for _, vp := range v.Vurderinger {
		if vp.Resultat == Avslatt {
			avslag = append(avslag, vp.Periode)
		}
	}
	return avslag
}

// DekkerPeriode reports whether the vurderingsperioder exactly cover p.
func (v Vilkarsvurdering) DekkerPeriode(p periode.Periode) bool {
	return p.InneholderAlle(v.Perioder())
}
