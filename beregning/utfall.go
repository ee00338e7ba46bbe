package beregning

import (
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// Utfall classifies a beregning relative to what is already being paid.
type Utfall string

const (
	UtfallInnvilget    Utfall = "INNVILGET"
	UtfallOpphort      Utfall = "OPPHØRT"
	UtfallIngenEndring Utfall = "INGEN_ENDRING"
)

// ManedBelop is one month of an existing payment stream, used both for
// delta comparisons and for tilbakekreving.
type ManedBelop struct {
	Maned periode.Maned
	Belop int
}

// BelopFor returns the paid amount for a month, zero when none is known.
func BelopFor(gjeldende []ManedBelop, m periode.Maned) int {
	for _, mb := range gjeldende {
		if mb.Maned == m {
			return mb.Belop
		}
	}
	return 0
}

// KlassifiserUtfall decides whether a beregning is an ordinary change, no
// change, or an opphør. A failing condition or a period where every month
// pays nothing terminates the benefit; otherwise the new amounts are compared
// month by month against what is already being paid.
func KlassifiserUtfall(b Beregning, v vilkar.Vilkarsvurderinger, gjeldende []ManedBelop) Utfall {
	if v.Resultat() == vilkar.Avslatt {
		return UtfallOpphort
	}
	if b.AlleManederUtenUtbetaling() {
		return UtfallOpphort
	}
	for _, m := range b.Maneder {
		if m.Belop != BelopFor(gjeldende, m.Maned) {
			return UtfallInnvilget
		}
	}
	return UtfallIngenEndring
}

// Opphorsdato returns the termination effective date for an opphør: the first
// day of the first month that fails a condition or pays nothing.
func Opphorsdato(b Beregning, v vilkar.Vilkarsvurderinger) (periode.Maned, bool) {
	if dato, funnet := v.TidligsteDatoForAvslag(); funnet {
		return periode.ManedFra(dato), true
	}
	return b.ForsteManedUtenUtbetaling()
}

// =============================================================================
// REVURDERINGSUTFALL SOM IKKE STØTTES - Supported-outcome checks
// =============================================================================
//
// A revision that technically calculates fine can still be an outcome the
// saksbehandling flow does not support in one batch. These are soft failures:
// the beregnet state is persisted but progression to attestering is blocked
// until the feilmeldinger are resolved (by splitting the revision).

type Feilmelding string

const (
	OpphorErIkkeFraForsteManed         Feilmelding = "OPPHØR_ER_IKKE_FRA_FØRSTE_MÅNED"
	OpphorAvFlereVilkar                Feilmelding = "OPPHØR_AV_FLERE_VILKÅR"
	OpphorOgAndreEndringerIKombinasjon Feilmelding = "OPPHØR_OG_ANDRE_ENDRINGER_I_KOMBINASJON"
	DelvisOpphor                       Feilmelding = "DELVIS_OPPHØR"
)

// IdentifiserUtfallSomIkkeStottes checks an opphør outcome for unsupported
// combinations. Non-opphør outcomes never produce feilmeldinger.
func IdentifiserUtfallSomIkkeStottes(
	b Beregning,
	v vilkar.Vilkarsvurderinger,
	gjeldende []ManedBelop,
) []Feilmelding {
	if KlassifiserUtfall(b, v, gjeldende) != UtfallOpphort {
		return nil
	}

	var feilmeldinger []Feilmelding

	opphorsmaned, funnet := Opphorsdato(b, v)
	if funnet && opphorsmaned != b.Periode.ForsteManed() {
		feilmeldinger = append(feilmeldinger, OpphorErIkkeFraForsteManed)
	}

	if v.AntallAvslatteVilkar() > 1 {
		feilmeldinger = append(feilmeldinger, OpphorAvFlereVilkar)
	}

	// An opphør must cover the whole revision period; months that keep
	// paying mean the caseworker combined a termination with other changes.
	harUtbetaling := false
	harEndringVedSidenAvOpphor := false
	for _, m := range b.Maneder {
		if m.Belop > 0 {
			harUtbetaling = true
			if m.Belop != BelopFor(gjeldende, m.Maned) {
				harEndringVedSidenAvOpphor = true
			}
		}
	}
	if harEndringVedSidenAvOpphor {
		feilmeldinger = append(feilmeldinger, OpphorOgAndreEndringerIKombinasjon)
	} else if harUtbetaling {
		feilmeldinger = append(feilmeldinger, DelvisOpphor)
	}

	return feilmeldinger
}

// =============================================================================
// VARSELMELDINGER - Advisory warnings
// =============================================================================

type Varselmelding string

const (
	BelopsendringUnder10Prosent Varselmelding = "BELØPSENDRING_UNDER_10_PROSENT"
)

// VurderOmBelopsendringErStorreEnn10Prosent reports whether the new amounts
// differ from the existing payments by at least ten percent in some month.
// With no overlapping existing payments there is nothing to compare against
// and the change always counts as significant.
func VurderOmBelopsendringErStorreEnn10Prosent(b Beregning, gjeldende []ManedBelop) bool {
	harOverlapp := false
	for _, mb := range gjeldende {
		if b.Periode.Inneholder(mb.Maned.Periode()) {
			harOverlapp = true
			break
		}
	}
	if !harOverlapp {
		return true
	}

	for _, m := range b.Maneder {
		gjeldendeBelop := BelopFor(gjeldende, m.Maned)
		diff := m.Belop - gjeldendeBelop
		if diff < 0 {
			diff = -diff
		}
		if diff == 0 {
			continue
		}
		if gjeldendeBelop == 0 || diff*10 >= gjeldendeBelop {
			return true
		}
	}
	return false
}

// Varselmeldinger returns the advisory warnings for a beregning. An opphør
// driven by a failing condition always proceeds regardless of magnitude, so
// the ten-percent warning is suppressed there.
func Varselmeldinger(b Beregning, v vilkar.Vilkarsvurderinger, gjeldende []ManedBelop) []Varselmelding {
	if v.Resultat() == vilkar.Avslatt {
		return nil
	}
	if !VurderOmBelopsendringErStorreEnn10Prosent(b, gjeldende) {
		return []Varselmelding{BelopsendringUnder10Prosent}
	}
	return nil
}
