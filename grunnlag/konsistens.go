/*
Consistency checking across the grunnlag aggregates.

PURPOSE:
  Before a behandling may be beregnet, its grunnlag must hang together:
  bosituasjon must cover every month fradrag or formue refers to, EPS-scoped
  data is only legal when the bosituasjon actually has an EPS, and no topic
  may carry overlapping periods. The checks here report every problem found
  rather than failing on the first one, so the saksbehandler can fix the
  whole set in one pass.
*/
package grunnlag

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/navikt/supplerende-stonad/periode"
)

// Konsistensproblem identifies one way the grunnlag set is inconsistent.
type Konsistensproblem string

const (
	UforeMangler Konsistensproblem = "UFØRE_MANGLER"

	BosituasjonMangler                   Konsistensproblem = "BOSITUASJON_MANGLER"
	BosituasjonUfullstendig              Konsistensproblem = "BOSITUASJON_UFULLSTENDIG"
	BosituasjonOverlapp                  Konsistensproblem = "BOSITUASJON_IKKE_LOV_MED_OVERLAPPENDE_PERIODER"
	IngenBosituasjonForFradragsperiode   Konsistensproblem = "INGEN_BOSITUASJON_FOR_FRADRAGSPERIODE"
	UgyldigKombinasjonBosituasjonFradrag Konsistensproblem = "KOMBINASJON_AV_BOSITUASJON_OG_FRADRAG_ER_UGYLDIG"

	FormueMangler                               Konsistensproblem = "FORMUE_MANGLER"
	FormueOverlapp                              Konsistensproblem = "FORMUE_IKKE_LOV_MED_OVERLAPPENDE_PERIODER"
	IngenFormueForBosituasjonsperiode           Konsistensproblem = "INGEN_FORMUE_FOR_BOSITUASJONSPERIODE"
	MaHaEpsHvisManHarSattEpsFormue              Konsistensproblem = "MÅ_HA_EPS_HVIS_MAN_HAR_SATT_EPS_FORMUE"
	EpsFormueperiodeErUtenforBosituasjonPeriode Konsistensproblem = "EPS_FORMUEPERIODE_ER_UTENFOR_BOSITUASJONPERIODE"
)

// KonsistenssjekkError aggregates every problem found in one pass.
type KonsistenssjekkError struct {
	Problemer []Konsistensproblem
}

func (e *KonsistenssjekkError) Error() string {
	deler := make([]string, len(e.Problemer))
	for i, p := range e.Problemer {
		deler[i] = string(p)
	}
	return fmt.Sprintf("grunnlaget er ikke konsistent: %s", strings.Join(deler, ", "))
}

// Har reports whether the given problem was found.
func (e *KonsistenssjekkError) Har(p Konsistensproblem) bool {
	for _, funnet := range e.Problemer {
		if funnet == p {
			return true
		}
	}
	return false
}

// ErrGrunnlagIkkeKonsistent is the sentinel every KonsistenssjekkError unwraps to.
var ErrGrunnlagIkkeKonsistent = errors.New("grunnlaget er ikke konsistent")

func (e *KonsistenssjekkError) Unwrap() error { return ErrGrunnlagIkkeKonsistent }

// SjekkBosituasjon verifies that bosituasjon exists and has no overlapping
// periods.
func SjekkBosituasjon(bosituasjon []Bosituasjon) []Konsistensproblem {
	var problemer []Konsistensproblem
	if len(bosituasjon) == 0 {
		return append(problemer, BosituasjonMangler)
	}
	perioder := make([]periode.Periode, 0, len(bosituasjon))
	for _, b := range bosituasjon {
		perioder = append(perioder, b.Periode)
	}
	if periode.HarOverlappende(perioder) {
		problemer = append(problemer, BosituasjonOverlapp)
	}
	return problemer
}

// SjekkUfore verifies that a disability grade has been registered.
func SjekkUfore(ufore []Uforegrunnlag) []Konsistensproblem {
	if len(ufore) == 0 {
		return []Konsistensproblem{UforeMangler}
	}
	return nil
}

// SjekkBosituasjonOgFradrag verifies that every fradrag period is covered by
// bosituasjon and that EPS-scoped fradrag only occur where an EPS exists.
// Problems with the bosituasjon itself are included, since the fradrag checks
// are meaningless without a valid bosituasjon.
func SjekkBosituasjonOgFradrag(bosituasjon []Bosituasjon, fradrag []Fradragsgrunnlag) []Konsistensproblem {
	problemer := SjekkBosituasjon(bosituasjon)
	if len(fradrag) == 0 {
		return unike(problemer)
	}

	bosituasjonsperioder := make([]periode.Periode, 0, len(bosituasjon))
	epsPerioder := make([]periode.Periode, 0, len(bosituasjon))
	for _, b := range bosituasjon {
		bosituasjonsperioder = append(bosituasjonsperioder, b.Periode)
		if b.HarEPS() {
			epsPerioder = append(epsPerioder, b.Periode)
		}
	}

	for _, f := range fradrag {
		if !periode.InneholderAllePerioder(bosituasjonsperioder, []periode.Periode{f.Periode}) {
			problemer = append(problemer, IngenBosituasjonForFradragsperiode)
		}
		if f.Tilhorer == TilhorerEPS &&
			!periode.InneholderAllePerioder(epsPerioder, []periode.Periode{f.Periode}) {
			problemer = append(problemer, UgyldigKombinasjonBosituasjonFradrag)
		}
	}
	return unike(problemer)
}

// SjekkBosituasjonOgFormue verifies that formue exists for the whole
// bosituasjonsperiode and that EPS formue only occurs where an EPS exists.
func SjekkBosituasjonOgFormue(bosituasjon []Bosituasjon, formue []Formuegrunnlag) []Konsistensproblem {
	problemer := SjekkBosituasjon(bosituasjon)
	if len(formue) == 0 {
		return unike(append(problemer, FormueMangler))
	}

	formueperioder := make([]periode.Periode, 0, len(formue))
	for _, f := range formue {
		formueperioder = append(formueperioder, f.Periode)
	}
	if periode.HarOverlappende(formueperioder) {
		problemer = append(problemer, FormueOverlapp)
	}

	bosituasjonsperioder := make([]periode.Periode, 0, len(bosituasjon))
	epsPerioder := make([]periode.Periode, 0, len(bosituasjon))
	for _, b := range bosituasjon {
		bosituasjonsperioder = append(bosituasjonsperioder, b.Periode)
		if b.HarEPS() {
			epsPerioder = append(epsPerioder, b.Periode)
		}
	}
	if !periode.InneholderAllePerioder(formueperioder, bosituasjonsperioder) {
		problemer = append(problemer, IngenFormueForBosituasjonsperiode)
	}
	for _, f := range formue {
		if f.EpsVerdier == nil {
			continue
		}
		if len(epsPerioder) == 0 {
			problemer = append(problemer, MaHaEpsHvisManHarSattEpsFormue)
			continue
		}
		if !periode.InneholderAllePerioder(epsPerioder, []periode.Periode{f.Periode}) {
			problemer = append(problemer, EpsFormueperiodeErUtenforBosituasjonPeriode)
		}
	}
	return unike(problemer)
}

// SjekkOmGrunnlagErKonsistent runs every cross-aggregate check and returns a
// KonsistenssjekkError listing all problems, or nil if the set is consistent.
func SjekkOmGrunnlagErKonsistent(
	ufore []Uforegrunnlag,
	bosituasjon []Bosituasjon,
	fradrag []Fradragsgrunnlag,
	formue []Formuegrunnlag,
) error {
	var problemer []Konsistensproblem
	problemer = append(problemer, SjekkUfore(ufore)...)
	problemer = append(problemer, SjekkBosituasjonOgFradrag(bosituasjon, fradrag)...)
	problemer = append(problemer, SjekkBosituasjonOgFormue(bosituasjon, formue)...)
	problemer = unike(problemer)
	if len(problemer) == 0 {
		return nil
	}
	return &KonsistenssjekkError{Problemer: problemer}
}

func unike(problemer []Konsistensproblem) []Konsistensproblem {
	if len(problemer) == 0 {
		return problemer
	}
	sett := make(map[Konsistensproblem]struct{}, len(problemer))
	resultat := problemer[:0]
	for _, p := range problemer {
		if _, sett2 := sett[p]; sett2 {
			continue
		}
		sett[p] = struct{}{}
		resultat = append(resultat, p)
	}
	sort.Slice(resultat, func(i, j int) bool { return resultat[i] < resultat[j] })
	return resultat
}
