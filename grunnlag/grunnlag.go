/*
Package grunnlag holds the period-scoped basis facts a behandling is built on.

PURPOSE:
  A behandling (søknadsbehandling or revurdering) owns a set of grunnlag:
  income deductions (fradrag), living situation (bosituasjon), asset values
  (formue) and disability grade (uføre). Each grunnlag carries the period it
  is valid for. Grunnlag are immutable once created; revising a topic creates
  a new set that supersedes the old one for the overlapping period.

KEY CONCEPTS:
  - Fradragsgrunnlag: one deduction entry (type, monthly amount, owner)
  - Bosituasjon:      living-situation variant, decides rate class and
                      whether partner (EPS) scoped data is legal
  - Formuegrunnlag:   asset values for applicant and optionally EPS
  - Uforegrunnlag:    disability grade + expected income
  - Grunnlagsdata:    the fradrag+bosituasjon set owned by one behandling

SEE ALSO:
  - konsistens.go: cross-aggregate consistency checking
  - vilkar:        evaluates grunnlag into per-period verdicts
*/
package grunnlag

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/navikt/supplerende-stonad/periode"
)

// =============================================================================
// FRADRAG - Income deductions
// =============================================================================

type Fradragstype string

const (
	FradragArbeidsinntekt   Fradragstype = "Arbeidsinntekt"
	FradragKontantstotte    Fradragstype = "Kontantstøtte"
	FradragUforetrygd       Fradragstype = "Uføretrygd"
	FradragForventetInntekt Fradragstype = "ForventetInntekt"
	FradragKapitalinntekt   Fradragstype = "Kapitalinntekt"
	FradragSosialstonad     Fradragstype = "Sosialstønad"
	FradragPrivatPensjon    Fradragstype = "PrivatPensjon"
	FradragOffentligPensjon Fradragstype = "OffentligPensjon"
)

// FradragTilhorer identifies whose income a deduction stems from.
type FradragTilhorer string

const (
	TilhorerBruker FradragTilhorer = "BRUKER"
	TilhorerEPS    FradragTilhorer = "EPS"
)

// Fradragsgrunnlag is a single deduction entry for a period.
// ManedsBelop is the deduction per month within the period.
type Fradragsgrunnlag struct {
	ID               uuid.UUID
	Opprettet        time.Time
	Periode          periode.Periode
	Type             Fradragstype
	ManedsBelop      decimal.Decimal
	Tilhorer         FradragTilhorer
	Utenlandsinntekt bool
}

func NyttFradragsgrunnlag(
	opprettet time.Time,
	p periode.Periode,
	fradragstype Fradragstype,
	manedsBelop decimal.Decimal,
	tilhorer FradragTilhorer,
) Fradragsgrunnlag {
	return Fradragsgrunnlag{
		ID:          uuid.New(),
		Opprettet:   opprettet,
		Periode:     p,
		Type:        fradragstype,
		ManedsBelop: manedsBelop,
		Tilhorer:    tilhorer,
	}
}

// =============================================================================
// BOSITUASJON - Living situation
// =============================================================================

type Bosituasjonstype string

const (
	BosituasjonEnslig                  Bosituasjonstype = "ENSLIG"
	BosituasjonDelerBoligMedVoksne     Bosituasjonstype = "DELER_BOLIG_MED_VOKSNE"
	BosituasjonEpsOver67               Bosituasjonstype = "EPS_67_ELLER_OVER"
	BosituasjonEpsUnder67              Bosituasjonstype = "EPS_UNDER_67"
	BosituasjonEpsUnder67UforFlyktning Bosituasjonstype = "EPS_UNDER_67_UFØR_FLYKTNING"
)

// Bosituasjon is the living situation for a period. The variant determines
// the rate class and whether EPS-scoped fradrag/formue is legal.
type Bosituasjon struct {
	ID        uuid.UUID
	Opprettet time.Time
	Periode   periode.Periode
	Type      Bosituasjonstype
}

func NyBosituasjon(opprettet time.Time, p periode.Periode, t Bosituasjonstype) Bosituasjon {
	return Bosituasjon{ID: uuid.New(), Opprettet: opprettet, Periode: p, Type: t}
}

// HarEPS returns true for the cohabiting variants.
func (b Bosituasjon) HarEPS() bool {
	switch b.Type {
	case BosituasjonEpsOver67, BosituasjonEpsUnder67, BosituasjonEpsUnder67UforFlyktning:
		return true
	}
	return false
}

// =============================================================================
// FORMUE - Asset values
// =============================================================================

// Verdier is one person's asset record. All amounts are whole kroner.
type Verdier struct {
	VerdiIkkePrimarbolig int
	VerdiKjoretoy        int
	Innskudd             int
	Verdipapir           int
	PengerSkyldt         int
	Kontanter            int
	Depositumskonto      int
}

// Sum returns the countable net assets. The deposit account offsets bank
// deposits, never below zero.
func (v Verdier) Sum() int {
	innskudd := v.Innskudd - v.Depositumskonto
	if innskudd < 0 {
		innskudd = 0
	}
	return v.VerdiIkkePrimarbolig + v.VerdiKjoretoy + innskudd + v.Verdipapir + v.PengerSkyldt + v.Kontanter
}

// Formuegrunnlag carries asset values for the applicant and, when the
// bosituasjon has an EPS, for the partner.
type Formuegrunnlag struct {
	ID            uuid.UUID
	Opprettet     time.Time
	Periode       periode.Periode
	SokersVerdier Verdier
	EpsVerdier    *Verdier
}

func NyttFormuegrunnlag(opprettet time.Time, p periode.Periode, sokers Verdier, eps *Verdier) Formuegrunnlag {
	return Formuegrunnlag{ID: uuid.New(), Opprettet: opprettet, Periode: p, SokersVerdier: sokers, EpsVerdier: eps}
}

// SumFormue returns the household's total countable assets.
func (f Formuegrunnlag) SumFormue() int {
	sum := f.SokersVerdier.Sum()
	if f.EpsVerdier != nil {
		sum += f.EpsVerdier.Sum()
	}
	return sum
}

// =============================================================================
// UFORE - Disability grade
// =============================================================================

// Uforegrunnlag carries the disability grade (0-100) and the yearly expected
// income fixed by the disability decision.
type Uforegrunnlag struct {
	ID               uuid.UUID
	Opprettet        time.Time
	Periode          periode.Periode
	Uforegrad        int
	ForventetInntekt int
}

func NyttUforegrunnlag(opprettet time.Time, p periode.Periode, uforegrad, forventetInntekt int) Uforegrunnlag {
	return Uforegrunnlag{
		ID:               uuid.New(),
		Opprettet:        opprettet,
		Periode:          p,
		Uforegrad:        uforegrad,
		ForventetInntekt: forventetInntekt,
	}
}

// =============================================================================
// GRUNNLAGSDATA - The fradrag+bosituasjon set owned by one behandling
// =============================================================================

type Grunnlagsdata struct {
	Fradragsgrunnlag []Fradragsgrunnlag
	Bosituasjon      []Bosituasjon
}

// NyGrunnlagsdata validates that the combination is internally consistent
// before constructing the aggregate.
func NyGrunnlagsdata(bosituasjon []Bosituasjon, fradrag []Fradragsgrunnlag) (Grunnlagsdata, error) {
	if problemer := SjekkBosituasjonOgFradrag(bosituasjon, fradrag); len(problemer) > 0 {
		return Grunnlagsdata{}, &KonsistenssjekkError{Problemer: problemer}
	}
	return Grunnlagsdata{Fradragsgrunnlag: fradrag, Bosituasjon: bosituasjon}, nil
}

// IkkeVurdertGrunnlagsdata is the empty baseline before any topic is revised.
func IkkeVurdertGrunnlagsdata() Grunnlagsdata { return Grunnlagsdata{} }

// BosituasjonFor returns the bosituasjon covering the given month.
func (g Grunnlagsdata) BosituasjonFor(m periode.Maned) (Bosituasjon, bool) {
	for _, b := range g.Bosituasjon {
		if b.Periode.Inneholder(m.Periode()) {
			return b, true
		}
	}
	return Bosituasjon{}, false
}

// FradragFor returns the fradrag entries active in the given month.
func (g Grunnlagsdata) FradragFor(m periode.Maned) []Fradragsgrunnlag {
	var aktive []Fradragsgrunnlag
	for _, f := range g.Fradragsgrunnlag {
		if f.Periode.Inneholder(m.Periode()) {
			aktive = append(aktive, f)
		}
	}
	return aktive
}

// Perioder returns the minimal contiguous coverage of the bosituasjon set.
func (g Grunnlagsdata) Perioder() []periode.Periode {
	perioder := make([]periode.Periode, 0, len(g.Bosituasjon))
	for _, b := range g.Bosituasjon {
		perioder = append(perioder, b.Periode)
	}
	return periode.MinsteAntallSammenhengendePerioder(perioder)
}
