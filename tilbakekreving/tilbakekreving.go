/*
Package tilbakekreving determines what must be paid back when a revision
reduces the benefit for months that are already paid out.

PURPOSE:
  The amount owed per month is what was paid minus what the new beregning
  grants, floored at zero. Whether the money is actually clawed back depends
  on the caseworker's assessment of what the recipient understood about the
  overpayment: understood or should have understood means tilbakekrev, could
  not have understood means the claim is waived. The assessment is a small
  sequential state machine that ends waiting for the payment system's formal
  claim basis (kravgrunnlag).

SEE ALSO:
  - revurdering: gates attestering on a completed assessment
*/
package tilbakekreving

import (
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/periode"
)

// Tilbakekreving is the per-month claim a revision gives rise to.
type Tilbakekreving struct {
	Periode    periode.Periode
	ManedBelop []beregning.ManedBelop
}

// SumBelop returns the total amount owed.
func (t Tilbakekreving) SumBelop() int {
	sum := 0
	for _, mb := range t.ManedBelop {
		sum += mb.Belop
	}
	return sum
}

// Utled computes the claim for a new beregning against the amounts already
// paid: paid minus newly granted, floored at zero, months with nothing owed
// omitted. Returns false when nothing is owed at all.
func Utled(ny beregning.Beregning, gjeldende []beregning.ManedBelop) (Tilbakekreving, bool) {
	var manedBelop []beregning.ManedBelop
	for _, m := range ny.Maneder {
		utbetalt := beregning.BelopFor(gjeldende, m.Maned)
		krav := utbetalt - m.Belop
		if krav <= 0 {
			continue
		}
		manedBelop = append(manedBelop, beregning.ManedBelop{Maned: m.Maned, Belop: krav})
	}
	if len(manedBelop) == 0 {
		return Tilbakekreving{}, false
	}
	return Tilbakekreving{Periode: ny.Periode, ManedBelop: manedBelop}, true
}

// =============================================================================
// BEHANDLING - The assessment state machine
// =============================================================================

// Tilstand is the assessment's position in its lifecycle.
type Tilstand string

const (
	TilstandIkkeAvgjort          Tilstand = "IKKE_AVGJORT"
	TilstandAvgjort              Tilstand = "AVGJORT"
	TilstandAvventerKravgrunnlag Tilstand = "AVVENTER_KRAVGRUNNLAG"
)

// Vurdering is the caseworker's judgment of what the recipient understood.
type Vurdering string

const (
	Forsto          Vurdering = "FORSTO"
	BurdeForstatt   Vurdering = "BURDE_FORSTÅTT"
	KunneIkkeForsta Vurdering = "KUNNE_IKKE_FORSTÅ"
)

// Avgjorelse is the resulting call: claw back or waive.
type Avgjorelse string

const (
	Tilbakekrev     Avgjorelse = "TILBAKEKREV"
	IkkeTilbakekrev Avgjorelse = "IKKE_TILBAKEKREV"
)

// Behandling tracks the assessment of one revision's claim.
type Behandling struct {
	ID            uuid.UUID
	Opprettet     time.Time
	RevurderingID uuid.UUID
	Krav          Tilbakekreving
	Tilstand      Tilstand
	Vurdering     Vurdering
	Avgjorelse    Avgjorelse
}

func NyBehandling(opprettet time.Time, revurderingID uuid.UUID, krav Tilbakekreving) Behandling {
	return Behandling{
		ID:            uuid.New(),
		Opprettet:     opprettet,
		RevurderingID: revurderingID,
		Krav:          krav,
		Tilstand:      TilstandIkkeAvgjort,
	}
}

// Avgjor records the caseworker's judgment. Understanding (actual or
// expected) leads to tilbakekrev; a recipient who could not have understood
// keeps the money.
func (b Behandling) Avgjor(vurdering Vurdering) (Behandling, error) {
	if b.Tilstand != TilstandIkkeAvgjort {
		return Behandling{}, &UgyldigTilstandError{Fra: b.Tilstand, Til: TilstandAvgjort}
	}
	switch vurdering {
	case Forsto, BurdeForstatt:
		b.Avgjorelse = Tilbakekrev
	case KunneIkkeForsta:
		b.Avgjorelse = IkkeTilbakekrev
	default:
		return Behandling{}, &UgyldigVurderingError{Vurdering: vurdering}
	}
	b.Vurdering = vurdering
	b.Tilstand = TilstandAvgjort
	return b, nil
}

// FullforBehandling closes the assessment; the claim now waits for the
// payment system's kravgrunnlag.
func (b Behandling) FullforBehandling() (Behandling, error) {
	if b.Tilstand != TilstandAvgjort {
		return Behandling{}, &UgyldigTilstandError{Fra: b.Tilstand, Til: TilstandAvventerKravgrunnlag}
	}
	b.Tilstand = TilstandAvventerKravgrunnlag
	return b, nil
}

// ErAvgjort reports whether the caseworker has made the call.
func (b Behandling) ErAvgjort() bool { return b.Tilstand != TilstandIkkeAvgjort }

// SkalTilbakekreve reports whether the claim will be pursued.
func (b Behandling) SkalTilbakekreve() bool {
	return b.ErAvgjort() && b.Avgjorelse == Tilbakekrev
}
