/*
Package revurdering owns the lifecycle of a revision of a granted benefit.

PURPOSE:
  A revurdering starts from the currently effective decision data, lets the
  caseworker revise facts for a period, recalculates and simulates the
  consequence, and moves through attestation to execution or abandonment.
  The lifecycle is a tagged union of state structs: every transition
  constructs the next state from the previous one plus new data, never by
  mutating in place, and every state carries strictly more data than its
  predecessor. Illegal transitions return UgyldigTilstandError and leave the
  stored aggregate untouched.

KEY CONCEPTS:
  - Revurdering:    the union; concrete states below
  - Grunninformasjon: the data every state shares
  - Attestering:    one approval or rejection, kept as append-only history
  - Service:        orchestration over the collaborator ports (service.go)

SEE ALSO:
  - forhandsvarsel.go: the orthogonal advance-notice sub-machine
  - stans.go:          the reduced stans/gjenopptak flows
*/
package revurdering

import (
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/simulering"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vedtak"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// Revurdering is the tagged union over the lifecycle states.
type Revurdering interface {
	Info() Grunninformasjon
	Tilstand() Tilstand
}

// Grunninformasjon is the data every state shares.
type Grunninformasjon struct {
	ID             uuid.UUID
	SakID          uuid.UUID
	Opprettet      time.Time
	Periode        periode.Periode
	TilRevurdering uuid.UUID
	Saksbehandler  string
	Arsak          Revurderingsarsak
	Informasjon    InformasjonSomRevurderes

	Grunnlagsdata      grunnlag.Grunnlagsdata
	Vilkarsvurderinger vilkar.Vilkarsvurderinger
	Forhandsvarsel     *Forhandsvarsel

	// Attesteringer is append-only and survives underkjennelse and rework.
	Attesteringer []Attestering
}

// Attestering is one entry of the append-only attestation history.
type Attestering struct {
	Attestant string
	Tidspunkt time.Time
	Godkjent  bool
	Grunn     string
	Kommentar string
}

// =============================================================================
// TILSTANDER
// =============================================================================

// Opprettet is the initial, editable state.
type Opprettet struct {
	Grunninformasjon
}

func (r Opprettet) Info() Grunninformasjon { return r.Grunninformasjon }
func (r Opprettet) Tilstand() Tilstand     { return TilstandOpprettet }

// Beregnet carries the calculation and its classification. A non-empty
// feilmeldinger list blocks attestering but not persistence.
type Beregnet struct {
	Opprettet
	Utfall              beregning.Utfall
	Beregning           beregning.Beregning
	GjeldendeManedBelop []beregning.ManedBelop
	Feilmeldinger       []beregning.Feilmelding
	Varselmeldinger     []beregning.Varselmelding
}

func (r Beregnet) Tilstand() Tilstand { return TilstandBeregnet }

// Simulert adds the payment system's answer and, when the revision reduces
// already-paid months, the clawback assessment.
type Simulert struct {
	Beregnet
	Simulering     simulering.Simulering
	Tilbakekreving *tilbakekreving.Behandling
}

func (r Simulert) Tilstand() Tilstand { return TilstandSimulert }

// TilAttestering is waiting for a decision by an attestant.
type TilAttestering struct {
	Simulert
	OppgaveID string
}

func (r TilAttestering) Tilstand() Tilstand { return TilstandTilAttestering }

// Iverksatt is terminal: the decision is made and the payment order sent.
type Iverksatt struct {
	TilAttestering
	Attestant          string
	IverksattTidspunkt time.Time
}

func (r Iverksatt) Tilstand() Tilstand { return TilstandIverksatt }

// Underkjent is editable again: the attestant said no.
type Underkjent struct {
	TilAttestering
}

func (r Underkjent) Tilstand() Tilstand { return TilstandUnderkjent }

// Brevvalg decides whether abandoning the revision sends a letter.
type Brevvalg string

const (
	SkalSendeBrev     Brevvalg = "SKAL_SENDE_BREV"
	SkalIkkeSendeBrev Brevvalg = "SKAL_IKKE_SENDE_BREV"
)

// Avsluttet is terminal: the revision was abandoned.
type Avsluttet struct {
	Underliggende      Revurdering
	Begrunnelse        string
	Brevvalg           Brevvalg
	TidspunktAvsluttet time.Time
}

func (r Avsluttet) Info() Grunninformasjon { return r.Underliggende.Info() }
func (r Avsluttet) Tilstand() Tilstand     { return TilstandAvsluttet }

// =============================================================================
// OPPRETTELSE OG OPPDATERING
// =============================================================================

// NyRevurderingCommand is the caseworker's request to open or re-point a
// revision.
type NyRevurderingCommand struct {
	SakID         uuid.UUID
	Periode       periode.Periode
	Saksbehandler string
	Arsak         Arsak
	Begrunnelse   string
	Steg          []Revurderingsteg
}

// NyOpprettetRevurdering opens a revision against the effective decision
// data for the period. The grunnlag and vilkår start as a fresh copy of what
// the existing vedtak decided.
func NyOpprettetRevurdering(
	cmd NyRevurderingCommand,
	gjeldende vedtak.GjeldendeVedtaksdata,
	clock Clock,
) (Opprettet, error) {
	arsak, err := NyRevurderingsarsak(cmd.Arsak, cmd.Begrunnelse)
	if err != nil {
		return Opprettet{}, err
	}
	informasjon, err := NyInformasjonSomRevurderes(cmd.Steg)
	if err != nil {
		return Opprettet{}, err
	}
	tilRevurdering, _ := gjeldende.VedtakForManed(cmd.Periode.ForsteManed())

	return Opprettet{Grunninformasjon{
		ID:                 uuid.New(),
		SakID:              cmd.SakID,
		Opprettet:          clock.Now(),
		Periode:            cmd.Periode,
		TilRevurdering:     tilRevurdering.ID,
		Saksbehandler:      cmd.Saksbehandler,
		Arsak:              arsak,
		Informasjon:        informasjon,
		Grunnlagsdata:      gjeldende.Grunnlagsdata,
		Vilkarsvurderinger: gjeldende.Vilkarsvurderinger,
	}}, nil
}

// Oppdater re-points the revision: new period, topics or grounds. The
// grunnlag and vilkår are always reset to a fresh baseline for the new
// period - partial edits never survive a period change.
func (r Opprettet) Oppdater(
	cmd NyRevurderingCommand,
	gjeldende vedtak.GjeldendeVedtaksdata,
) (Opprettet, error) {
	arsak, err := NyRevurderingsarsak(cmd.Arsak, cmd.Begrunnelse)
	if err != nil {
		return Opprettet{}, err
	}
	informasjon, err := NyInformasjonSomRevurderes(cmd.Steg)
	if err != nil {
		return Opprettet{}, err
	}
	tilRevurdering, _ := gjeldende.VedtakForManed(cmd.Periode.ForsteManed())

	ny := r
	ny.Periode = cmd.Periode
	ny.TilRevurdering = tilRevurdering.ID
	ny.Saksbehandler = cmd.Saksbehandler
	ny.Arsak = arsak
	ny.Informasjon = informasjon
	ny.Grunnlagsdata = gjeldende.Grunnlagsdata
	ny.Vilkarsvurderinger = gjeldende.Vilkarsvurderinger
	ny.Forhandsvarsel = nil
	return ny, nil
}

// LeggTilGrunnlag replaces the revision's grunnlag after a topic was revised.
// The combination must stay consistent.
func (r Opprettet) LeggTilGrunnlag(
	data grunnlag.Grunnlagsdata,
	vilkarsvurderinger vilkar.Vilkarsvurderinger,
	vurdertSteg Revurderingsteg,
) (Opprettet, error) {
	if problemer := grunnlag.SjekkBosituasjonOgFradrag(data.Bosituasjon, data.Fradragsgrunnlag); len(problemer) > 0 {
		return Opprettet{}, &grunnlag.KonsistenssjekkError{Problemer: problemer}
	}
	ny := r
	ny.Grunnlagsdata = data
	ny.Vilkarsvurderinger = vilkarsvurderinger
	ny.Informasjon = r.Informasjon.MarkerVurdert(vurdertSteg)
	return ny, nil
}

// =============================================================================
// OVERGANGER
// =============================================================================

// TilBeregnet classifies a finished calculation into the beregnet state.
func (r Opprettet) TilBeregnet(
	b beregning.Beregning,
	gjeldende []beregning.ManedBelop,
) Beregnet {
	return Beregnet{
		Opprettet:           r,
		Utfall:              beregning.KlassifiserUtfall(b, r.Vilkarsvurderinger, gjeldende),
		Beregning:           b,
		GjeldendeManedBelop: gjeldende,
		Feilmeldinger:       beregning.IdentifiserUtfallSomIkkeStottes(b, r.Vilkarsvurderinger, gjeldende),
		Varselmeldinger:     beregning.Varselmeldinger(b, r.Vilkarsvurderinger, gjeldende),
	}
}

// TilSimulert attaches the payment system's answer. A claim is derived when
// the simulation shows overpaid months.
func (r Beregnet) TilSimulert(s simulering.Simulering, clock Clock) Simulert {
	simulert := Simulert{Beregnet: r, Simulering: s}
	if krav, harKrav := tilbakekreving.Utled(r.Beregning, s.TidligereUtbetalte()); harKrav {
		behandling := tilbakekreving.NyBehandling(clock.Now(), r.ID, krav)
		simulert.Tilbakekreving = &behandling
	}
	return simulert
}

// AvgjorTilbakekreving records the caseworker's clawback judgment. Only a
// simulert revision carries an open assessment.
func (r Simulert) AvgjorTilbakekreving(vurdering tilbakekreving.Vurdering) (Simulert, error) {
	if r.Tilbakekreving == nil {
		return Simulert{}, ErrTilbakekrevingMaAvgjores
	}
	avgjort, err := r.Tilbakekreving.Avgjor(vurdering)
	if err != nil {
		return Simulert{}, err
	}
	ny := r
	ny.Tilbakekreving = &avgjort
	return ny, nil
}

// Forhandsvarsle attaches the advance-notice state once.
func (r Simulert) Forhandsvarsle(f Forhandsvarsel) (Simulert, error) {
	if r.Forhandsvarsel != nil && !r.Forhandsvarsel.erFerdigbehandlet() {
		return Simulert{}, &UgyldigTilstandsovergangError{Fra: r.Forhandsvarsel.Tilstand, Til: f.Tilstand}
	}
	ny := r
	ny.Grunninformasjon.Forhandsvarsel = &f
	return ny, nil
}

// SendTilAttestering hands the revision to an attestant. Unresolved
// feilmeldinger block; so does an unassessed non-zero claim.
func (r Simulert) SendTilAttestering(oppgaveID string) (TilAttestering, error) {
	if len(r.Feilmeldinger) > 0 {
		return TilAttestering{}, ErrFeilmeldingerMaHandteres
	}
	if r.Tilbakekreving != nil && !r.Tilbakekreving.ErAvgjort() {
		return TilAttestering{}, ErrTilbakekrevingMaAvgjores
	}
	return TilAttestering{Simulert: r, OppgaveID: oppgaveID}, nil
}

// Iverksett executes the revision. The attestant may not be the
// saksbehandler who sent it, and an opphør with overpaid months in the
// simulation must clear tilbakekreving first.
func (r TilAttestering) Iverksett(attestant string, clock Clock) (Iverksatt, error) {
	if attestant == r.Saksbehandler {
		return Iverksatt{}, ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson
	}
	if r.Utfall == beregning.UtfallOpphort && r.Simulering.HarFeilutbetaling() &&
		(r.Tilbakekreving == nil || !r.Tilbakekreving.ErAvgjort()) {
		return Iverksatt{}, simulering.ErrSimuleringIndikererFeilutbetaling
	}
	na := clock.Now()
	iverksatt := Iverksatt{
		TilAttestering:     r,
		Attestant:          attestant,
		IverksattTidspunkt: na,
	}
	iverksatt.Attesteringer = append(iverksatt.Attesteringer, Attestering{
		Attestant: attestant,
		Tidspunkt: na,
		Godkjent:  true,
	})
	return iverksatt, nil
}

// Underkjenn returns the revision to the caseworker with the attestant's
// grounds on the record.
func (r TilAttestering) Underkjenn(attestant, grunn, kommentar string, clock Clock) (Underkjent, error) {
	if attestant == r.Saksbehandler {
		return Underkjent{}, ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson
	}
	underkjent := Underkjent{TilAttestering: r}
	underkjent.Attesteringer = append(underkjent.Attesteringer, Attestering{
		Attestant: attestant,
		Tidspunkt: clock.Now(),
		Godkjent:  false,
		Grunn:     grunn,
		Kommentar: kommentar,
	})
	return underkjent, nil
}

// Avslutt abandons the revision from any non-terminal state.
func Avslutt(r Revurdering, begrunnelse string, brevvalg Brevvalg, clock Clock) (Avsluttet, error) {
	switch r.Tilstand() {
	case TilstandAvsluttet:
		return Avsluttet{}, ErrRevurderingErAlleredeAvsluttet
	case TilstandIverksatt:
		return Avsluttet{}, ErrRevurderingenErIverksatt
	}
	return Avsluttet{
		Underliggende:      r,
		Begrunnelse:        begrunnelse,
		Brevvalg:           brevvalg,
		TidspunktAvsluttet: clock.Now(),
	}, nil
}
