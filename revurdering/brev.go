package revurdering

import (
	"fmt"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/dokument"
	"github.com/navikt/supplerende-stonad/sats"
)

// KanIkkeLageBrevError: the revision is in a state no letter is defined for.
type KanIkkeLageBrevError struct {
	Tilstand Tilstand
}

func (e *KanIkkeLageBrevError) Error() string {
	return fmt.Sprintf("kan ikke lage brev for revurdering i tilstand %s", e.Tilstand)
}

func (e *KanIkkeLageBrevError) Unwrap() error { return dokument.ErrKunneIkkeLageDokument }

const brevDatoFormat = "02.01.2006"

// LagDokumentCommand maps a revision state to its decision-letter command.
// Only attested and executed revisions carry a letter; every other state is
// an explicit error.
func LagDokumentCommand(r Revurdering, factory *sats.Factory, fritekst string) (dokument.Command, error) {
	switch v := r.(type) {
	case Iverksatt:
		return vedtaksbrev(v.TilAttestering, v.Attestant, factory, fritekst)
	case TilAttestering:
		// utkast shown to the attestant before the decision is made
		return vedtaksbrev(v, "", factory, fritekst)
	default:
		return dokument.Command{}, &KanIkkeLageBrevError{Tilstand: r.Tilstand()}
	}
}

func vedtaksbrev(r TilAttestering, attestant string, factory *sats.Factory, fritekst string) (dokument.Command, error) {
	oversikt, err := sats.Satsoversikt(factory, r.Grunnlagsdata.Bosituasjon)
	if err != nil {
		return dokument.Command{}, err
	}
	harEktefelle := false
	for _, b := range r.Grunnlagsdata.Bosituasjon {
		if b.HarEPS() {
			harEktefelle = true
		}
	}

	var innhold dokument.Brevinnhold
	var tittel string
	switch {
	case r.Utfall == beregning.UtfallOpphort:
		opphorsdato := r.Periode.ForsteManed()
		if m, funnet := beregning.Opphorsdato(r.Beregning, r.Vilkarsvurderinger); funnet {
			opphorsdato = m
		}
		tittel = "Vedtak om opphør av supplerende stønad"
		innhold = dokument.NyOpphorsvedtakInnhold(
			r.Saksbehandler,
			attestant,
			opphorsdato.FraOgMed().Format(brevDatoFormat),
			r.Vilkarsvurderinger.UtledOpphorsgrunner(),
			oversikt,
			harEktefelle,
			fritekst,
		)
	case r.Tilbakekreving != nil && r.Tilbakekreving.SkalTilbakekreve():
		tittel = "Vi har vurdert den supplerende stønaden din og vil kreve tilbake penger"
		innhold = dokument.NyTilbakekrevingInnhold(
			r.Saksbehandler,
			attestant,
			r.Beregning,
			oversikt,
			r.Tilbakekreving.Krav,
			harEktefelle,
			fritekst,
		)
	default:
		tittel = "Vi har vurdert den supplerende stønaden din på nytt"
		innhold = dokument.NyInntektInnhold(
			r.Saksbehandler,
			attestant,
			r.Beregning,
			oversikt,
			harEktefelle,
			fritekst,
		)
	}

	return dokument.Command{
		SakID:         r.SakID,
		BehandlingID:  r.ID,
		Saksbehandler: r.Saksbehandler,
		Attestant:     attestant,
		Type:          dokument.TypeVedtak,
		Tittel:        tittel,
		Innhold:       innhold,
	}, nil
}
