package revurdering

import (
	"errors"
	"fmt"

	"github.com/navikt/supplerende-stonad/vedtak"
)

var (
	// ErrUgyldigTilstand is the sentinel every state violation unwraps to.
	ErrUgyldigTilstand = errors.New("ugyldig tilstand for revurdering")

	ErrFantIkkeRevurdering                 = errors.New("fant ikke revurdering")
	ErrUgyldigArsak                        = errors.New("ugyldig årsak")
	ErrUgyldigBegrunnelse                  = errors.New("ugyldig begrunnelse")
	ErrMaVelgeInformasjonSomSkalRevurderes = errors.New("må velge minst én ting som skal revurderes")

	// ErrRevurderingErAlleredeAvsluttet / ErrRevurderingenErIverksatt: the
	// two terminal states an avslutning is refused from.
	ErrRevurderingErAlleredeAvsluttet = errors.New("revurderingen er allerede avsluttet")
	ErrRevurderingenErIverksatt       = errors.New("revurderingen er iverksatt")

	// ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson: four-eyes rule at
	// iverksettelse.
	ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson = errors.New("attestant og saksbehandler kan ikke være samme person")

	// ErrFeilmeldingerMaHandteres: the beregning produced unsupported-outcome
	// feilmeldinger; the revision cannot go to attestering before the
	// caseworker has resolved them.
	ErrFeilmeldingerMaHandteres = errors.New("utfall som ikke støttes må håndteres før attestering")

	// ErrTilbakekrevingMaAvgjores: a non-zero claim exists without a
	// caseworker assessment.
	ErrTilbakekrevingMaAvgjores = errors.New("tilbakekreving må avgjøres før attestering")
)

// Tilstand names a revurdering state for error reporting.
type Tilstand string

const (
	TilstandOpprettet      Tilstand = "OPPRETTET"
	TilstandBeregnet       Tilstand = "BEREGNET"
	TilstandSimulert       Tilstand = "SIMULERT"
	TilstandTilAttestering Tilstand = "TIL_ATTESTERING"
	TilstandIverksatt      Tilstand = "IVERKSATT"
	TilstandUnderkjent     Tilstand = "UNDERKJENT"
	TilstandAvsluttet      Tilstand = "AVSLUTTET"
)

// UgyldigTilstandError: the attempted transition is illegal from the
// aggregate's current state.
type UgyldigTilstandError struct {
	Fra Tilstand
	Til Tilstand
}

func (e *UgyldigTilstandError) Error() string {
	return fmt.Sprintf("kan ikke gå fra %s til %s", e.Fra, e.Til)
}

func (e *UgyldigTilstandError) Unwrap() error { return ErrUgyldigTilstand }

// UgyldigTilstandsovergangError: illegal step in the forhåndsvarsel
// sub-machine.
type UgyldigTilstandsovergangError struct {
	Fra ForhandsvarselTilstand
	Til ForhandsvarselTilstand
}

func (e *UgyldigTilstandsovergangError) Error() string {
	return fmt.Sprintf("ugyldig tilstandsovergang for forhåndsvarsel: fra %s til %s", e.Fra, e.Til)
}

func (e *UgyldigTilstandsovergangError) Unwrap() error { return ErrUgyldigTilstand }

// KunneIkkeFerdigstilleIverksettelseError: an unexpected failure inside the
// iverksettelse transaction; everything is rolled back and the operation is
// retryable.
type KunneIkkeFerdigstilleIverksettelseError struct {
	Cause error
}

func (e *KunneIkkeFerdigstilleIverksettelseError) Error() string {
	return fmt.Sprintf("kunne ikke ferdigstille iverksettelsestransaksjonen: %v", e.Cause)
}

func (e *KunneIkkeFerdigstilleIverksettelseError) Unwrap() error { return e.Cause }

// KanIkkeGjenopptaError: resumption requires that the newest vedtak on the
// case is a stans.
type KanIkkeGjenopptaError struct {
	SisteVedtakstype vedtak.Vedtakstype
}

func (e *KanIkkeGjenopptaError) Error() string {
	return fmt.Sprintf("kan ikke gjenoppta: siste vedtak er %s, ikke en stans", e.SisteVedtakstype)
}

func (e *KanIkkeGjenopptaError) Unwrap() error { return ErrUgyldigTilstand }
