package tilbakekreving

import (
	"errors"
	"fmt"
)

// ErrUgyldigTilstand is the sentinel every state violation unwraps to.
var ErrUgyldigTilstand = errors.New("ugyldig tilstand for tilbakekrevingsbehandling")

// UgyldigTilstandError: the attempted step is illegal in the current state.
type UgyldigTilstandError struct {
	Fra Tilstand
	Til Tilstand
}

func (e *UgyldigTilstandError) Error() string {
	return fmt.Sprintf("kan ikke gå fra %s til %s", e.Fra, e.Til)
}

func (e *UgyldigTilstandError) Unwrap() error { return ErrUgyldigTilstand }

// UgyldigVurderingError: the judgment value is not one of the known three.
type UgyldigVurderingError struct {
	Vurdering Vurdering
}

func (e *UgyldigVurderingError) Error() string {
	return fmt.Sprintf("ukjent vurdering: %s", e.Vurdering)
}
