package beregning

import (
	"errors"
	"fmt"

	"github.com/navikt/supplerende-stonad/periode"
)

// ErrKanIkkeBeregne is the sentinel every beregning failure unwraps to.
var ErrKanIkkeBeregne = errors.New("kan ikke beregne")

// ManglerBosituasjonError: a month in the period has no bosituasjon, so no
// rate class can be resolved.
type ManglerBosituasjonError struct {
	Maned periode.Maned
}

func (e *ManglerBosituasjonError) Error() string {
	return fmt.Sprintf("mangler bosituasjon for måneden %s", e.Maned)
}

func (e *ManglerBosituasjonError) Unwrap() error { return ErrKanIkkeBeregne }
