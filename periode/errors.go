package periode

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUgyldigPeriode is the common ancestor of all period validation
	// failures. Every constructor error unwraps to it.
	ErrUgyldigPeriode = errors.New("ugyldig periode")

	ErrFraOgMedMaVareForsteDagIManeden = wrap("fraOgMed må være første dag i måneden")
	ErrTilOgMedMaVareSisteDagIManeden  = wrap("tilOgMed må være siste dag i måneden")
	ErrFraOgMedMaVareForTilOgMed       = wrap("fraOgMed må være før tilOgMed")
)

func wrap(msg string) error {
	return &ugyldigPeriodeError{msg: msg}
}

type ugyldigPeriodeError struct{ msg string }

func (e *ugyldigPeriodeError) Error() string { return e.msg }
func (e *ugyldigPeriodeError) Unwrap() error { return ErrUgyldigPeriode }
