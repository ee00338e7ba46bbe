package vilkar

import "errors"

var (
	// ErrVurderingsperioderMangler: an assessed condition needs at least one period.
	ErrVurderingsperioderMangler = errors.New("vilkårsvurdering må ha minst én vurderingsperiode")

	// ErrOverlappendeVurderingsperioder: periods within one condition may not overlap.
	ErrOverlappendeVurderingsperioder = errors.New("ikke lov med overlappende vurderingsperioder")

	// ErrVurderingsperiodeUtenforBehandlingsperioden: assessed periods must
	// exactly cover the behandling's period.
	ErrVurderingsperiodeUtenforBehandlingsperioden = errors.New("vurderingsperiodene må dekke hele behandlingsperioden")
)
