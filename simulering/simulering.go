/*
Package simulering is the boundary against the national payment system.

PURPOSE:
  Before a revision can proceed, its beregning is simulated against the
  payment system to see what would actually be paid and what has already
  been paid. The simulation result is inspected for feilutbetaling: months
  where more has been paid out than the new calculation grants. On
  iverksettelse the actual payment order is prepared as a deferred value
  whose send callback must only run after the local transaction has
  committed; sending first and failing the commit would pay money with no
  vedtak behind it.

KEY CONCEPTS:
  - Simulering:          per-month simulated outcome
  - KlargjortUtbetaling: payment order + deferred send callback
  - UtbetalingService:   the port the orchestration consumes

SEE ALSO:
  - revurdering: orchestrates simulate-then-commit-then-send
*/
package simulering

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/periode"
)

// SimulertManed is one month of the payment system's answer.
type SimulertManed struct {
	Maned             periode.Maned
	TidligereUtbetalt int
	NyttBelop         int
}

// Feilutbetaling returns how much of the month is already overpaid.
func (m SimulertManed) Feilutbetaling() int {
	diff := m.TidligereUtbetalt - m.NyttBelop
	if diff < 0 {
		return 0
	}
	return diff
}

// Simulering is the full simulated outcome for a period.
type Simulering struct {
	Opprettet time.Time
	Periode   periode.Periode
	Maneder   []SimulertManed
}

// HarFeilutbetaling reports whether any month is overpaid.
func (s Simulering) HarFeilutbetaling() bool {
	for _, m := range s.Maneder {
		if m.Feilutbetaling() > 0 {
			return true
		}
	}
	return false
}

// Feilutbetalinger returns the overpaid months and amounts.
func (s Simulering) Feilutbetalinger() []beregning.ManedBelop {
	var ut []beregning.ManedBelop
	for _, m := range s.Maneder {
		if belop := m.Feilutbetaling(); belop > 0 {
			ut = append(ut, beregning.ManedBelop{Maned: m.Maned, Belop: belop})
		}
	}
	return ut
}

// TidligereUtbetalte returns the already-paid amounts per month, the input
// tilbakekreving needs.
func (s Simulering) TidligereUtbetalte() []beregning.ManedBelop {
	ut := make([]beregning.ManedBelop, 0, len(s.Maneder))
	for _, m := range s.Maneder {
		ut = append(ut, beregning.ManedBelop{Maned: m.Maned, Belop: m.TidligereUtbetalt})
	}
	return ut
}

// Utbetaling is a payment order derived from a beregning.
type Utbetaling struct {
	ID        uuid.UUID
	SakID     uuid.UUID
	Opprettet time.Time
	Periode   periode.Periode
	Maneder   []beregning.ManedBelop
}

// KlargjortUtbetaling couples a payment order with its deferred send. Send
// must be invoked only after the surrounding transaction has committed.
type KlargjortUtbetaling struct {
	Utbetaling Utbetaling
	Send       func(ctx context.Context) error
}

// UtbetalingService is everything the orchestration needs from the payment
// system.
type UtbetalingService interface {
	SimulerUtbetaling(ctx context.Context, sakID uuid.UUID, b beregning.Beregning) (Simulering, error)
	SimulerStans(ctx context.Context, sakID uuid.UUID, p periode.Periode) (Simulering, error)
	SimulerGjenopptak(ctx context.Context, sakID uuid.UUID, p periode.Periode) (Simulering, error)
	KlargjorUtbetaling(ctx context.Context, sakID uuid.UUID, b beregning.Beregning) (KlargjortUtbetaling, error)
	StansUtbetalinger(ctx context.Context, sakID uuid.UUID, fraOgMed periode.Maned) error
	GjenopptaUtbetalinger(ctx context.Context, sakID uuid.UUID) error
	Opphor(ctx context.Context, sakID uuid.UUID, fraOgMed periode.Maned) error
}
