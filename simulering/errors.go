package simulering

import (
	"errors"
	"fmt"
)

var (
	// ErrSimuleringFeilet: the payment system could not simulate.
	ErrSimuleringFeilet = errors.New("simulering feilet")

	// ErrUtbetalingFeilet: submitting the payment order failed.
	ErrUtbetalingFeilet = errors.New("utbetaling feilet")

	// ErrSimuleringIndikererFeilutbetaling: an opphør cannot be executed
	// while the simulation shows overpaid months; the claim must go through
	// tilbakekreving first.
	ErrSimuleringIndikererFeilutbetaling = errors.New("simulering indikerer feilutbetaling")
)

// FeiletGrunn classifies why the payment system said no.
type FeiletGrunn string

const (
	TekniskFeil       FeiletGrunn = "TEKNISK_FEIL"
	UtenforApningstid FeiletGrunn = "UTENFOR_ÅPNINGSTID"
	OppdragStengt     FeiletGrunn = "OPPDRAG_STENGT"
	FunksjonellFeil   FeiletGrunn = "FUNKSJONELL_FEIL"
)

// SimuleringFeiletError carries the payment system's failure class.
type SimuleringFeiletError struct {
	Grunn FeiletGrunn
}

func (e *SimuleringFeiletError) Error() string {
	return fmt.Sprintf("simulering feilet: %s", e.Grunn)
}

func (e *SimuleringFeiletError) Unwrap() error { return ErrSimuleringFeilet }

// UtbetalingFeiletError carries the failure class for a rejected order.
type UtbetalingFeiletError struct {
	Grunn FeiletGrunn
}

func (e *UtbetalingFeiletError) Error() string {
	return fmt.Sprintf("utbetaling feilet: %s", e.Grunn)
}

func (e *UtbetalingFeiletError) Unwrap() error { return ErrUtbetalingFeilet }
