package revurdering

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/simulering"
	"github.com/navikt/supplerende-stonad/vedtak"
)

// =============================================================================
// PURPOSE
// =============================================================================
// Stans and gjenopptak are reduced revision flows. They carry no basis data
// and no calculation of their own; they only freeze or resume the running
// payments, so their state machine is two steps: simulated, then executed.
// =============================================================================

type StansArsak string

const (
	StansManglendeOppholdstillatelse StansArsak = "MANGLENDE_OPPHOLDSTILLATELSE"
	StansManglendeKontrollerklaring  StansArsak = "MANGLENDE_KONTROLLERKLÆRING"
)

// SimulertStans is a suspension that has been simulated but not executed.
type SimulertStans struct {
	ID            uuid.UUID
	SakID         uuid.UUID
	Opprettet     time.Time
	Periode       periode.Periode
	Saksbehandler string
	Arsak         StansArsak
	Begrunnelse   string
	Simulering    simulering.Simulering
}

func (r SimulertStans) Tilstand() Tilstand { return TilstandSimulert }

// IverksattStans is an executed suspension.
type IverksattStans struct {
	SimulertStans
	Attestant          string
	IverksattTidspunkt time.Time
}

func (r IverksattStans) Tilstand() Tilstand { return TilstandIverksatt }

// Iverksett executes the suspension. The attestant must differ from the
// caseworker, and a simulation showing overpaid months blocks execution.
func (r SimulertStans) Iverksett(attestant string, clock Clock) (IverksattStans, error) {
	if attestant == r.Saksbehandler {
		return IverksattStans{}, ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson
	}
	if r.Simulering.HarFeilutbetaling() {
		return IverksattStans{}, simulering.ErrSimuleringIndikererFeilutbetaling
	}
	return IverksattStans{
		SimulertStans:      r,
		Attestant:          attestant,
		IverksattTidspunkt: clock.Now(),
	}, nil
}

// SimulertGjenopptak is a resumption that has been simulated but not
// executed.
type SimulertGjenopptak struct {
	ID            uuid.UUID
	SakID         uuid.UUID
	Opprettet     time.Time
	Periode       periode.Periode
	Saksbehandler string
	Begrunnelse   string
	Simulering    simulering.Simulering
}

func (r SimulertGjenopptak) Tilstand() Tilstand { return TilstandSimulert }

// IverksattGjenopptak is an executed resumption.
type IverksattGjenopptak struct {
	SimulertGjenopptak
	Attestant          string
	IverksattTidspunkt time.Time
}

func (r IverksattGjenopptak) Tilstand() Tilstand { return TilstandIverksatt }

func (r SimulertGjenopptak) Iverksett(attestant string, clock Clock) (IverksattGjenopptak, error) {
	if attestant == r.Saksbehandler {
		return IverksattGjenopptak{}, ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson
	}
	if r.Simulering.HarFeilutbetaling() {
		return IverksattGjenopptak{}, simulering.ErrSimuleringIndikererFeilutbetaling
	}
	return IverksattGjenopptak{
		SimulertGjenopptak: r,
		Attestant:          attestant,
		IverksattTidspunkt: clock.Now(),
	}, nil
}

// =============================================================================
// ORKESTRERING
// =============================================================================

// StansRepo persists the reduced flows separately from full revisions.
type StansRepo interface {
	HentStans(ctx context.Context, id uuid.UUID) (SimulertStans, error)
	LagreStans(ctx context.Context, r SimulertStans) error
	LagreIverksattStans(ctx context.Context, r IverksattStans) error
	HentGjenopptak(ctx context.Context, id uuid.UUID) (SimulertGjenopptak, error)
	LagreGjenopptak(ctx context.Context, r SimulertGjenopptak) error
	LagreIverksattGjenopptak(ctx context.Context, r IverksattGjenopptak) error
}

// StansService drives suspension and resumption of payments.
type StansService struct {
	repo       StansRepo
	vedtakRepo VedtakRepo
	utbetaling simulering.UtbetalingService
	clock      Clock
}

func NyStansService(repo StansRepo, vedtakRepo VedtakRepo, utbetaling simulering.UtbetalingService, clock Clock) *StansService {
	return &StansService{repo: repo, vedtakRepo: vedtakRepo, utbetaling: utbetaling, clock: clock}
}

// Stans simulates a suspension from the given month through the end of the
// running payments.
func (s *StansService) Stans(ctx context.Context, sakID uuid.UUID, fraOgMed periode.Maned, saksbehandler string, arsak StansArsak, begrunnelse string) (SimulertStans, error) {
	p, err := s.lopendePeriode(ctx, sakID, fraOgMed)
	if err != nil {
		return SimulertStans{}, err
	}
	sim, err := s.utbetaling.SimulerStans(ctx, sakID, p)
	if err != nil {
		return SimulertStans{}, err
	}
	stans := SimulertStans{
		ID:            uuid.New(),
		SakID:         sakID,
		Opprettet:     s.clock.Now(),
		Periode:       p,
		Saksbehandler: saksbehandler,
		Arsak:         arsak,
		Begrunnelse:   begrunnelse,
		Simulering:    sim,
	}
	if err := s.repo.LagreStans(ctx, stans); err != nil {
		return SimulertStans{}, err
	}
	return stans, nil
}

// IverksettStans executes a simulated suspension and records the stans
// vedtak.
func (s *StansService) IverksettStans(ctx context.Context, id uuid.UUID, attestant string) (IverksattStans, error) {
	stans, err := s.repo.HentStans(ctx, id)
	if err != nil {
		return IverksattStans{}, err
	}
	iverksatt, err := stans.Iverksett(attestant, s.clock)
	if err != nil {
		return IverksattStans{}, err
	}
	nyttVedtak := vedtak.Vedtak{
		ID:            uuid.New(),
		Opprettet:     s.clock.Now(),
		SakID:         iverksatt.SakID,
		BehandlingID:  iverksatt.ID,
		Periode:       iverksatt.Periode,
		Type:          vedtak.TypeStans,
		Saksbehandler: iverksatt.Saksbehandler,
		Attestant:     iverksatt.Attestant,
	}
	if err := s.vedtakRepo.Lagre(ctx, nyttVedtak); err != nil {
		return IverksattStans{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	if err := s.repo.LagreIverksattStans(ctx, iverksatt); err != nil {
		return IverksattStans{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	if err := s.utbetaling.StansUtbetalinger(ctx, iverksatt.SakID, iverksatt.Periode.ForsteManed()); err != nil {
		return IverksattStans{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	return iverksatt, nil
}

// Gjenoppta simulates resumption of suspended payments. The newest vedtak
// must be a stans.
func (s *StansService) Gjenoppta(ctx context.Context, sakID uuid.UUID, saksbehandler, begrunnelse string) (SimulertGjenopptak, error) {
	siste, err := s.sisteVedtak(ctx, sakID)
	if err != nil {
		return SimulertGjenopptak{}, err
	}
	if siste.Type != vedtak.TypeStans {
		return SimulertGjenopptak{}, &KanIkkeGjenopptaError{SisteVedtakstype: siste.Type}
	}
	sim, err := s.utbetaling.SimulerGjenopptak(ctx, sakID, siste.Periode)
	if err != nil {
		return SimulertGjenopptak{}, err
	}
	gjenopptak := SimulertGjenopptak{
		ID:            uuid.New(),
		SakID:         sakID,
		Opprettet:     s.clock.Now(),
		Periode:       siste.Periode,
		Saksbehandler: saksbehandler,
		Begrunnelse:   begrunnelse,
		Simulering:    sim,
	}
	if err := s.repo.LagreGjenopptak(ctx, gjenopptak); err != nil {
		return SimulertGjenopptak{}, err
	}
	return gjenopptak, nil
}

// IverksettGjenopptak executes a simulated resumption.
func (s *StansService) IverksettGjenopptak(ctx context.Context, id uuid.UUID, attestant string) (IverksattGjenopptak, error) {
	gjenopptak, err := s.repo.HentGjenopptak(ctx, id)
	if err != nil {
		return IverksattGjenopptak{}, err
	}
	iverksatt, err := gjenopptak.Iverksett(attestant, s.clock)
	if err != nil {
		return IverksattGjenopptak{}, err
	}
	nyttVedtak := vedtak.Vedtak{
		ID:            uuid.New(),
		Opprettet:     s.clock.Now(),
		SakID:         iverksatt.SakID,
		BehandlingID:  iverksatt.ID,
		Periode:       iverksatt.Periode,
		Type:          vedtak.TypeGjenopptak,
		Saksbehandler: iverksatt.Saksbehandler,
		Attestant:     iverksatt.Attestant,
	}
	if err := s.vedtakRepo.Lagre(ctx, nyttVedtak); err != nil {
		return IverksattGjenopptak{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	if err := s.repo.LagreIverksattGjenopptak(ctx, iverksatt); err != nil {
		return IverksattGjenopptak{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	if err := s.utbetaling.GjenopptaUtbetalinger(ctx, iverksatt.SakID); err != nil {
		return IverksattGjenopptak{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	return iverksatt, nil
}

func (s *StansService) lopendePeriode(ctx context.Context, sakID uuid.UUID, fraOgMed periode.Maned) (periode.Periode, error) {
	siste, err := s.sisteVedtak(ctx, sakID)
	if err != nil {
		return periode.Periode{}, err
	}
	return periode.OverManeder(fraOgMed, siste.Periode.SisteManed())
}

func (s *StansService) sisteVedtak(ctx context.Context, sakID uuid.UUID) (vedtak.Vedtak, error) {
	historikk, err := s.vedtakRepo.HentForSak(ctx, sakID)
	if err != nil {
		return vedtak.Vedtak{}, err
	}
	if len(historikk) == 0 {
		return vedtak.Vedtak{}, &vedtak.KanIkkeRevurdereError{Grunn: vedtak.FantIngenVedtak}
	}
	siste := historikk[0]
	for _, v := range historikk[1:] {
		if v.Opprettet.After(siste.Opprettet) {
			siste = v
		}
	}
	return siste, nil
}
