package revurdering

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/dokument"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/sats"
	"github.com/navikt/supplerende-stonad/simulering"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vedtak"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// =============================================================================
// PORTER - The collaborators the orchestration consumes
// =============================================================================

// Repo persists revisions. Lagre is last-write-wins; the callers serialize
// state checks and persistence inside one logical operation.
type Repo interface {
	Hent(ctx context.Context, id uuid.UUID) (Revurdering, error)
	Lagre(ctx context.Context, r Revurdering) error
}

// VedtakRepo provides the decision history and persists new decisions.
type VedtakRepo interface {
	HentForSak(ctx context.Context, sakID uuid.UUID) ([]vedtak.Vedtak, error)
	Lagre(ctx context.Context, v vedtak.Vedtak) error
}

// OppgaveService is the task-tracking side channel. Closing and updating are
// best-effort; creation failures abort because a revision without a task is
// invisible to the office.
type OppgaveService interface {
	OpprettOppgave(ctx context.Context, sakID uuid.UUID, beskrivelse string) (string, error)
	OppdaterOppgave(ctx context.Context, oppgaveID, beskrivelse string) error
	LukkOppgave(ctx context.Context, oppgaveID string) error
}

// BrevService renders and archives case correspondence.
type BrevService interface {
	LagDokument(ctx context.Context, cmd dokument.Command) (dokument.Dokument, error)
}

// Service orchestrates revisions over the ports.
type Service struct {
	repo        Repo
	vedtakRepo  VedtakRepo
	utbetaling  simulering.UtbetalingService
	oppgaver    OppgaveService
	brev        BrevService
	satsFactory func(clock Clock) *sats.Factory
	clock       Clock
	log         *zap.Logger
}

func NyService(
	repo Repo,
	vedtakRepo VedtakRepo,
	utbetaling simulering.UtbetalingService,
	oppgaver OppgaveService,
	brev BrevService,
	clock Clock,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		vedtakRepo: vedtakRepo,
		utbetaling: utbetaling,
		oppgaver:   oppgaver,
		brev:       brev,
		satsFactory: func(c Clock) *sats.Factory {
			return sats.NyFactory(c.Now())
		},
		clock: clock,
		log:   log,
	}
}

// =============================================================================
// OPPRETT OG OPPDATER
// =============================================================================

// Opprett opens a revision against the case's decision history.
func (s *Service) Opprett(ctx context.Context, cmd NyRevurderingCommand) (Opprettet, error) {
	gjeldende, err := s.gjeldendeVedtaksdata(ctx, cmd.SakID, cmd)
	if err != nil {
		return Opprettet{}, err
	}
	r, err := NyOpprettetRevurdering(cmd, gjeldende, s.clock)
	if err != nil {
		return Opprettet{}, err
	}
	if _, err := s.oppgaver.OpprettOppgave(ctx, cmd.SakID, "Revurdering"); err != nil {
		return Opprettet{}, fmt.Errorf("kunne ikke opprette oppgave: %w", err)
	}
	if err := s.repo.Lagre(ctx, r); err != nil {
		return Opprettet{}, err
	}
	return r, nil
}

// Oppdater re-points an existing revision. Legal only while Opprettet; the
// baseline is always recomputed from the vedtak history for the new period.
func (s *Service) Oppdater(ctx context.Context, id uuid.UUID, cmd NyRevurderingCommand) (Opprettet, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Opprettet{}, err
	}
	opprettet, ok := eksisterende.(Opprettet)
	if !ok {
		return Opprettet{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandOpprettet}
	}

	gjeldende, err := s.gjeldendeVedtaksdata(ctx, opprettet.SakID, cmd)
	if err != nil {
		return Opprettet{}, err
	}
	oppdatert, err := opprettet.Oppdater(cmd, gjeldende)
	if err != nil {
		return Opprettet{}, err
	}
	if err := s.repo.Lagre(ctx, oppdatert); err != nil {
		return Opprettet{}, err
	}
	return oppdatert, nil
}

func (s *Service) gjeldendeVedtaksdata(ctx context.Context, sakID uuid.UUID, cmd NyRevurderingCommand) (vedtak.GjeldendeVedtaksdata, error) {
	historikk, err := s.vedtakRepo.HentForSak(ctx, sakID)
	if err != nil {
		return vedtak.GjeldendeVedtaksdata{}, err
	}
	return vedtak.HentGjeldendeVedtaksdata(cmd.Periode, historikk)
}

// LeggTilGrunnlag registers new basis data and assessments on an open
// revision and marks the corresponding step as assessed.
func (s *Service) LeggTilGrunnlag(ctx context.Context, id uuid.UUID, data grunnlag.Grunnlagsdata, vurderinger vilkar.Vilkarsvurderinger, vurdertSteg Revurderingsteg) (Opprettet, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Opprettet{}, err
	}
	opprettet, ok := eksisterende.(Opprettet)
	if !ok {
		return Opprettet{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandOpprettet}
	}
	ny, err := opprettet.LeggTilGrunnlag(data, vurderinger, vurdertSteg)
	if err != nil {
		return Opprettet{}, err
	}
	if err := s.repo.Lagre(ctx, ny); err != nil {
		return Opprettet{}, err
	}
	return ny, nil
}

// =============================================================================
// BEREGN OG SIMULER
// =============================================================================

// BeregnOgSimuler calculates the revision and simulates the consequence in
// one call. Unsupported outcomes persist the beregnet state annotated with
// feilmeldinger; a simulation failure persists nothing beyond the previous
// state.
func (s *Service) BeregnOgSimuler(ctx context.Context, id uuid.UUID) (Revurdering, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return nil, err
	}

	var opprettet Opprettet
	switch r := eksisterende.(type) {
	case Opprettet:
		opprettet = r
	case Underkjent:
		// rework keeps everything the caseworker already registered
		opprettet = r.Opprettet
	default:
		return nil, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandBeregnet}
	}

	historikk, err := s.vedtakRepo.HentForSak(ctx, opprettet.SakID)
	if err != nil {
		return nil, err
	}
	gjeldende, err := vedtak.HentGjeldendeVedtaksdata(opprettet.Periode, historikk)
	if err != nil {
		return nil, err
	}

	b, err := beregning.Beregn(beregning.Input{
		Opprettet:   s.clock.Now(),
		Periode:     opprettet.Periode,
		Grunnlag:    opprettet.Grunnlagsdata,
		Vilkar:      opprettet.Vilkarsvurderinger,
		SatsFactory: s.satsFactory(s.clock),
	})
	if err != nil {
		return nil, err
	}

	beregnet := opprettet.TilBeregnet(b, gjeldende.ManedBelop)
	if len(beregnet.Feilmeldinger) > 0 {
		if err := s.repo.Lagre(ctx, beregnet); err != nil {
			return nil, err
		}
		return beregnet, nil
	}

	sim, err := s.utbetaling.SimulerUtbetaling(ctx, opprettet.SakID, b)
	if err != nil {
		return nil, err
	}
	simulert := beregnet.TilSimulert(sim, s.clock)
	if err := s.repo.Lagre(ctx, simulert); err != nil {
		return nil, err
	}
	return simulert, nil
}

// AvgjorTilbakekreving records the clawback judgment. Legal only while
// Simulert.
func (s *Service) AvgjorTilbakekreving(ctx context.Context, id uuid.UUID, vurdering tilbakekreving.Vurdering) (Simulert, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Simulert{}, err
	}
	simulert, ok := eksisterende.(Simulert)
	if !ok {
		return Simulert{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandSimulert}
	}
	avgjort, err := simulert.AvgjorTilbakekreving(vurdering)
	if err != nil {
		return Simulert{}, err
	}
	if err := s.repo.Lagre(ctx, avgjort); err != nil {
		return Simulert{}, err
	}
	return avgjort, nil
}

// Forhandsvarsle sends the advance notice (or records that none is needed).
// A required notice letter that fails to render blocks the transition.
func (s *Service) Forhandsvarsle(ctx context.Context, id uuid.UUID, f Forhandsvarsel) (Simulert, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Simulert{}, err
	}
	simulert, ok := eksisterende.(Simulert)
	if !ok {
		return Simulert{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandSimulert}
	}
	ny, err := simulert.Forhandsvarsle(f)
	if err != nil {
		return Simulert{}, err
	}
	if f.Tilstand == ForhandsvarselSendt {
		cmd := dokument.ForhandsvarselCommand(ny.ID, ny.SakID, ny.Saksbehandler)
		if _, err := s.brev.LagDokument(ctx, cmd); err != nil {
			return Simulert{}, fmt.Errorf("kunne ikke lage forhåndsvarsel: %w", err)
		}
	}
	if err := s.repo.Lagre(ctx, ny); err != nil {
		return Simulert{}, err
	}
	return ny, nil
}

// FerdigbehandleForhandsvarsel resolves a sent notice.
func (s *Service) FerdigbehandleForhandsvarsel(ctx context.Context, id uuid.UUID, til ForhandsvarselTilstand, begrunnelse string) (Simulert, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Simulert{}, err
	}
	simulert, ok := eksisterende.(Simulert)
	if !ok {
		return Simulert{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandSimulert}
	}
	if simulert.Forhandsvarsel == nil {
		return Simulert{}, &UgyldigTilstandsovergangError{Til: til}
	}
	ferdig, err := simulert.Forhandsvarsel.Ferdigbehandle(til, begrunnelse)
	if err != nil {
		return Simulert{}, err
	}
	ny := simulert
	ny.Grunninformasjon.Forhandsvarsel = &ferdig
	if err := s.repo.Lagre(ctx, ny); err != nil {
		return Simulert{}, err
	}
	return ny, nil
}

// =============================================================================
// ATTESTERING OG IVERKSETTELSE
// =============================================================================

// SendTilAttestering hands the revision to an attestant. The task update is
// best-effort.
func (s *Service) SendTilAttestering(ctx context.Context, id uuid.UUID, oppgaveID string) (TilAttestering, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return TilAttestering{}, err
	}
	simulert, ok := eksisterende.(Simulert)
	if !ok {
		return TilAttestering{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandTilAttestering}
	}
	tilAttestering, err := simulert.SendTilAttestering(oppgaveID)
	if err != nil {
		return TilAttestering{}, err
	}
	if err := s.repo.Lagre(ctx, tilAttestering); err != nil {
		return TilAttestering{}, err
	}
	if err := s.oppgaver.OppdaterOppgave(ctx, oppgaveID, "Til attestering"); err != nil {
		s.log.Warn("kunne ikke oppdatere oppgave etter innsending til attestering",
			zap.String("revurderingId", id.String()),
			zap.Error(err),
		)
	}
	return tilAttestering, nil
}

// Iverksett executes the revision: the vedtak and the new state are
// persisted first, the payment order is sent only afterwards, and the task
// is closed best-effort last.
func (s *Service) Iverksett(ctx context.Context, id uuid.UUID, attestant string) (Iverksatt, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Iverksatt{}, err
	}
	tilAttestering, ok := eksisterende.(TilAttestering)
	if !ok {
		return Iverksatt{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandIverksatt}
	}

	iverksatt, err := tilAttestering.Iverksett(attestant, s.clock)
	if err != nil {
		return Iverksatt{}, err
	}

	klargjort, err := s.utbetaling.KlargjorUtbetaling(ctx, iverksatt.SakID, iverksatt.Beregning)
	if err != nil {
		return Iverksatt{}, err
	}

	nyttVedtak := s.vedtakFor(iverksatt)
	if err := s.vedtakRepo.Lagre(ctx, nyttVedtak); err != nil {
		return Iverksatt{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}
	if err := s.repo.Lagre(ctx, iverksatt); err != nil {
		return Iverksatt{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}

	// payment order goes out only after local persistence has succeeded
	if err := klargjort.Send(ctx); err != nil {
		return Iverksatt{}, &KunneIkkeFerdigstilleIverksettelseError{Cause: err}
	}

	// the decision letter and task closing are best-effort after commit
	if cmd, err := LagDokumentCommand(iverksatt, s.satsFactory(s.clock), ""); err != nil {
		s.log.Error("kunne ikke bygge vedtaksbrev etter iverksettelse",
			zap.String("revurderingId", id.String()),
			zap.Error(err),
		)
	} else if _, err := s.brev.LagDokument(ctx, cmd); err != nil {
		s.log.Error("kunne ikke generere vedtaksbrev etter iverksettelse",
			zap.String("revurderingId", id.String()),
			zap.Error(err),
		)
	}
	if err := s.oppgaver.LukkOppgave(ctx, iverksatt.OppgaveID); err != nil {
		s.log.Warn("kunne ikke lukke oppgave etter iverksettelse",
			zap.String("revurderingId", id.String()),
			zap.String("oppgaveId", iverksatt.OppgaveID),
			zap.Error(err),
		)
	}
	return iverksatt, nil
}

func (s *Service) vedtakFor(r Iverksatt) vedtak.Vedtak {
	vedtakstype := vedtak.TypeEndring
	switch r.Utfall {
	case beregning.UtfallOpphort:
		vedtakstype = vedtak.TypeOpphor
	case beregning.UtfallIngenEndring:
		vedtakstype = vedtak.TypeIngenEndring
	}
	b := r.Beregning
	return vedtak.Vedtak{
		ID:                 uuid.New(),
		Opprettet:          s.clock.Now(),
		SakID:              r.SakID,
		BehandlingID:       r.ID,
		Periode:            r.Periode,
		Type:               vedtakstype,
		Saksbehandler:      r.Saksbehandler,
		Attestant:          r.Attestant,
		Grunnlagsdata:      r.Grunnlagsdata,
		Vilkarsvurderinger: r.Vilkarsvurderinger,
		Beregning:          &b,
	}
}

// Underkjenn records the attestant's rejection and reopens the task.
func (s *Service) Underkjenn(ctx context.Context, id uuid.UUID, attestant, grunn, kommentar string) (Underkjent, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Underkjent{}, err
	}
	tilAttestering, ok := eksisterende.(TilAttestering)
	if !ok {
		return Underkjent{}, &UgyldigTilstandError{Fra: eksisterende.Tilstand(), Til: TilstandUnderkjent}
	}
	underkjent, err := tilAttestering.Underkjenn(attestant, grunn, kommentar, s.clock)
	if err != nil {
		return Underkjent{}, err
	}
	if err := s.repo.Lagre(ctx, underkjent); err != nil {
		return Underkjent{}, err
	}
	if err := s.oppgaver.OppdaterOppgave(ctx, underkjent.OppgaveID, "Underkjent: "+grunn); err != nil {
		s.log.Warn("kunne ikke gjenåpne oppgave etter underkjennelse",
			zap.String("revurderingId", id.String()),
			zap.Error(err),
		)
	}
	return underkjent, nil
}

// Avslutt abandons the revision. When the caseworker chose to notify the
// recipient, a failed letter blocks the avslutning.
func (s *Service) Avslutt(ctx context.Context, id uuid.UUID, begrunnelse string, brevvalg Brevvalg) (Avsluttet, error) {
	eksisterende, err := s.repo.Hent(ctx, id)
	if err != nil {
		return Avsluttet{}, err
	}
	avsluttet, err := Avslutt(eksisterende, begrunnelse, brevvalg, s.clock)
	if err != nil {
		return Avsluttet{}, err
	}
	if brevvalg == SkalSendeBrev {
		info := eksisterende.Info()
		cmd := dokument.AvsluttRevurderingCommand(info.ID, info.SakID, info.Saksbehandler, begrunnelse)
		if _, err := s.brev.LagDokument(ctx, cmd); err != nil {
			return Avsluttet{}, fmt.Errorf("kunne ikke lage avslutningsbrev: %w", err)
		}
	}
	if err := s.repo.Lagre(ctx, avsluttet); err != nil {
		return Avsluttet{}, err
	}
	return avsluttet, nil
}
