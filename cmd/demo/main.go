/*
main.go - Demonstration entry point

PURPOSE:
  Wires the SQLite store, the in-process collaborator adapters and the
  revision service, seeds a granted application for 2021, and walks one
  revision end to end: opening, registering new income, calculation and
  simulation, clawback judgment, attestation and execution.

COMMAND-LINE FLAGS:
  -db      SQLite database path (default: ":memory:")
           Use a file path to inspect the stored rows afterwards.

ADAPTERS:
  The payment system, the task tracker and the letter generator are
  external systems in production. Here they are in-process adapters: the
  payment adapter answers simulations from the stored decision history,
  the letter adapter renders payloads straight into the document archive,
  and the task adapter hands out sequential ids.

EXAMPLES:
  # Run against an in-memory database
  ./demo

  # Keep the database for inspection
  ./demo -db="./saker.db"

SEE ALSO:
  - revurdering/service.go: the orchestration being exercised
  - store/sqlite/sqlite.go:  the persistence implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/dokument"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/revurdering"
	"github.com/navikt/supplerende-stonad/sats"
	"github.com/navikt/supplerende-stonad/simulering"
	"github.com/navikt/supplerende-stonad/store/sqlite"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vedtak"
	"github.com/navikt/supplerende-stonad/vilkar"
)

func main() {
	dbPath := flag.String("db", ":memory:", "SQLite database path")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kunne ikke initialisere logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := kjor(context.Background(), *dbPath, log); err != nil {
		log.Fatal("demonstrasjonen feilet", zap.Error(err))
	}
}

func kjor(ctx context.Context, dbPath string, log *zap.Logger) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	klokke := revurdering.SystemClock()
	vedtakRepo := store.Vedtak()

	service := revurdering.NyService(
		store.Revurderinger(),
		vedtakRepo,
		&utbetalingAdapter{vedtakRepo: vedtakRepo, klokke: klokke, log: log},
		&oppgaveAdapter{log: log},
		&brevAdapter{arkiv: store.Dokumenter(), klokke: klokke},
		klokke,
		log,
	)

	sakID := uuid.New()
	if err := seedSoknadsvedtak(ctx, vedtakRepo, sakID, klokke); err != nil {
		return fmt.Errorf("kunne ikke legge inn søknadsvedtaket: %w", err)
	}
	log.Info("sak opprettet med innvilget søknad for 2021", zap.String("sakId", sakID.String()))

	ar2021 := periode.Ar(2021)
	r, err := service.Opprett(ctx, revurdering.NyRevurderingCommand{
		SakID:         sakID,
		Periode:       ar2021,
		Saksbehandler: "Z990297",
		Arsak:         revurdering.ArsakMeldingFraBruker,
		Begrunnelse:   "bruker har meldt om ny arbeidsinntekt",
		Steg:          []revurdering.Revurderingsteg{revurdering.StegInntekt},
	})
	if err != nil {
		return err
	}
	log.Info("revurdering opprettet", zap.String("id", r.ID.String()))

	data, err := grunnlag.NyGrunnlagsdata(
		r.Grunnlagsdata.Bosituasjon,
		[]grunnlag.Fradragsgrunnlag{grunnlag.NyttFradragsgrunnlag(
			klokke.Now(), ar2021, grunnlag.FradragArbeidsinntekt,
			decimal.NewFromInt(5000), grunnlag.TilhorerBruker,
		)},
	)
	if err != nil {
		return err
	}
	if _, err := service.LeggTilGrunnlag(ctx, r.ID, data, r.Vilkarsvurderinger, revurdering.StegInntekt); err != nil {
		return err
	}

	beregnet, err := service.BeregnOgSimuler(ctx, r.ID)
	if err != nil {
		return err
	}
	log.Info("revurderingen er beregnet og simulert", zap.String("tilstand", string(beregnet.Tilstand())))

	if simulert, ok := beregnet.(revurdering.Simulert); ok && simulert.Tilbakekreving != nil {
		if _, err := service.AvgjorTilbakekreving(ctx, r.ID, tilbakekreving.Forsto); err != nil {
			return err
		}
		log.Info("tilbakekrevingen er avgjort",
			zap.Int("kravsum", simulert.Tilbakekreving.Krav.SumBelop()),
		)
	}

	tilAttestering, err := service.SendTilAttestering(ctx, r.ID, "OPPG-1")
	if err != nil {
		return err
	}
	log.Info("revurderingen er til attestering", zap.String("oppgaveId", tilAttestering.OppgaveID))

	iverksatt, err := service.Iverksett(ctx, r.ID, "Z990401")
	if err != nil {
		return err
	}
	log.Info("revurderingen er iverksatt",
		zap.String("attestant", iverksatt.Attestant),
		zap.Int("nySumYtelse", iverksatt.Beregning.SumYtelse()),
	)

	historikk, err := vedtakRepo.HentForSak(ctx, sakID)
	if err != nil {
		return err
	}
	for _, v := range historikk {
		log.Info("vedtak i historikken",
			zap.String("type", string(v.Type)),
			zap.String("periode", v.Periode.String()),
		)
	}
	return nil
}

// seedSoknadsvedtak stores the granted application every revision in the
// demo revises: full benefit for 2021, single household, no income.
func seedSoknadsvedtak(ctx context.Context, repo revurdering.VedtakRepo, sakID uuid.UUID, klokke revurdering.Clock) error {
	ar2021 := periode.Ar(2021)
	na := klokke.Now()

	vurderinger := vilkar.IkkeVurderteVilkar(ar2021)
	for _, vilkartype := range vilkar.AlleVilkartyper {
		vurdert, err := vilkar.NyVurdertVilkar(vilkartype, []vilkar.Vurderingsperiode{
			vilkar.NyVurderingsperiode(na, ar2021, vilkar.Innvilget, ""),
		})
		if err != nil {
			return err
		}
		vurderinger, err = vurderinger.Oppdater(vurdert)
		if err != nil {
			return err
		}
	}

	data, err := grunnlag.NyGrunnlagsdata(
		[]grunnlag.Bosituasjon{grunnlag.NyBosituasjon(na, ar2021, grunnlag.BosituasjonEnslig)},
		nil,
	)
	if err != nil {
		return err
	}

	b, err := beregning.Beregn(beregning.Input{
		Opprettet:   na,
		Periode:     ar2021,
		Grunnlag:    data,
		Vilkar:      vurderinger,
		SatsFactory: sats.NyFactory(na),
	})
	if err != nil {
		return err
	}

	return repo.Lagre(ctx, vedtak.Vedtak{
		ID:                 uuid.New(),
		Opprettet:          na,
		SakID:              sakID,
		BehandlingID:       uuid.New(),
		Periode:            ar2021,
		Type:               vedtak.TypeSoknad,
		Saksbehandler:      "Z990297",
		Attestant:          "Z990401",
		Grunnlagsdata:      data,
		Vilkarsvurderinger: vurderinger,
		Beregning:          &b,
	})
}

// =============================================================================
// ADAPTERE
// =============================================================================

// oppgaveAdapter stands in for the office task tracker.
type oppgaveAdapter struct {
	log   *zap.Logger
	neste int
}

func (o *oppgaveAdapter) OpprettOppgave(_ context.Context, sakID uuid.UUID, beskrivelse string) (string, error) {
	o.neste++
	id := fmt.Sprintf("OPPG-%d", o.neste)
	o.log.Info("oppgave opprettet",
		zap.String("oppgaveId", id),
		zap.String("sakId", sakID.String()),
		zap.String("beskrivelse", beskrivelse),
	)
	return id, nil
}

func (o *oppgaveAdapter) OppdaterOppgave(_ context.Context, oppgaveID, beskrivelse string) error {
	o.log.Info("oppgave oppdatert", zap.String("oppgaveId", oppgaveID), zap.String("beskrivelse", beskrivelse))
	return nil
}

func (o *oppgaveAdapter) LukkOppgave(_ context.Context, oppgaveID string) error {
	o.log.Info("oppgave lukket", zap.String("oppgaveId", oppgaveID))
	return nil
}

// brevAdapter renders letter payloads and archives them directly.
type brevAdapter struct {
	arkiv  *sqlite.DokumentRepo
	klokke revurdering.Clock
}

func (b *brevAdapter) LagDokument(ctx context.Context, cmd dokument.Command) (dokument.Dokument, error) {
	generert, err := dokument.SerialiserInnhold(cmd.Innhold)
	if err != nil {
		return dokument.Dokument{}, err
	}
	d := dokument.Dokument{
		ID:           uuid.New(),
		Opprettet:    b.klokke.Now(),
		SakID:        cmd.SakID,
		BehandlingID: cmd.BehandlingID,
		Type:         cmd.Type,
		Tittel:       cmd.Tittel,
		GenerertJSON: generert,
	}
	if err := b.arkiv.Lagre(ctx, d); err != nil {
		return dokument.Dokument{}, err
	}
	return d, nil
}

// utbetalingAdapter answers simulations from the stored decision history
// instead of calling the payment system.
type utbetalingAdapter struct {
	vedtakRepo revurdering.VedtakRepo
	klokke     revurdering.Clock
	log        *zap.Logger
}

func (u *utbetalingAdapter) gjeldendeBelop(ctx context.Context, sakID uuid.UUID, p periode.Periode) ([]beregning.ManedBelop, error) {
	historikk, err := u.vedtakRepo.HentForSak(ctx, sakID)
	if err != nil {
		return nil, err
	}
	gjeldende, err := vedtak.HentGjeldendeVedtaksdata(p, historikk)
	if err != nil {
		return nil, err
	}
	return gjeldende.ManedBelop, nil
}

func (u *utbetalingAdapter) SimulerUtbetaling(ctx context.Context, sakID uuid.UUID, b beregning.Beregning) (simulering.Simulering, error) {
	utbetalt, err := u.gjeldendeBelop(ctx, sakID, b.Periode)
	if err != nil {
		return simulering.Simulering{}, err
	}
	maneder := make([]simulering.SimulertManed, 0, len(b.Maneder))
	for _, m := range b.Maneder {
		maneder = append(maneder, simulering.SimulertManed{
			Maned:             m.Maned,
			TidligereUtbetalt: beregning.BelopFor(utbetalt, m.Maned),
			NyttBelop:         m.Belop,
		})
	}
	return simulering.Simulering{Opprettet: u.klokke.Now(), Periode: b.Periode, Maneder: maneder}, nil
}

func (u *utbetalingAdapter) SimulerStans(ctx context.Context, sakID uuid.UUID, p periode.Periode) (simulering.Simulering, error) {
	return u.simulerMotNull(ctx, sakID, p, true)
}

func (u *utbetalingAdapter) SimulerGjenopptak(ctx context.Context, sakID uuid.UUID, p periode.Periode) (simulering.Simulering, error) {
	return u.simulerMotNull(ctx, sakID, p, false)
}

func (u *utbetalingAdapter) simulerMotNull(ctx context.Context, sakID uuid.UUID, p periode.Periode, stans bool) (simulering.Simulering, error) {
	utbetalt, err := u.gjeldendeBelop(ctx, sakID, p)
	if err != nil {
		return simulering.Simulering{}, err
	}
	maneder := make([]simulering.SimulertManed, 0, p.AntallManeder())
	for _, m := range p.Maneder() {
		belop := beregning.BelopFor(utbetalt, m)
		nytt := belop
		if stans {
			nytt = 0
		}
		maneder = append(maneder, simulering.SimulertManed{
			Maned:             m,
			TidligereUtbetalt: belop,
			NyttBelop:         nytt,
		})
	}
	return simulering.Simulering{Opprettet: u.klokke.Now(), Periode: p, Maneder: maneder}, nil
}

func (u *utbetalingAdapter) KlargjorUtbetaling(_ context.Context, sakID uuid.UUID, b beregning.Beregning) (simulering.KlargjortUtbetaling, error) {
	maneder := make([]beregning.ManedBelop, 0, len(b.Maneder))
	for _, m := range b.Maneder {
		maneder = append(maneder, beregning.ManedBelop{Maned: m.Maned, Belop: m.Belop})
	}
	utbetaling := simulering.Utbetaling{
		ID:        uuid.New(),
		SakID:     sakID,
		Opprettet: u.klokke.Now(),
		Periode:   b.Periode,
		Maneder:   maneder,
	}
	return simulering.KlargjortUtbetaling{
		Utbetaling: utbetaling,
		Send: func(context.Context) error {
			u.log.Info("utbetalingsoppdrag sendt",
				zap.String("utbetalingId", utbetaling.ID.String()),
				zap.String("sakId", sakID.String()),
			)
			return nil
		},
	}, nil
}

func (u *utbetalingAdapter) StansUtbetalinger(_ context.Context, sakID uuid.UUID, fraOgMed periode.Maned) error {
	u.log.Info("utbetalinger stanset", zap.String("sakId", sakID.String()), zap.String("fraOgMed", fraOgMed.String()))
	return nil
}

func (u *utbetalingAdapter) GjenopptaUtbetalinger(_ context.Context, sakID uuid.UUID) error {
	u.log.Info("utbetalinger gjenopptatt", zap.String("sakId", sakID.String()))
	return nil
}

func (u *utbetalingAdapter) Opphor(_ context.Context, sakID uuid.UUID, fraOgMed periode.Maned) error {
	u.log.Info("utbetalinger opphørt", zap.String("sakId", sakID.String()), zap.String("fraOgMed", fraOgMed.String()))
	return nil
}
