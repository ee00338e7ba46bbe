package revurdering_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/revurdering"
	"github.com/navikt/supplerende-stonad/sats"
	"github.com/navikt/supplerende-stonad/simulering"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vedtak"
	"github.com/navikt/supplerende-stonad/vilkar"
)

var (
	tidspunkt = time.Date(2021, time.January, 1, 12, 0, 0, 0, time.UTC)
	ar2021    = periode.Ar(2021)
)

func fastKlokke() revurdering.FixedClock {
	return revurdering.FixedClock{Tidspunkt: time.Date(2021, time.July, 1, 12, 0, 0, 0, time.UTC)}
}

func innvilgedeVilkar(t *testing.T, p periode.Periode) vilkar.Vilkarsvurderinger {
	t.Helper()
	v := vilkar.IkkeVurderteVilkar(p)
	for _, vilkartype := range vilkar.AlleVilkartyper {
		vurdert, err := vilkar.NyVurdertVilkar(vilkartype, []vilkar.Vurderingsperiode{
			vilkar.NyVurderingsperiode(tidspunkt, p, vilkar.Innvilget, ""),
		})
		require.NoError(t, err)
		v, err = v.Oppdater(vurdert)
		require.NoError(t, err)
	}
	return v
}

func avslatteVilkar(t *testing.T, p periode.Periode, vilkartype vilkar.Vilkartype) vilkar.Vilkarsvurderinger {
	t.Helper()
	v := innvilgedeVilkar(t, p)
	vurdert, err := vilkar.NyVurdertVilkar(vilkartype, []vilkar.Vurderingsperiode{
		vilkar.NyVurderingsperiode(tidspunkt, p, vilkar.Avslatt, ""),
	})
	require.NoError(t, err)
	v, err = v.Oppdater(vurdert)
	require.NoError(t, err)
	return v
}

func ensligGrunnlag(t *testing.T, p periode.Periode, fradrag ...grunnlag.Fradragsgrunnlag) grunnlag.Grunnlagsdata {
	t.Helper()
	data, err := grunnlag.NyGrunnlagsdata(
		[]grunnlag.Bosituasjon{grunnlag.NyBosituasjon(tidspunkt, p, grunnlag.BosituasjonEnslig)},
		fradrag,
	)
	require.NoError(t, err)
	return data
}

func arbeidsinntekt(p periode.Periode, belop int) grunnlag.Fradragsgrunnlag {
	return grunnlag.NyttFradragsgrunnlag(
		tidspunkt, p, grunnlag.FradragArbeidsinntekt, decimal.NewFromInt(int64(belop)), grunnlag.TilhorerBruker,
	)
}

// innvilgetVedtak2021 is a granted application covering 2021 with full
// amounts, 20946 before the May rate change and 21989 after.
func innvilgetVedtak2021(t *testing.T, sakID uuid.UUID) vedtak.Vedtak {
	t.Helper()
	b, err := beregning.Beregn(beregning.Input{
		Opprettet:   tidspunkt,
		Periode:     ar2021,
		Grunnlag:    ensligGrunnlag(t, ar2021),
		Vilkar:      innvilgedeVilkar(t, ar2021),
		SatsFactory: sats.NyFactory(time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return vedtak.Vedtak{
		ID:                 uuid.New(),
		Opprettet:          tidspunkt,
		SakID:              sakID,
		BehandlingID:       uuid.New(),
		Periode:            ar2021,
		Type:               vedtak.TypeSoknad,
		Saksbehandler:      "saksbehandler",
		Attestant:          "attestant",
		Grunnlagsdata:      ensligGrunnlag(t, ar2021),
		Vilkarsvurderinger: innvilgedeVilkar(t, ar2021),
		Beregning:          &b,
	}
}

func nyCommand(sakID uuid.UUID) revurdering.NyRevurderingCommand {
	return revurdering.NyRevurderingCommand{
		SakID:         sakID,
		Periode:       ar2021,
		Saksbehandler: "saksbehandler",
		Arsak:         revurdering.ArsakMeldingFraBruker,
		Begrunnelse:   "bruker har meldt om ny inntekt",
		Steg:          []revurdering.Revurderingsteg{revurdering.StegInntekt},
	}
}

func opprettetRevurdering(t *testing.T) (revurdering.Opprettet, vedtak.GjeldendeVedtaksdata) {
	t.Helper()
	sakID := uuid.New()
	gjeldende, err := vedtak.HentGjeldendeVedtaksdata(ar2021, []vedtak.Vedtak{innvilgetVedtak2021(t, sakID)})
	require.NoError(t, err)
	r, err := revurdering.NyOpprettetRevurdering(nyCommand(sakID), gjeldende, fastKlokke())
	require.NoError(t, err)
	return r, gjeldende
}

// simulertRevurdering drives a revision to Simulert with a new income of
// 5000 per month. The calculation uses the pre-May grunnbeløp so every
// already-paid month is reduced.
func simulertRevurdering(t *testing.T) revurdering.Simulert {
	t.Helper()
	r, gjeldende := opprettetRevurdering(t)
	r, err := r.LeggTilGrunnlag(
		ensligGrunnlag(t, ar2021, arbeidsinntekt(ar2021, 5000)),
		innvilgedeVilkar(t, ar2021),
		revurdering.StegInntekt,
	)
	require.NoError(t, err)

	b, err := beregning.Beregn(beregning.Input{
		Opprettet:   tidspunkt,
		Periode:     ar2021,
		Grunnlag:    r.Grunnlagsdata,
		Vilkar:      r.Vilkarsvurderinger,
		SatsFactory: sats.NyFactory(time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	beregnet := r.TilBeregnet(b, gjeldende.ManedBelop)
	require.Empty(t, beregnet.Feilmeldinger)
	return beregnet.TilSimulert(simuleringFor(b, gjeldende.ManedBelop), fastKlokke())
}

func simuleringFor(b beregning.Beregning, gjeldende []beregning.ManedBelop) simulering.Simulering {
	maneder := make([]simulering.SimulertManed, 0, len(b.Maneder))
	for _, m := range b.Maneder {
		maneder = append(maneder, simulering.SimulertManed{
			Maned:             m.Maned,
			TidligereUtbetalt: beregning.BelopFor(gjeldende, m.Maned),
			NyttBelop:         m.Belop,
		})
	}
	return simulering.Simulering{Opprettet: tidspunkt, Periode: b.Periode, Maneder: maneder}
}

func TestNyOpprettetRevurdering(t *testing.T) {
	t.Run("starter med en kopi av gjeldende grunnlag og vilkår", func(t *testing.T) {
		r, gjeldende := opprettetRevurdering(t)

		assert.Equal(t, revurdering.TilstandOpprettet, r.Tilstand())
		assert.Equal(t, gjeldende.Grunnlagsdata, r.Grunnlagsdata)
		assert.Equal(t, gjeldende.Vilkarsvurderinger, r.Vilkarsvurderinger)
		assert.True(t, r.Informasjon.Inneholder(revurdering.StegInntekt))
	})

	t.Run("ugyldig årsak avvises", func(t *testing.T) {
		_, gjeldende := opprettetRevurdering(t)
		cmd := nyCommand(uuid.New())
		cmd.Arsak = "IKKE_EN_ÅRSAK"

		_, err := revurdering.NyOpprettetRevurdering(cmd, gjeldende, fastKlokke())

		assert.ErrorIs(t, err, revurdering.ErrUgyldigArsak)
	})

	t.Run("minst ett steg må velges", func(t *testing.T) {
		_, gjeldende := opprettetRevurdering(t)
		cmd := nyCommand(uuid.New())
		cmd.Steg = nil

		_, err := revurdering.NyOpprettetRevurdering(cmd, gjeldende, fastKlokke())

		assert.ErrorIs(t, err, revurdering.ErrMaVelgeInformasjonSomSkalRevurderes)
	})
}

func TestInformasjonSomRevurderes(t *testing.T) {
	t.Run("bevarer rekkefølgen saksbehandleren valgte", func(t *testing.T) {
		informasjon, err := revurdering.NyInformasjonSomRevurderes([]revurdering.Revurderingsteg{
			revurdering.StegBosituasjon,
			revurdering.StegInntekt,
			revurdering.StegFormue,
		})
		require.NoError(t, err)

		assert.Equal(t, revurdering.InformasjonSomRevurderes{
			{Steg: revurdering.StegBosituasjon, Status: revurdering.StatusIkkeVurdert},
			{Steg: revurdering.StegInntekt, Status: revurdering.StatusIkkeVurdert},
			{Steg: revurdering.StegFormue, Status: revurdering.StatusIkkeVurdert},
		}, informasjon)
	})

	t.Run("duplikater beholder første plassering", func(t *testing.T) {
		informasjon, err := revurdering.NyInformasjonSomRevurderes([]revurdering.Revurderingsteg{
			revurdering.StegInntekt,
			revurdering.StegFormue,
			revurdering.StegInntekt,
		})
		require.NoError(t, err)

		assert.Equal(t, revurdering.InformasjonSomRevurderes{
			{Steg: revurdering.StegInntekt, Status: revurdering.StatusIkkeVurdert},
			{Steg: revurdering.StegFormue, Status: revurdering.StatusIkkeVurdert},
		}, informasjon)
	})

	t.Run("markering endrer status uten å flytte steget", func(t *testing.T) {
		informasjon, err := revurdering.NyInformasjonSomRevurderes([]revurdering.Revurderingsteg{
			revurdering.StegBosituasjon,
			revurdering.StegInntekt,
		})
		require.NoError(t, err)

		vurdert := informasjon.MarkerVurdert(revurdering.StegBosituasjon)

		assert.Equal(t, revurdering.InformasjonSomRevurderes{
			{Steg: revurdering.StegBosituasjon, Status: revurdering.StatusVurdert},
			{Steg: revurdering.StegInntekt, Status: revurdering.StatusIkkeVurdert},
		}, vurdert)
		// originalen er uendret
		assert.Equal(t, revurdering.StatusIkkeVurdert, informasjon[0].Status)
		assert.False(t, informasjon.Inneholder(revurdering.StegUforhet))
	})
}

func TestOppdater(t *testing.T) {
	t.Run("oppdatering med samme kommando gir identisk baseline", func(t *testing.T) {
		// GIVEN an opened revision the caseworker has edited
		r, gjeldende := opprettetRevurdering(t)
		endret, err := r.LeggTilGrunnlag(
			ensligGrunnlag(t, ar2021, arbeidsinntekt(ar2021, 5000)),
			innvilgedeVilkar(t, ar2021),
			revurdering.StegInntekt,
		)
		require.NoError(t, err)

		// WHEN the revision is re-pointed twice with the same command
		cmd := nyCommand(r.SakID)
		forste, err := endret.Oppdater(cmd, gjeldende)
		require.NoError(t, err)
		andre, err := forste.Oppdater(cmd, gjeldende)
		require.NoError(t, err)

		// THEN both land on the same freshly-reset baseline
		assert.Equal(t, forste.Grunnlagsdata, andre.Grunnlagsdata)
		assert.Equal(t, forste.Vilkarsvurderinger, andre.Vilkarsvurderinger)
		assert.Equal(t, gjeldende.Grunnlagsdata, forste.Grunnlagsdata)
	})

	t.Run("oppdatering forkaster delvise endringer", func(t *testing.T) {
		r, gjeldende := opprettetRevurdering(t)
		endret, err := r.LeggTilGrunnlag(
			ensligGrunnlag(t, ar2021, arbeidsinntekt(ar2021, 5000)),
			innvilgedeVilkar(t, ar2021),
			revurdering.StegInntekt,
		)
		require.NoError(t, err)

		tilbakestilt, err := endret.Oppdater(nyCommand(r.SakID), gjeldende)
		require.NoError(t, err)

		assert.Empty(t, tilbakestilt.Grunnlagsdata.Fradragsgrunnlag)
	})
}

func TestSendTilAttestering(t *testing.T) {
	t.Run("uavgjort tilbakekreving blokkerer", func(t *testing.T) {
		r := simulertRevurdering(t)
		require.NotNil(t, r.Tilbakekreving)

		_, err := r.SendTilAttestering("oppgave-1")

		assert.ErrorIs(t, err, revurdering.ErrTilbakekrevingMaAvgjores)
	})

	t.Run("avgjort tilbakekreving slipper gjennom", func(t *testing.T) {
		r := simulertRevurdering(t)
		r, err := r.AvgjorTilbakekreving(tilbakekreving.Forsto)
		require.NoError(t, err)

		tilAttestering, err := r.SendTilAttestering("oppgave-1")

		require.NoError(t, err)
		assert.Equal(t, revurdering.TilstandTilAttestering, tilAttestering.Tilstand())
		assert.Equal(t, "oppgave-1", tilAttestering.OppgaveID)
	})

	t.Run("feilmeldinger må håndteres først", func(t *testing.T) {
		// GIVEN a termination that does not start in the revision's first month
		r, gjeldende := opprettetRevurdering(t)
		avslagFraJuli, err := periode.OverManeder(periode.Juli(2021), periode.Desember(2021))
		require.NoError(t, err)
		vurderinger := innvilgedeVilkar(t, ar2021)
		delvisAvslag, err := vilkar.NyVurdertVilkar(vilkar.Uforhet, []vilkar.Vurderingsperiode{
			vilkar.NyVurderingsperiode(tidspunkt, periode.MaNyPeriode(
				time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.June, 30, 0, 0, 0, 0, time.UTC),
			), vilkar.Innvilget, ""),
			vilkar.NyVurderingsperiode(tidspunkt, avslagFraJuli, vilkar.Avslatt, ""),
		})
		require.NoError(t, err)
		vurderinger, err = vurderinger.Oppdater(delvisAvslag)
		require.NoError(t, err)

		b, err := beregning.Beregn(beregning.Input{
			Opprettet:   tidspunkt,
			Periode:     ar2021,
			Grunnlag:    r.Grunnlagsdata,
			Vilkar:      vurderinger,
			SatsFactory: sats.NyFactory(time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
		medVilkar := r
		medVilkar.Vilkarsvurderinger = vurderinger
		beregnet := medVilkar.TilBeregnet(b, gjeldende.ManedBelop)
		require.NotEmpty(t, beregnet.Feilmeldinger)
		simulert := beregnet.TilSimulert(simuleringFor(b, gjeldende.ManedBelop), fastKlokke())

		// WHEN the caseworker tries to submit anyway
		_, err = simulert.SendTilAttestering("oppgave-1")

		// THEN the submission is refused
		assert.ErrorIs(t, err, revurdering.ErrFeilmeldingerMaHandteres)
	})
}

func TestIverksett(t *testing.T) {
	tilAttestering := func(t *testing.T) revurdering.TilAttestering {
		t.Helper()
		r := simulertRevurdering(t)
		r, err := r.AvgjorTilbakekreving(tilbakekreving.Forsto)
		require.NoError(t, err)
		ta, err := r.SendTilAttestering("oppgave-1")
		require.NoError(t, err)
		return ta
	}

	t.Run("attestant og saksbehandler kan ikke være samme person", func(t *testing.T) {
		r := tilAttestering(t)

		_, err := r.Iverksett(r.Saksbehandler, fastKlokke())

		assert.ErrorIs(t, err, revurdering.ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson)
	})

	t.Run("iverksettelse fører godkjenningen inn i attesteringshistorikken", func(t *testing.T) {
		r := tilAttestering(t)

		iverksatt, err := r.Iverksett("attestant", fastKlokke())

		require.NoError(t, err)
		assert.Equal(t, revurdering.TilstandIverksatt, iverksatt.Tilstand())
		require.Len(t, iverksatt.Attesteringer, 1)
		assert.True(t, iverksatt.Attesteringer[0].Godkjent)
		assert.Equal(t, "attestant", iverksatt.Attesteringer[0].Attestant)
	})

	t.Run("opphør med feilutbetaling krever avgjort tilbakekreving", func(t *testing.T) {
		// GIVEN a full termination where the simulation shows overpaid months
		r, gjeldende := opprettetRevurdering(t)
		vurderinger := avslatteVilkar(t, ar2021, vilkar.Uforhet)
		b, err := beregning.Beregn(beregning.Input{
			Opprettet:   tidspunkt,
			Periode:     ar2021,
			Grunnlag:    r.Grunnlagsdata,
			Vilkar:      vurderinger,
			SatsFactory: sats.NyFactory(time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
		medVilkar := r
		medVilkar.Vilkarsvurderinger = vurderinger
		beregnet := medVilkar.TilBeregnet(b, gjeldende.ManedBelop)
		require.Equal(t, beregning.UtfallOpphort, beregnet.Utfall)
		require.Empty(t, beregnet.Feilmeldinger)
		simulert := beregnet.TilSimulert(simuleringFor(b, gjeldende.ManedBelop), fastKlokke())
		require.True(t, simulert.Simulering.HarFeilutbetaling())

		// all amounts were paid out, so the claim is the full benefit
		require.NotNil(t, simulert.Tilbakekreving)

		// WHEN the attestant executes without a clawback judgment
		utenAvgjorelse := simulert
		utenAvgjorelse.Tilbakekreving = nil
		ta, err := utenAvgjorelse.SendTilAttestering("oppgave-1")
		require.NoError(t, err)
		_, err = ta.Iverksett("attestant", fastKlokke())

		// THEN execution is blocked
		assert.ErrorIs(t, err, simulering.ErrSimuleringIndikererFeilutbetaling)
	})
}

func TestUnderkjenn(t *testing.T) {
	t.Run("underkjennelsen føres inn i historikken og overlever ny behandling", func(t *testing.T) {
		r := simulertRevurdering(t)
		r, err := r.AvgjorTilbakekreving(tilbakekreving.Forsto)
		require.NoError(t, err)
		ta, err := r.SendTilAttestering("oppgave-1")
		require.NoError(t, err)

		underkjent, err := ta.Underkjenn("attestant", "BEREGNINGEN_ER_FEIL", "se kommentar", fastKlokke())
		require.NoError(t, err)
		require.Len(t, underkjent.Attesteringer, 1)
		assert.False(t, underkjent.Attesteringer[0].Godkjent)

		// rework from the editable state keeps the rejection on record
		assert.Len(t, underkjent.Opprettet.Attesteringer, 1)
	})

	t.Run("egen innsending kan ikke underkjennes", func(t *testing.T) {
		r := simulertRevurdering(t)
		r, err := r.AvgjorTilbakekreving(tilbakekreving.Forsto)
		require.NoError(t, err)
		ta, err := r.SendTilAttestering("oppgave-1")
		require.NoError(t, err)

		_, err = ta.Underkjenn(ta.Saksbehandler, "ANNET", "", fastKlokke())

		assert.ErrorIs(t, err, revurdering.ErrAttestantOgSaksbehandlerKanIkkeVareSammePerson)
	})
}

func TestForhandsvarsel(t *testing.T) {
	t.Run("sendt varsel kan ferdigbehandles én gang", func(t *testing.T) {
		r := simulertRevurdering(t)
		r, err := r.Forhandsvarsle(revurdering.NySendtForhandsvarsel())
		require.NoError(t, err)

		ferdig, err := r.Forhandsvarsel.Ferdigbehandle(revurdering.ForhandsvarselFortsettMedSammeGrunnlag, "ingen innvendinger")
		require.NoError(t, err)
		assert.Equal(t, revurdering.ForhandsvarselFortsettMedSammeGrunnlag, ferdig.Tilstand)

		_, err = ferdig.Ferdigbehandle(revurdering.ForhandsvarselEndreGrunnlaget, "")
		var overgangsfeil *revurdering.UgyldigTilstandsovergangError
		assert.ErrorAs(t, err, &overgangsfeil)
	})

	t.Run("skal ikke forhåndsvarsles er en gyldig avslutning av undermaskinen", func(t *testing.T) {
		r := simulertRevurdering(t)

		r, err := r.Forhandsvarsle(revurdering.NyttSkalIkkeForhandsvarsles())

		require.NoError(t, err)
		assert.Equal(t, revurdering.SkalIkkeForhandsvarsles, r.Forhandsvarsel.Tilstand)
	})
}

func TestAvslutt(t *testing.T) {
	t.Run("en opprettet revurdering kan avsluttes", func(t *testing.T) {
		r, _ := opprettetRevurdering(t)

		avsluttet, err := revurdering.Avslutt(r, "startet ved en feil", revurdering.SkalIkkeSendeBrev, fastKlokke())

		require.NoError(t, err)
		assert.Equal(t, revurdering.TilstandAvsluttet, avsluttet.Tilstand())
		assert.Equal(t, r.ID, avsluttet.Info().ID)
	})

	t.Run("en iverksatt revurdering kan ikke avsluttes", func(t *testing.T) {
		r := simulertRevurdering(t)
		r, err := r.AvgjorTilbakekreving(tilbakekreving.Forsto)
		require.NoError(t, err)
		ta, err := r.SendTilAttestering("oppgave-1")
		require.NoError(t, err)
		iverksatt, err := ta.Iverksett("attestant", fastKlokke())
		require.NoError(t, err)

		_, err = revurdering.Avslutt(iverksatt, "", revurdering.SkalIkkeSendeBrev, fastKlokke())

		assert.ErrorIs(t, err, revurdering.ErrRevurderingenErIverksatt)
	})

	t.Run("avslutning er ikke idempotent", func(t *testing.T) {
		r, _ := opprettetRevurdering(t)
		avsluttet, err := revurdering.Avslutt(r, "feil", revurdering.SkalIkkeSendeBrev, fastKlokke())
		require.NoError(t, err)

		_, err = revurdering.Avslutt(avsluttet, "feil igjen", revurdering.SkalIkkeSendeBrev, fastKlokke())

		assert.ErrorIs(t, err, revurdering.ErrRevurderingErAlleredeAvsluttet)
	})
}
