package tilbakekreving_test

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
	"github.com/navikt/supplerende-stonad/sats"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vilkar"
)

var (
	tidspunkt     = time.Date(2021, time.January, 1, 12, 0, 0, 0, time.UTC)
	januarTilJuni = periode.MaOverManeder(periode.Januar(2021), periode.Juni(2021))
)

// utbetaltHistorikk is what was actually paid out for the first half of 2021:
// the original grant used the old grunnbeløp for Jan-Apr, and the May
// adjustment raised the last two months.
func utbetaltHistorikk() []beregning.ManedBelop {
	return []beregning.ManedBelop{
		{Maned: periode.Januar(2021), Belop: 20946},
		{Maned: periode.Februar(2021), Belop: 20946},
		{Maned: periode.Mars(2021), Belop: 20946},
		{Maned: periode.April(2021), Belop: 20946},
		{Maned: periode.Mai(2021), Belop: 21989},
		{Maned: periode.Juni(2021), Belop: 21989},
	}
}

func vilkarFor(t *testing.T, p periode.Periode, formueResultat vilkar.Resultat) vilkar.Vilkarsvurderinger {
	t.Helper()
	v := vilkar.IkkeVurderteVilkar(p)
	for _, vilkartype := range vilkar.AlleVilkartyper {
		resultat := vilkar.Innvilget
		if vilkartype == vilkar.Formue {
			resultat = formueResultat
		}
		vurdert, err := vilkar.NyVurdertVilkar(vilkartype, []vilkar.Vurderingsperiode{
			vilkar.NyVurderingsperiode(tidspunkt, p, resultat, ""),
		})
		require.NoError(t, err)
		v, err = v.Oppdater(vurdert)
		require.NoError(t, err)
	}
	return v
}

func beregnRevurdering(t *testing.T, fradragBelop int, formueResultat vilkar.Resultat) beregning.Beregning {
	t.Helper()
	var fradrag []grunnlag.Fradragsgrunnlag
	if fradragBelop > 0 {
		fradrag = append(fradrag, grunnlag.NyttFradragsgrunnlag(
			tidspunkt, januarTilJuni, grunnlag.FradragArbeidsinntekt,
			decimal.NewFromInt(int64(fradragBelop)), grunnlag.TilhorerBruker,
		))
	}
	data, err := grunnlag.NyGrunnlagsdata(
		[]grunnlag.Bosituasjon{grunnlag.NyBosituasjon(tidspunkt, januarTilJuni, grunnlag.BosituasjonEnslig)},
		fradrag,
	)
	require.NoError(t, err)

	// revision calculated before the May 2021 adjustment was enacted
	b, err := beregning.Beregn(beregning.Input{
		Opprettet:   tidspunkt,
		Periode:     januarTilJuni,
		Grunnlag:    data,
		Vilkar:      vilkarFor(t, januarTilJuni, formueResultat),
		SatsFactory: sats.NyFactory(time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return b
}

func TestUtled(t *testing.T) {
	t.Run("retroaktivt fradrag gir krav per måned", func(t *testing.T) {
		// GIVEN a 5000/month employment income added retroactively from
		// January; the revision still sees the old grunnbeløp, so the new
		// amount is 15946 for every month
		ny := beregnRevurdering(t, 5000, vilkar.Innvilget)

		krav, harKrav := tilbakekreving.Utled(ny, utbetaltHistorikk())
		require.True(t, harKrav)

		assert.Equal(t, []beregning.ManedBelop{
			{Maned: periode.Januar(2021), Belop: 5000},
			{Maned: periode.Februar(2021), Belop: 5000},
			{Maned: periode.Mars(2021), Belop: 5000},
			{Maned: periode.April(2021), Belop: 5000},
			{Maned: periode.Mai(2021), Belop: 6043},
			{Maned: periode.Juni(2021), Belop: 6043},
		}, krav.ManedBelop)
		assert.Equal(t, 4*5000+2*6043, krav.SumBelop())
	})

	t.Run("opphør krever tilbake alt som er utbetalt", func(t *testing.T) {
		ny := beregnRevurdering(t, 0, vilkar.Avslatt)

		krav, harKrav := tilbakekreving.Utled(ny, utbetaltHistorikk())
		require.True(t, harKrav)

		assert.Equal(t, []beregning.ManedBelop{
			{Maned: periode.Januar(2021), Belop: 20946},
			{Maned: periode.Februar(2021), Belop: 20946},
			{Maned: periode.Mars(2021), Belop: 20946},
			{Maned: periode.April(2021), Belop: 20946},
			{Maned: periode.Mai(2021), Belop: 21989},
			{Maned: periode.Juni(2021), Belop: 21989},
		}, krav.ManedBelop)
	})

	t.Run("ingen reduksjon gir ikke noe krav", func(t *testing.T) {
		ny := beregnRevurdering(t, 0, vilkar.Innvilget)

		// only Jan-Apr were paid, and the new amounts match exactly
		krav, harKrav := tilbakekreving.Utled(ny, utbetaltHistorikk()[:4])
		assert.False(t, harKrav)
		assert.Empty(t, krav.ManedBelop)
	})
}

func TestBehandling(t *testing.T) {
	nyBehandling := func(t *testing.T) tilbakekreving.Behandling {
		t.Helper()
		ny := beregnRevurdering(t, 5000, vilkar.Innvilget)
		krav, harKrav := tilbakekreving.Utled(ny, utbetaltHistorikk())
		require.True(t, harKrav)
		return tilbakekreving.NyBehandling(tidspunkt, uuid.New(), krav)
	}

	t.Run("forsto gir tilbakekrev", func(t *testing.T) {
		b, err := nyBehandling(t).Avgjor(tilbakekreving.Forsto)
		require.NoError(t, err)

		assert.Equal(t, tilbakekreving.TilstandAvgjort, b.Tilstand)
		assert.True(t, b.SkalTilbakekreve())
	})

	t.Run("burde forstått gir tilbakekrev", func(t *testing.T) {
		b, err := nyBehandling(t).Avgjor(tilbakekreving.BurdeForstatt)
		require.NoError(t, err)
		assert.True(t, b.SkalTilbakekreve())
	})

	t.Run("kunne ikke forstå gir ikke tilbakekrev", func(t *testing.T) {
		b, err := nyBehandling(t).Avgjor(tilbakekreving.KunneIkkeForsta)
		require.NoError(t, err)

		assert.True(t, b.ErAvgjort())
		assert.False(t, b.SkalTilbakekreve())
	})

	t.Run("kan ikke avgjøre to ganger", func(t *testing.T) {
		b, err := nyBehandling(t).Avgjor(tilbakekreving.Forsto)
		require.NoError(t, err)

		_, err = b.Avgjor(tilbakekreving.BurdeForstatt)
		require.ErrorIs(t, err, tilbakekreving.ErrUgyldigTilstand)

		var tilstandErr *tilbakekreving.UgyldigTilstandError
		require.ErrorAs(t, err, &tilstandErr)
		assert.Equal(t, tilbakekreving.TilstandAvgjort, tilstandErr.Fra)
	})

	t.Run("fullfør krever avgjørelse først", func(t *testing.T) {
		_, err := nyBehandling(t).FullforBehandling()
		require.ErrorIs(t, err, tilbakekreving.ErrUgyldigTilstand)
	})

	t.Run("fullført behandling avventer kravgrunnlag", func(t *testing.T) {
		b, err := nyBehandling(t).Avgjor(tilbakekreving.Forsto)
		require.NoError(t, err)
		b, err = b.FullforBehandling()
		require.NoError(t, err)

		assert.Equal(t, tilbakekreving.TilstandAvventerKravgrunnlag, b.Tilstand)
	})

	t.Run("ukjent vurdering avvises", func(t *testing.T) {
		_, err := nyBehandling(t).Avgjor(tilbakekreving.Vurdering("TJA"))
		var vurderingErr *tilbakekreving.UgyldigVurderingError
		require.ErrorAs(t, err, &vurderingErr)
	})
}
