package sats_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/sats"
)

func dato(ar int, mnd time.Month, dag int) time.Time {
	return time.Date(ar, mnd, dag, 0, 0, 0, 0, time.UTC)
}

func TestFactory_ForManed(t *testing.T) {
	t.Run("høy sats januar 2021", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.January, 1))

		full, err := factory.ForManed(periode.Januar(2021), sats.Hoy)
		require.NoError(t, err)

		assert.Equal(t, 101351, full.Grunnbelop.GrunnbelopPerAr)
		assert.True(t, full.SatsForManed.Round(4).Equal(decimal.RequireFromString("20945.8733")),
			"fikk %s", full.SatsForManed)
		assert.Equal(t, 20946, full.SatsForManedAvrundet())
	})

	t.Run("ordinær sats januar 2021", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.January, 1))

		full, err := factory.ForManed(periode.Januar(2021), sats.Ordinar)
		require.NoError(t, err)

		assert.Equal(t, 19257, full.SatsForManedAvrundet())
	})

	t.Run("mai 2021 før ikrafttredelsen bruker gammelt grunnbeløp", func(t *testing.T) {
		// GIVEN the 2021 adjustment takes effect 1 May but was enacted 21 May
		factory := sats.NyFactory(dato(2021, time.May, 1))

		full, err := factory.ForManed(periode.Mai(2021), sats.Hoy)
		require.NoError(t, err)

		assert.Equal(t, 101351, full.Grunnbelop.GrunnbelopPerAr)
		assert.Equal(t, 20946, full.SatsForManedAvrundet())
	})

	t.Run("mai 2021 på ikrafttredelsesdagen bruker nytt grunnbeløp", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.May, 21))

		full, err := factory.ForManed(periode.Mai(2021), sats.Hoy)
		require.NoError(t, err)

		assert.Equal(t, 106399, full.Grunnbelop.GrunnbelopPerAr)
		assert.True(t, full.SatsForManed.Round(4).Equal(decimal.RequireFromString("21989.1267")),
			"fikk %s", full.SatsForManed)
		assert.Equal(t, 21989, full.SatsForManedAvrundet())
	})

	t.Run("april 2021 påvirkes ikke av nytt grunnbeløp", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.June, 1))

		full, err := factory.ForManed(periode.April(2021), sats.Hoy)
		require.NoError(t, err)

		assert.Equal(t, 101351, full.Grunnbelop.GrunnbelopPerAr)
	})

	t.Run("to prosent av høy sats for måneden", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.January, 1))

		full, err := factory.ForManed(periode.Januar(2021), sats.Ordinar)
		require.NoError(t, err)

		assert.True(t, full.ToProsentAvHoyForManed().Round(3).Equal(decimal.RequireFromString("418.917")),
			"fikk %s", full.ToProsentAvHoyForManed())
	})

	t.Run("måneder før januar 2020 støttes ikke", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.January, 1))

		_, err := factory.ForManed(periode.Desember(2019), sats.Hoy)
		assert.Error(t, err)
	})
}

func TestKategoriForBosituasjon(t *testing.T) {
	assert.Equal(t, sats.Hoy, sats.KategoriForBosituasjon(grunnlag.BosituasjonEnslig))
	assert.Equal(t, sats.Hoy, sats.KategoriForBosituasjon(grunnlag.BosituasjonEpsUnder67))
	assert.Equal(t, sats.Ordinar, sats.KategoriForBosituasjon(grunnlag.BosituasjonDelerBoligMedVoksne))
	assert.Equal(t, sats.Ordinar, sats.KategoriForBosituasjon(grunnlag.BosituasjonEpsOver67))
	assert.Equal(t, sats.Ordinar, sats.KategoriForBosituasjon(grunnlag.BosituasjonEpsUnder67UforFlyktning))
}

func TestSatsoversikt(t *testing.T) {
	t.Run("grunnbeløpsjustering midt i året splitter radene", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.May, 21))
		bosituasjon := grunnlag.NyBosituasjon(
			dato(2021, time.January, 1), periode.Ar(2021), grunnlag.BosituasjonEnslig,
		)

		oversikt, err := sats.Satsoversikt(factory, []grunnlag.Bosituasjon{bosituasjon})
		require.NoError(t, err)

		require.Len(t, oversikt, 2)
		assert.Equal(t, sats.Satsperiode{
			FraOgMed:    "01.01.2021",
			TilOgMed:    "30.04.2021",
			Sats:        "høy",
			SatsBelop:   20946,
			Bosituasjon: "ENSLIG",
		}, oversikt[0])
		assert.Equal(t, sats.Satsperiode{
			FraOgMed:    "01.05.2021",
			TilOgMed:    "31.12.2021",
			Sats:        "høy",
			SatsBelop:   21989,
			Bosituasjon: "ENSLIG",
		}, oversikt[1])
	})

	t.Run("endret bosituasjon splitter radene selv med likt beløp", func(t *testing.T) {
		factory := sats.NyFactory(dato(2021, time.January, 1))
		bosituasjoner := []grunnlag.Bosituasjon{
			grunnlag.NyBosituasjon(dato(2021, time.January, 1),
				periode.MaOverManeder(periode.Januar(2021), periode.Juni(2021)), grunnlag.BosituasjonEnslig),
			grunnlag.NyBosituasjon(dato(2021, time.January, 1),
				periode.MaOverManeder(periode.Juli(2021), periode.Desember(2021)), grunnlag.BosituasjonEpsUnder67),
		}

		oversikt, err := sats.Satsoversikt(factory, bosituasjoner)
		require.NoError(t, err)

		require.Len(t, oversikt, 2)
		assert.Equal(t, "ENSLIG", oversikt[0].Bosituasjon)
		assert.Equal(t, "EPS_UNDER_67", oversikt[1].Bosituasjon)
		assert.Equal(t, oversikt[0].SatsBelop, oversikt[1].SatsBelop)
	})
}
