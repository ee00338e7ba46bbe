package vilkar_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/vilkar"
)

var tidspunkt = time.Date(2021, time.January, 1, 12, 0, 0, 0, time.UTC)

func innvilget(p periode.Periode) vilkar.Vurderingsperiode {
	return vilkar.NyVurderingsperiode(tidspunkt, p, vilkar.Innvilget, "")
}

func avslatt(p periode.Periode) vilkar.Vurderingsperiode {
	return vilkar.NyVurderingsperiode(tidspunkt, p, vilkar.Avslatt, "")
}

func maVurdere(t *testing.T, vilkartype vilkar.Vilkartype, vurderinger ...vilkar.Vurderingsperiode) vilkar.Vilkarsvurdering {
	t.Helper()
	v, err := vilkar.NyVurdertVilkar(vilkartype, vurderinger)
	require.NoError(t, err)
	return v
}

func TestNyVurdertVilkar(t *testing.T) {
	t.Run("krever minst én vurderingsperiode", func(t *testing.T) {
		_, err := vilkar.NyVurdertVilkar(vilkar.Uforhet, nil)
		assert.ErrorIs(t, err, vilkar.ErrVurderingsperioderMangler)
	})

	t.Run("avviser overlappende vurderingsperioder", func(t *testing.T) {
		_, err := vilkar.NyVurdertVilkar(vilkar.Uforhet, []vilkar.Vurderingsperiode{
			innvilget(periode.MaOverManeder(periode.Januar(2021), periode.Juni(2021))),
			innvilget(periode.MaOverManeder(periode.Mai(2021), periode.Desember(2021))),
		})
		assert.ErrorIs(t, err, vilkar.ErrOverlappendeVurderingsperioder)
	})

	t.Run("sorterer vurderingsperiodene", func(t *testing.T) {
		v := maVurdere(t, vilkar.Uforhet,
			innvilget(periode.MaOverManeder(periode.Juli(2021), periode.Desember(2021))),
			innvilget(periode.MaOverManeder(periode.Januar(2021), periode.Juni(2021))),
		)
		assert.Equal(t, periode.Januar(2021), v.Vurderinger[0].Periode.ForsteManed())
	})
}

func TestVilkarsvurderingResultat(t *testing.T) {
	t.Run("ikke vurdert er uavklart", func(t *testing.T) {
		assert.Equal(t, vilkar.Uavklart, vilkar.IkkeVurdert(vilkar.Formue).Resultat())
	})

	t.Run("alle perioder innvilget", func(t *testing.T) {
		v := maVurdere(t, vilkar.Formue, innvilget(periode.Ar(2021)))
		assert.Equal(t, vilkar.Innvilget, v.Resultat())
	})

	t.Run("ett avslag avgjør", func(t *testing.T) {
		v := maVurdere(t, vilkar.Formue,
			innvilget(periode.MaOverManeder(periode.Januar(2021), periode.Juni(2021))),
			avslatt(periode.MaOverManeder(periode.Juli(2021), periode.Desember(2021))),
		)
		assert.Equal(t, vilkar.Avslatt, v.Resultat())
		assert.Equal(t, []periode.Periode{
			periode.MaOverManeder(periode.Juli(2021), periode.Desember(2021)),
		}, v.AvslagsPerioder())
	})
}

func TestVilkarsvurderinger(t *testing.T) {
	behandlingsperiode := periode.Ar(2021)

	t.Run("baseline er uavklart", func(t *testing.T) {
		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		assert.Equal(t, vilkar.Uavklart, v.Resultat())
	})

	t.Run("innvilget når alle vilkår dekker perioden og er innvilget", func(t *testing.T) {
		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		for _, vilkartype := range vilkar.AlleVilkartyper {
			var err error
			v, err = v.Oppdater(maVurdere(t, vilkartype, innvilget(behandlingsperiode)))
			require.NoError(t, err)
		}
		assert.Equal(t, vilkar.Innvilget, v.Resultat())
		assert.Empty(t, v.Avslagsgrunner())
	})

	t.Run("avslag vinner over uavklart", func(t *testing.T) {
		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		v, err := v.Oppdater(maVurdere(t, vilkar.Formue, avslatt(behandlingsperiode)))
		require.NoError(t, err)

		assert.Equal(t, vilkar.Avslatt, v.Resultat())
		assert.Equal(t, []vilkar.Avslagsgrunn{vilkar.AvslagFormue}, v.Avslagsgrunner())
	})

	t.Run("vurdering må dekke hele behandlingsperioden", func(t *testing.T) {
		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		_, err := v.Oppdater(maVurdere(t, vilkar.Formue,
			innvilget(periode.MaOverManeder(periode.Januar(2021), periode.Juni(2021)))))
		assert.ErrorIs(t, err, vilkar.ErrVurderingsperiodeUtenforBehandlingsperioden)
	})

	t.Run("tidligste dato for avslag", func(t *testing.T) {
		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		v, err := v.Oppdater(maVurdere(t, vilkar.Uforhet,
			innvilget(periode.MaOverManeder(periode.Januar(2021), periode.April(2021))),
			avslatt(periode.MaOverManeder(periode.Mai(2021), periode.Desember(2021))),
		))
		require.NoError(t, err)

		dato, funnet := v.TidligsteDatoForAvslag()
		require.True(t, funnet)
		assert.Equal(t, time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC), dato)
	})

	t.Run("utleder opphørsgrunner fra avslåtte vilkår", func(t *testing.T) {
		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		v, err := v.Oppdater(maVurdere(t, vilkar.Formue, avslatt(behandlingsperiode)))
		require.NoError(t, err)
		v, err = v.Oppdater(maVurdere(t, vilkar.Uforhet, avslatt(behandlingsperiode)))
		require.NoError(t, err)

		assert.Equal(t, []vilkar.Opphorsgrunn{vilkar.OpphorUforhet, vilkar.OpphorFormue}, v.UtledOpphorsgrunner())
		assert.Equal(t, 2, v.AntallAvslatteVilkar())
	})

	t.Run("uføregrunnlag hentes fra uførhetvilkåret", func(t *testing.T) {
		ufore := grunnlag.NyttUforegrunnlag(tidspunkt, behandlingsperiode, 100, 120000)
		vp := innvilget(behandlingsperiode)
		vp.Uforegrunnlag = &ufore

		v := vilkar.IkkeVurderteVilkar(behandlingsperiode)
		v, err := v.Oppdater(maVurdere(t, vilkar.Uforhet, vp))
		require.NoError(t, err)

		hentet := v.Uforegrunnlag()
		require.Len(t, hentet, 1)
		assert.Equal(t, 120000, hentet[0].ForventetInntekt)
	})
}

func TestDistinkteParagrafer(t *testing.T) {
	t.Run("uførhet og flyktning gir samme paragrafer én gang", func(t *testing.T) {
		paragrafer := vilkar.DistinkteParagrafer([]vilkar.Avslagsgrunn{
			vilkar.AvslagUforhet, vilkar.AvslagFlyktning,
		})
		assert.Equal(t, []int{1, 2}, paragrafer)
	})

	t.Run("union er sortert og deduplisert", func(t *testing.T) {
		paragrafer := vilkar.DistinkteParagrafer([]vilkar.Avslagsgrunn{
			vilkar.AvslagPersonligOppmote,
			vilkar.AvslagFormue,
			vilkar.AvslagUforhet,
			vilkar.AvslagInstitusjonsopphold,
		})
		assert.Equal(t, []int{1, 2, 8, 12, 17}, paragrafer)
	})

	t.Run("rekkefølgen på input påvirker ikke resultatet", func(t *testing.T) {
		grunner := []vilkar.Avslagsgrunn{
			vilkar.AvslagUforhet,
			vilkar.AvslagFormue,
			vilkar.AvslagUtenlandsopphold,
			vilkar.AvslagUnderMinstegrense,
		}
		forventet := vilkar.DistinkteParagrafer(grunner)

		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 10; i++ {
			rng.Shuffle(len(grunner), func(a, b int) { grunner[a], grunner[b] = grunner[b], grunner[a] })
			assert.Equal(t, forventet, vilkar.DistinkteParagrafer(grunner))
		}
	})

	t.Run("opphør av for høy inntekt gir paragraf 1", func(t *testing.T) {
		assert.Equal(t, []int{1}, vilkar.OpphorForHoyInntekt.Paragrafer())
	})
}
