package beregning

import (
	"github.com/shopspring/decimal"

	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/sats"
)

// =============================================================================
// FRADRAGSSTRATEGIER - Deduction strategies per bosituasjon
// =============================================================================
//
// The applicant's own deductions always count, with one twist: the expected
// income fixed by the disability decision acts as a floor under registered
// employment income. Whether and how the partner's (EPS) income counts
// depends on the living situation:
//   - Enslig / deler bolig:       EPS income never counts
//   - EPS under 67:               all EPS income counts
//   - EPS over 67 / ufør flyktning: only EPS income above the partner's own
//     protected amount counts; the ordinary monthly rate stands in for it.

type fradragsstrategi interface {
	beregnFradrag(
		m periode.Maned,
		full sats.FullSupplerendeStonadForManed,
		fradrag []grunnlag.Fradragsgrunnlag,
		uforegrunnlag []grunnlag.Uforegrunnlag,
	) decimal.Decimal
}

func strategiFor(t grunnlag.Bosituasjonstype) fradragsstrategi {
	switch t {
	case grunnlag.BosituasjonEpsUnder67:
		return epsUnder67Strategi{}
	case grunnlag.BosituasjonEpsOver67, grunnlag.BosituasjonEpsUnder67UforFlyktning:
		return epsMedSkjermetBelopStrategi{}
	default:
		return ensligStrategi{}
	}
}

// brukerFradrag sums the applicant's own deductions for the month. Employment
// income below the expected income from the disability decision is replaced
// by the expected income - the decision's figure is authoritative until a
// higher actual income is registered.
func brukerFradrag(
	m periode.Maned,
	fradrag []grunnlag.Fradragsgrunnlag,
	uforegrunnlag []grunnlag.Uforegrunnlag,
) decimal.Decimal {
	arbeidsinntekt := decimal.Zero
	andre := decimal.Zero
	for _, f := range fradrag {
		if f.Tilhorer != grunnlag.TilhorerBruker {
			continue
		}
		switch f.Type {
		case grunnlag.FradragArbeidsinntekt:
			arbeidsinntekt = arbeidsinntekt.Add(f.ManedsBelop)
		case grunnlag.FradragForventetInntekt:
			// Derived below from uføregrunnlag; ignore stored rows.
		default:
			andre = andre.Add(f.ManedsBelop)
		}
	}

	forventet := forventetInntektPerManed(m, uforegrunnlag)
	if forventet.GreaterThan(arbeidsinntekt) {
		return forventet.Add(andre)
	}
	return arbeidsinntekt.Add(andre)
}

func forventetInntektPerManed(m periode.Maned, uforegrunnlag []grunnlag.Uforegrunnlag) decimal.Decimal {
	for _, u := range uforegrunnlag {
		if u.Periode.Inneholder(m.Periode()) {
			return decimal.NewFromInt(int64(u.ForventetInntekt)).Div(decimal.NewFromInt(12))
		}
	}
	return decimal.Zero
}

func epsFradrag(fradrag []grunnlag.Fradragsgrunnlag) decimal.Decimal {
	sum := decimal.Zero
	for _, f := range fradrag {
		if f.Tilhorer == grunnlag.TilhorerEPS {
			sum = sum.Add(f.ManedsBelop)
		}
	}
	return sum
}

type ensligStrategi struct{}

func (ensligStrategi) beregnFradrag(
	m periode.Maned,
	_ sats.FullSupplerendeStonadForManed,
	fradrag []grunnlag.Fradragsgrunnlag,
	uforegrunnlag []grunnlag.Uforegrunnlag,
) decimal.Decimal {
	return brukerFradrag(m, fradrag, uforegrunnlag)
}

type epsUnder67Strategi struct{}

func (epsUnder67Strategi) beregnFradrag(
	m periode.Maned,
	_ sats.FullSupplerendeStonadForManed,
	fradrag []grunnlag.Fradragsgrunnlag,
	uforegrunnlag []grunnlag.Uforegrunnlag,
) decimal.Decimal {
	return brukerFradrag(m, fradrag, uforegrunnlag).Add(epsFradrag(fradrag))
}

type epsMedSkjermetBelopStrategi struct{}

func (epsMedSkjermetBelopStrategi) beregnFradrag(
	m periode.Maned,
	full sats.FullSupplerendeStonadForManed,
	fradrag []grunnlag.Fradragsgrunnlag,
	uforegrunnlag []grunnlag.Uforegrunnlag,
) decimal.Decimal {
	// The protected amount is the ordinary monthly rate regardless of the
	// applicant's own rate class.
	ordinarPerManed := decimal.RequireFromString("2.28").
		Mul(decimal.NewFromInt(int64(full.Grunnbelop.GrunnbelopPerAr))).
		Div(decimal.NewFromInt(12))

	overSkjermet := epsFradrag(fradrag).Sub(ordinarPerManed)
	if overSkjermet.LessThan(decimal.Zero) {
		overSkjermet = decimal.Zero
	}
	return brukerFradrag(m, fradrag, uforegrunnlag).Add(overSkjermet)
}
