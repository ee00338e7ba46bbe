package dokument

import (
	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/sats"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// datoFormat is the display format the letter templates expect.
const datoFormat = "02.01.2006"

// Satsperiode is one row of the rate overview printed in decision letters.
type Satsperiode struct {
	FraOgMed    string `json:"fraOgMed"`
	TilOgMed    string `json:"tilOgMed"`
	Sats        string `json:"sats"`
	SatsBelop   int    `json:"satsBeløp"`
	Bosituasjon string `json:"satsGrunn"`
}

func satsoversiktRader(oversikt []sats.Satsperiode) []Satsperiode {
	rader := make([]Satsperiode, 0, len(oversikt))
	for _, p := range oversikt {
		rader = append(rader, Satsperiode{
			FraOgMed:    p.FraOgMed,
			TilOgMed:    p.TilOgMed,
			Sats:        p.Sats,
			SatsBelop:   p.SatsBelop,
			Bosituasjon: p.Bosituasjon,
		})
	}
	return rader
}

// Beregningsperiode is one row of the calculation table in decision letters.
type Beregningsperiode struct {
	FraOgMed   string `json:"fraOgMed"`
	TilOgMed   string `json:"tilOgMed"`
	Satsbelop  int    `json:"satsbeløp"`
	FradragSum int    `json:"fradragSum"`
	Ytelse     int    `json:"ytelsePerMåned"`
}

func beregningsperioder(b beregning.Beregning) []Beregningsperiode {
	rader := make([]Beregningsperiode, 0, len(b.Maneder))
	for _, m := range b.Maneder {
		fradragSum := m.Satsbelop - m.Belop
		if fradragSum < 0 {
			fradragSum = 0
		}
		rad := Beregningsperiode{
			FraOgMed:   m.Maned.FraOgMed().Format(datoFormat),
			TilOgMed:   m.Maned.TilOgMed().Format(datoFormat),
			Satsbelop:  m.Satsbelop,
			FradragSum: fradragSum,
			Ytelse:     m.Belop,
		}
		// collapse consecutive months with identical amounts into one row
		if n := len(rader); n > 0 &&
			rader[n-1].Satsbelop == rad.Satsbelop &&
			rader[n-1].FradragSum == rad.FradragSum &&
			rader[n-1].Ytelse == rad.Ytelse {
			rader[n-1].TilOgMed = rad.TilOgMed
			continue
		}
		rader = append(rader, rad)
	}
	return rader
}

// ForhandsvarselInnhold is the advance-notice letter payload.
type ForhandsvarselInnhold struct {
	Saksbehandler string `json:"saksbehandlerNavn"`
}

func (ForhandsvarselInnhold) Mal() string { return "forhåndsvarsel" }

// AvsluttRevurderingInnhold is sent when a forewarned revision is abandoned.
type AvsluttRevurderingInnhold struct {
	Saksbehandler string `json:"saksbehandlerNavn"`
	Fritekst      string `json:"fritekst"`
}

func (AvsluttRevurderingInnhold) Mal() string { return "avsluttRevurdering" }

// InntektInnhold is the decision letter for an ordinary amount change.
type InntektInnhold struct {
	Saksbehandler      string              `json:"saksbehandlerNavn"`
	Attestant          string              `json:"attestantNavn"`
	Beregningsperioder []Beregningsperiode `json:"beregningsperioder"`
	Satsoversikt       []Satsperiode       `json:"satsoversikt"`
	HarEktefelle       bool                `json:"harEktefelle"`
	Fritekst           string              `json:"fritekst"`
}

func (InntektInnhold) Mal() string { return "revurderingAvInntekt" }

// NyInntektInnhold builds the amount-change letter payload.
func NyInntektInnhold(saksbehandler, attestant string, b beregning.Beregning, oversikt []sats.Satsperiode, harEktefelle bool, fritekst string) InntektInnhold {
	return InntektInnhold{
		Saksbehandler:      saksbehandler,
		Attestant:          attestant,
		Beregningsperioder: beregningsperioder(b),
		Satsoversikt:       satsoversiktRader(oversikt),
		HarEktefelle:       harEktefelle,
		Fritekst:           fritekst,
	}
}

// TilbakekrevingInnhold is the decision letter for an amount change that
// claws back money already paid out.
type TilbakekrevingInnhold struct {
	Saksbehandler      string                  `json:"saksbehandlerNavn"`
	Attestant          string                  `json:"attestantNavn"`
	Beregningsperioder []Beregningsperiode     `json:"beregningsperioder"`
	Satsoversikt       []Satsperiode           `json:"satsoversikt"`
	Tilbakekreving     []TilbakekrevingPeriode `json:"tilbakekreving"`
	SumTilbakekreving  int                     `json:"sumTilbakekreving"`
	HarEktefelle       bool                    `json:"harEktefelle"`
	Fritekst           string                  `json:"fritekst"`
}

func (TilbakekrevingInnhold) Mal() string { return "revurderingMedTilbakekreving" }

// TilbakekrevingPeriode is one clawback row, gross amount per month.
type TilbakekrevingPeriode struct {
	FraOgMed string `json:"fraOgMed"`
	TilOgMed string `json:"tilOgMed"`
	Belop    int    `json:"beløp"`
}

// NyTilbakekrevingInnhold builds the clawback letter payload.
func NyTilbakekrevingInnhold(saksbehandler, attestant string, b beregning.Beregning, oversikt []sats.Satsperiode, krav tilbakekreving.Tilbakekreving, harEktefelle bool, fritekst string) TilbakekrevingInnhold {
	perioder := make([]TilbakekrevingPeriode, 0, len(krav.ManedBelop))
	for _, mb := range krav.ManedBelop {
		perioder = append(perioder, TilbakekrevingPeriode{
			FraOgMed: mb.Maned.FraOgMed().Format(datoFormat),
			TilOgMed: mb.Maned.TilOgMed().Format(datoFormat),
			Belop:    mb.Belop,
		})
	}
	return TilbakekrevingInnhold{
		Saksbehandler:      saksbehandler,
		Attestant:          attestant,
		Beregningsperioder: beregningsperioder(b),
		Satsoversikt:       satsoversiktRader(oversikt),
		Tilbakekreving:     perioder,
		SumTilbakekreving:  krav.SumBelop(),
		HarEktefelle:       harEktefelle,
		Fritekst:           fritekst,
	}
}

// OpphorsvedtakInnhold is the decision letter terminating the benefit.
type OpphorsvedtakInnhold struct {
	Saksbehandler     string        `json:"saksbehandlerNavn"`
	Attestant         string        `json:"attestantNavn"`
	OpphorsdatoFra    string        `json:"opphørsdato"`
	Opphorsgrunner    []string      `json:"opphørsgrunner"`
	Avslagsparagrafer []int         `json:"avslagsparagrafer"`
	Satsoversikt      []Satsperiode `json:"satsoversikt"`
	HarEktefelle      bool          `json:"harEktefelle"`
	Fritekst          string        `json:"fritekst"`
}

func (OpphorsvedtakInnhold) Mal() string { return "opphørsvedtak" }

// NyOpphorsvedtakInnhold builds the termination letter payload. The
// paragraph list is the sorted, deduplicated union over the termination
// grounds.
func NyOpphorsvedtakInnhold(saksbehandler, attestant, opphorsdatoFra string, grunner []vilkar.Opphorsgrunn, oversikt []sats.Satsperiode, harEktefelle bool, fritekst string) OpphorsvedtakInnhold {
	grunnNavn := make([]string, 0, len(grunner))
	for _, g := range grunner {
		grunnNavn = append(grunnNavn, string(g))
	}
	return OpphorsvedtakInnhold{
		Saksbehandler:     saksbehandler,
		Attestant:         attestant,
		OpphorsdatoFra:    opphorsdatoFra,
		Opphorsgrunner:    grunnNavn,
		Avslagsparagrafer: vilkar.DistinkteParagraferForOpphor(grunner),
		Satsoversikt:      satsoversiktRader(oversikt),
		HarEktefelle:      harEktefelle,
		Fritekst:          fritekst,
	}
}
