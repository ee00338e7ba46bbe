package vilkar

import "sort"

// Avslagsgrunn is a rejection reason. Each reason maps to a fixed, ascending
// list of statute paragraphs quoted in rejection letters; the lists are
// legal content and must not be re-derived.
type Avslagsgrunn string

const (
	AvslagUforhet              Avslagsgrunn = "UFØRHET"
	AvslagFlyktning            Avslagsgrunn = "FLYKTNING"
	AvslagFormue               Avslagsgrunn = "FORMUE"
	AvslagUtenlandsopphold     Avslagsgrunn = "UTENLANDSOPPHOLD_OVER_90_DAGER"
	AvslagPersonligOppmote     Avslagsgrunn = "PERSONLIG_OPPMØTE"
	AvslagInstitusjonsopphold  Avslagsgrunn = "INNLAGT_PÅ_INSTITUSJON"
	AvslagBorOgOppholderINorge Avslagsgrunn = "BOR_OG_OPPHOLDER_SEG_I_NORGE"
	AvslagForHoyInntekt        Avslagsgrunn = "FOR_HØY_INNTEKT"
	AvslagUnderMinstegrense    Avslagsgrunn = "SU_UNDER_MINSTEGRENSE"
)

var avslagsparagrafer = map[Avslagsgrunn][]int{
	AvslagUforhet:              {1, 2},
	AvslagFlyktning:            {1, 2},
	AvslagFormue:               {8},
	AvslagUtenlandsopphold:     {1, 2, 4},
	AvslagPersonligOppmote:     {17},
	AvslagInstitusjonsopphold:  {12},
	AvslagBorOgOppholderINorge: {1, 2, 3, 4},
	AvslagForHoyInntekt:        {5, 6, 7},
	AvslagUnderMinstegrense:    {5, 6, 9},
}

// Paragrafer returns the statute paragraphs for this reason.
func (a Avslagsgrunn) Paragrafer() []int {
	paragrafer := avslagsparagrafer[a]
	ut := make([]int, len(paragrafer))
	copy(ut, paragrafer)
	return ut
}

// DistinkteParagrafer returns the sorted, de-duplicated union of the
// paragraph lists of every given reason. The output is independent of input
// order.
func DistinkteParagrafer(grunner []Avslagsgrunn) []int {
	sett := make(map[int]struct{})
	for _, g := range grunner {
		for _, p := range avslagsparagrafer[g] {
			sett[p] = struct{}{}
		}
	}
	ut := make([]int, 0, len(sett))
	for p := range sett {
		ut = append(ut, p)
	}
	sort.Ints(ut)
	return ut
}

// AvslagsgrunnForVilkar maps a condition type to its rejection reason.
func AvslagsgrunnForVilkar(t Vilkartype) Avslagsgrunn {
	switch t {
	case Uforhet:
		return AvslagUforhet
	case Flyktning:
		return AvslagFlyktning
	case Formue:
		return AvslagFormue
	case Utenlandsopphold:
		return AvslagUtenlandsopphold
	case PersonligOppmote:
		return AvslagPersonligOppmote
	case Institusjonsopphold:
		return AvslagInstitusjonsopphold
	case FastOppholdINorge:
		return AvslagBorOgOppholderINorge
	}
	return ""
}

// Opphorsgrunn is the reason an ongoing benefit terminates. Beyond the
// vilkår-driven reasons, a beregning can terminate on income alone.
type Opphorsgrunn string

const (
	OpphorUforhet             Opphorsgrunn = "UFØRHET"
	OpphorFlyktning           Opphorsgrunn = "FLYKTNING"
	OpphorFormue              Opphorsgrunn = "FORMUE"
	OpphorUtenlandsopphold    Opphorsgrunn = "UTENLANDSOPPHOLD"
	OpphorPersonligOppmote    Opphorsgrunn = "PERSONLIG_OPPMØTE"
	OpphorInstitusjonsopphold Opphorsgrunn = "INSTITUSJONSOPPHOLD"
	OpphorFastOppholdINorge   Opphorsgrunn = "FAST_OPPHOLD_I_NORGE"
	OpphorForHoyInntekt       Opphorsgrunn = "FOR_HØY_INNTEKT"
	OpphorUnderMinstegrense   Opphorsgrunn = "SU_UNDER_MINSTEGRENSE"
)

var opphorsparagrafer = map[Opphorsgrunn][]int{
	OpphorUforhet:             {1, 2},
	OpphorFlyktning:           {1, 2},
	OpphorFormue:              {8},
	OpphorUtenlandsopphold:    {1, 2, 4},
	OpphorPersonligOppmote:    {17},
	OpphorInstitusjonsopphold: {12},
	OpphorFastOppholdINorge:   {1, 2, 3, 4},
	OpphorForHoyInntekt:       {1},
	OpphorUnderMinstegrense:   {5, 6, 9},
}

// Paragrafer returns the statute paragraphs for this opphør reason.
func (o Opphorsgrunn) Paragrafer() []int {
	paragrafer := opphorsparagrafer[o]
	ut := make([]int, len(paragrafer))
	copy(ut, paragrafer)
	return ut
}

// DistinkteParagraferForOpphor unions the paragraph lists of several opphør
// reasons, sorted and de-duplicated.
func DistinkteParagraferForOpphor(grunner []Opphorsgrunn) []int {
	sett := make(map[int]struct{})
	for _, g := range grunner {
		for _, p := range opphorsparagrafer[g] {
			sett[p] = struct{}{}
		}
	}
	ut := make([]int, 0, len(sett))
	for p := range sett {
		ut = append(ut, p)
	}
	sort.Ints(ut)
	return ut
}

// OpphorsgrunnForVilkar maps a condition type to its opphør reason.
func OpphorsgrunnForVilkar(t Vilkartype) Opphorsgrunn {
	switch t {
	case Uforhet:
		return OpphorUforhet
	case Flyktning:
		return OpphorFlyktning
	case Formue:
		return OpphorFormue
	case Utenlandsopphold:
		return OpphorUtenlandsopphold
	case PersonligOppmote:
		return OpphorPersonligOppmote
	case Institusjonsopphold:
		return OpphorInstitusjonsopphold
	case FastOppholdINorge:
		return OpphorFastOppholdINorge
	}
	return ""
}
