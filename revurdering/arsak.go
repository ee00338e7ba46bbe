package revurdering

// Arsak is why the case is being revised.
type Arsak string

const (
	ArsakMeldingFraBruker              Arsak = "MELDING_FRA_BRUKER"
	ArsakInformasjonFraKontrollsamtale Arsak = "INFORMASJON_FRA_KONTROLLSAMTALE"
	ArsakDodsfall                      Arsak = "DØDSFALL"
	ArsakRegulerGrunnbelop             Arsak = "REGULER_GRUNNBELØP"
	ArsakManglendeKontrollerklaering   Arsak = "MANGLENDE_KONTROLLERKLÆRING"
	ArsakMottattKontrollerklaering     Arsak = "MOTTATT_KONTROLLERKLÆRING"
	ArsakAndreKilder                   Arsak = "ANDRE_KILDER"
)

var gyldigeArsaker = map[Arsak]struct{}{
	ArsakMeldingFraBruker:              {},
	ArsakInformasjonFraKontrollsamtale: {},
	ArsakDodsfall:                      {},
	ArsakRegulerGrunnbelop:             {},
	ArsakManglendeKontrollerklaering:   {},
	ArsakMottattKontrollerklaering:     {},
	ArsakAndreKilder:                   {},
}

// Revurderingsarsak is the reason plus the caseworker's free-text grounds.
type Revurderingsarsak struct {
	Arsak       Arsak
	Begrunnelse string
}

// NyRevurderingsarsak validates both the reason and the grounds.
func NyRevurderingsarsak(arsak Arsak, begrunnelse string) (Revurderingsarsak, error) {
	if _, ok := gyldigeArsaker[arsak]; !ok {
		return Revurderingsarsak{}, ErrUgyldigArsak
	}
	if begrunnelse == "" {
		return Revurderingsarsak{}, ErrUgyldigBegrunnelse
	}
	return Revurderingsarsak{Arsak: arsak, Begrunnelse: begrunnelse}, nil
}

// Revurderingsteg is one revisable topic.
type Revurderingsteg string

const (
	StegUforhet             Revurderingsteg = "UFØRHET"
	StegFlyktning           Revurderingsteg = "FLYKTNING"
	StegFormue              Revurderingsteg = "FORMUE"
	StegOppholdstillatelse  Revurderingsteg = "OPPHOLDSTILLATELSE"
	StegPersonligOppmote    Revurderingsteg = "PERSONLIG_OPPMØTE"
	StegBosituasjon         Revurderingsteg = "BOSITUASJON"
	StegInstitusjonsopphold Revurderingsteg = "INSTITUSJONSOPPHOLD"
	StegUtenlandsopphold    Revurderingsteg = "UTENLANDSOPPHOLD"
	StegInntekt             Revurderingsteg = "INNTEKT"
	StegOpplysningsplikt    Revurderingsteg = "OPPLYSNINGSPLIKT"
	StegPensjon             Revurderingsteg = "PENSJON"
	StegFastOppholdINorge   Revurderingsteg = "FAST_OPPHOLD_I_NORGE"
)

// Vurderingstatus tracks whether a chosen topic has been revised yet.
type Vurderingstatus string

const (
	StatusIkkeVurdert Vurderingstatus = "IKKE_VURDERT"
	StatusVurdert     Vurderingstatus = "VURDERT"
)

// VurdertSteg pairs one chosen topic with its status.
type VurdertSteg struct {
	Steg   Revurderingsteg
	Status Vurderingstatus
}

// InformasjonSomRevurderes lists the chosen topics in the order the
// caseworker picked them. It drives which vilkår get recomputed and which
// are carried over unchanged.
type InformasjonSomRevurderes []VurdertSteg

// NyInformasjonSomRevurderes requires at least one topic. Duplicates keep
// their first position.
func NyInformasjonSomRevurderes(steg []Revurderingsteg) (InformasjonSomRevurderes, error) {
	if len(steg) == 0 {
		return nil, ErrMaVelgeInformasjonSomSkalRevurderes
	}
	informasjon := make(InformasjonSomRevurderes, 0, len(steg))
	for _, s := range steg {
		if informasjon.Inneholder(s) {
			continue
		}
		informasjon = append(informasjon, VurdertSteg{Steg: s, Status: StatusIkkeVurdert})
	}
	return informasjon, nil
}

// MarkerVurdert returns a copy with the topic marked as revised. A topic
// that was not chosen up front is appended after the chosen ones.
func (i InformasjonSomRevurderes) MarkerVurdert(steg Revurderingsteg) InformasjonSomRevurderes {
	kopi := make(InformasjonSomRevurderes, len(i))
	copy(kopi, i)
	for n, v := range kopi {
		if v.Steg == steg {
			kopi[n].Status = StatusVurdert
			return kopi
		}
	}
	return append(kopi, VurdertSteg{Steg: steg, Status: StatusVurdert})
}

// Inneholder reports whether the topic was chosen for revision.
func (i InformasjonSomRevurderes) Inneholder(steg Revurderingsteg) bool {
	for _, v := range i {
		if v.Steg == steg {
			return true
		}
	}
	return false
}
