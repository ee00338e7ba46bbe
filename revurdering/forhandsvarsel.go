package revurdering

// =============================================================================
// FORHÅNDSVARSEL - Advance notice to the benefit recipient
// =============================================================================
//
// Orthogonal to the main lifecycle: a simulert revision either sends an
// advance notice or records the decision not to. A sent notice is resolved
// exactly once - continue on the same grounds, change the grounds, or drop
// the revision. Resolving anything but a sent notice is an illegal step.

// ForhandsvarselTilstand is the notice's position in its own lifecycle.
type ForhandsvarselTilstand string

const (
	ForhandsvarselSendt                    ForhandsvarselTilstand = "UNDER_BEHANDLING_SENDT"
	ForhandsvarselFortsettMedSammeGrunnlag ForhandsvarselTilstand = "FERDIGBEHANDLET_FORTSETT_MED_SAMME_GRUNNLAG"
	ForhandsvarselEndreGrunnlaget          ForhandsvarselTilstand = "FERDIGBEHANDLET_ENDRE_GRUNNLAGET"
	ForhandsvarselAvsluttet                ForhandsvarselTilstand = "FERDIGBEHANDLET_AVSLUTTET"
	SkalIkkeForhandsvarsles                ForhandsvarselTilstand = "SKAL_IKKE_FORHÅNDSVARSLES"
)

// Forhandsvarsel tracks one advance-notice instance.
type Forhandsvarsel struct {
	Tilstand    ForhandsvarselTilstand
	Begrunnelse string
}

// NySendtForhandsvarsel records that the notice has been sent.
func NySendtForhandsvarsel() Forhandsvarsel {
	return Forhandsvarsel{Tilstand: ForhandsvarselSendt}
}

// NyttSkalIkkeForhandsvarsles records the decision to skip the notice.
func NyttSkalIkkeForhandsvarsles() Forhandsvarsel {
	return Forhandsvarsel{Tilstand: SkalIkkeForhandsvarsles}
}

func (f Forhandsvarsel) erFerdigbehandlet() bool {
	return f.Tilstand != ForhandsvarselSendt
}

// Ferdigbehandle resolves a sent notice with the recipient's response taken
// into account. Only one resolution per instance is legal.
func (f Forhandsvarsel) Ferdigbehandle(til ForhandsvarselTilstand, begrunnelse string) (Forhandsvarsel, error) {
	switch til {
	case ForhandsvarselFortsettMedSammeGrunnlag, ForhandsvarselEndreGrunnlaget, ForhandsvarselAvsluttet:
	default:
		return Forhandsvarsel{}, &UgyldigTilstandsovergangError{Fra: f.Tilstand, Til: til}
	}
	if f.Tilstand != ForhandsvarselSendt {
		return Forhandsvarsel{}, &UgyldigTilstandsovergangError{Fra: f.Tilstand, Til: til}
	}
	return Forhandsvarsel{Tilstand: til, Begrunnelse: begrunnelse}, nil
}
