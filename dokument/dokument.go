package dokument

// =============================================================================
// PURPOSE
// =============================================================================
// Document commands for case correspondence. The core never renders letters
// itself; it builds a Command with a typed JSON payload and hands it to an
// external letter generator. The payload field names are part of the contract
// with that generator and must not change.
// =============================================================================

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

var ErrKunneIkkeLageDokument = errors.New("kunne ikke lage dokument")

type Dokumenttype string

const (
	TypeVedtak      Dokumenttype = "VEDTAK"
	TypeViktig      Dokumenttype = "VIKTIG"
	TypeInformasjon Dokumenttype = "INFORMASJON"
)

// Command asks the letter generator for one document.
type Command struct {
	SakID         uuid.UUID
	BehandlingID  uuid.UUID
	Saksbehandler string
	Attestant     string
	Type          Dokumenttype
	Tittel        string
	Innhold       Brevinnhold
}

// Dokument is the generated and archived result.
type Dokument struct {
	ID           uuid.UUID
	Opprettet    time.Time
	SakID        uuid.UUID
	BehandlingID uuid.UUID
	Type         Dokumenttype
	Tittel       string
	GenerertJSON []byte
}

// Brevinnhold is a letter payload. Mal names the template at the generator.
type Brevinnhold interface {
	Mal() string
}

// SerialiserInnhold produces the JSON body sent to the generator.
func SerialiserInnhold(innhold Brevinnhold) ([]byte, error) {
	b, err := json.Marshal(innhold)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke serialisere brevinnhold for mal %s: %w", innhold.Mal(), err)
	}
	return b, nil
}

// ForhandsvarselCommand builds the advance-notice letter command.
func ForhandsvarselCommand(behandlingID, sakID uuid.UUID, saksbehandler string) Command {
	return Command{
		SakID:         sakID,
		BehandlingID:  behandlingID,
		Saksbehandler: saksbehandler,
		Type:          TypeViktig,
		Tittel:        "Varsel om at vi vil ta opp stønaden din til ny vurdering",
		Innhold:       ForhandsvarselInnhold{Saksbehandler: saksbehandler},
	}
}

// AvsluttRevurderingCommand builds the letter sent when a revision is
// abandoned and the recipient was already notified.
func AvsluttRevurderingCommand(behandlingID, sakID uuid.UUID, saksbehandler, fritekst string) Command {
	return Command{
		SakID:         sakID,
		BehandlingID:  behandlingID,
		Saksbehandler: saksbehandler,
		Type:          TypeInformasjon,
		Tittel:        "Ikke grunnlag for revurdering",
		Innhold:       AvsluttRevurderingInnhold{Saksbehandler: saksbehandler, Fritekst: fritekst},
	}
}
