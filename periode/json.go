package periode

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Maned serializes as "yyyy-mm", Periode as its boundary dates. Both shapes
// are part of the stored-aggregate format and must stay stable.

const manedFormat = "2006-01"

func (m Maned) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.FraOgMed().Format(manedFormat) + `"`), nil
}

func (m *Maned) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("ugyldig måned: %s", s)
	}
	t, err := time.Parse(manedFormat, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("ugyldig måned: %w", err)
	}
	*m = ManedFra(t)
	return nil
}

type periodeJSON struct {
	FraOgMed Maned `json:"fraOgMed"`
	TilOgMed Maned `json:"tilOgMed"`
}

func (p Periode) MarshalJSON() ([]byte, error) {
	fra, _ := p.fra.MarshalJSON()
	til, _ := p.til.MarshalJSON()
	return []byte(`{"fraOgMed":` + string(fra) + `,"tilOgMed":` + string(til) + `}`), nil
}

func (p *Periode) UnmarshalJSON(data []byte) error {
	var rad periodeJSON
	if err := json.Unmarshal(data, &rad); err != nil {
		return err
	}
	ny, err := OverManeder(rad.FraOgMed, rad.TilOgMed)
	if err != nil {
		return err
	}
	*p = ny
	return nil
}
