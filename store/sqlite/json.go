package sqlite

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/revurdering"
	"github.com/navikt/supplerende-stonad/simulering"
	"github.com/navikt/supplerende-stonad/tilbakekreving"
	"github.com/navikt/supplerende-stonad/vilkar"
)

// =============================================================================
// VILKÅR
// =============================================================================

// vilkarJSON stores only the assessed condition types; the rest rehydrate
// as uavklart for the same period.
type vilkarJSON struct {
	Periode  periode.Periode     `json:"periode"`
	Vurderte []vurdertVilkarJSON `json:"vurderte"`
}

type vurdertVilkarJSON struct {
	Type        vilkar.Vilkartype          `json:"type"`
	Vurderinger []vilkar.Vurderingsperiode `json:"vurderinger"`
}

func tilVilkarJSON(v vilkar.Vilkarsvurderinger) vilkarJSON {
	d := vilkarJSON{Periode: v.Periode}
	for _, t := range vilkar.AlleVilkartyper {
		vurdering := v.Vilkar(t)
		if !vurdering.ErVurdert() {
			continue
		}
		d.Vurderte = append(d.Vurderte, vurdertVilkarJSON{
			Type:        t,
			Vurderinger: vurdering.Vurderinger,
		})
	}
	return d
}

func fraVilkarJSON(d vilkarJSON) (vilkar.Vilkarsvurderinger, error) {
	v := vilkar.IkkeVurderteVilkar(d.Periode)
	for _, vurdert := range d.Vurderte {
		vurdering, err := vilkar.NyVurdertVilkar(vurdert.Type, vurdert.Vurderinger)
		if err != nil {
			return vilkar.Vilkarsvurderinger{}, err
		}
		v, err = v.Oppdater(vurdering)
		if err != nil {
			return vilkar.Vilkarsvurderinger{}, err
		}
	}
	return v, nil
}

// =============================================================================
// REVURDERING
// =============================================================================

// revurderingJSON is the stored aggregate document. The tilstand column
// decides which optional sections are read back.
type revurderingJSON struct {
	ID             uuid.UUID                            `json:"id"`
	SakID          uuid.UUID                            `json:"sakId"`
	Opprettet      time.Time                            `json:"opprettet"`
	Periode        periode.Periode                      `json:"periode"`
	TilRevurdering uuid.UUID                            `json:"tilRevurdering"`
	Saksbehandler  string                               `json:"saksbehandler"`
	Arsak          revurdering.Revurderingsarsak        `json:"arsak"`
	Informasjon    revurdering.InformasjonSomRevurderes `json:"informasjonSomRevurderes"`
	Grunnlagsdata  grunnlag.Grunnlagsdata               `json:"grunnlagsdata"`
	Vilkar         vilkarJSON                           `json:"vilkarsvurderinger"`
	Forhandsvarsel *revurdering.Forhandsvarsel          `json:"forhandsvarsel,omitempty"`
	Attesteringer  []revurdering.Attestering            `json:"attesteringer,omitempty"`

	// beregnet og senere
	Utfall              beregning.Utfall          `json:"utfall,omitempty"`
	Beregning           *beregning.Beregning      `json:"beregning,omitempty"`
	GjeldendeManedBelop []beregning.ManedBelop    `json:"gjeldendeManedBelop,omitempty"`
	Feilmeldinger       []beregning.Feilmelding   `json:"feilmeldinger,omitempty"`
	Varselmeldinger     []beregning.Varselmelding `json:"varselmeldinger,omitempty"`

	// simulert og senere
	Simulering     *simulering.Simulering     `json:"simulering,omitempty"`
	Tilbakekreving *tilbakekreving.Behandling `json:"tilbakekreving,omitempty"`

	// til attestering og senere
	OppgaveID string `json:"oppgaveId,omitempty"`

	// iverksatt
	Attestant          string     `json:"attestant,omitempty"`
	IverksattTidspunkt *time.Time `json:"iverksattTidspunkt,omitempty"`

	// avsluttet
	Avsluttet *avsluttetJSON `json:"avsluttet,omitempty"`
}

type avsluttetJSON struct {
	UnderliggendeTilstand revurdering.Tilstand `json:"underliggendeTilstand"`
	Begrunnelse           string               `json:"begrunnelse"`
	Brevvalg              revurdering.Brevvalg `json:"brevvalg"`
	TidspunktAvsluttet    time.Time            `json:"tidspunktAvsluttet"`
}

func serialiserRevurdering(r revurdering.Revurdering) ([]byte, error) {
	return json.Marshal(tilRevurderingJSON(r))
}

func deserialiserRevurdering(tilstand revurdering.Tilstand, data []byte) (revurdering.Revurdering, error) {
	var d revurderingJSON
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return fraRevurderingJSON(tilstand, d)
}

func tilRevurderingJSON(r revurdering.Revurdering) revurderingJSON {
	info := r.Info()
	d := revurderingJSON{
		ID:             info.ID,
		SakID:          info.SakID,
		Opprettet:      info.Opprettet,
		Periode:        info.Periode,
		TilRevurdering: info.TilRevurdering,
		Saksbehandler:  info.Saksbehandler,
		Arsak:          info.Arsak,
		Informasjon:    info.Informasjon,
		Grunnlagsdata:  info.Grunnlagsdata,
		Vilkar:         tilVilkarJSON(info.Vilkarsvurderinger),
		Forhandsvarsel: info.Forhandsvarsel,
		Attesteringer:  info.Attesteringer,
	}

	avsluttet, erAvsluttet := r.(revurdering.Avsluttet)
	if erAvsluttet {
		d.Avsluttet = &avsluttetJSON{
			UnderliggendeTilstand: avsluttet.Underliggende.Tilstand(),
			Begrunnelse:           avsluttet.Begrunnelse,
			Brevvalg:              avsluttet.Brevvalg,
			TidspunktAvsluttet:    avsluttet.TidspunktAvsluttet,
		}
		r = avsluttet.Underliggende
	}

	if beregnet, ok := somBeregnet(r); ok {
		d.Utfall = beregnet.Utfall
		b := beregnet.Beregning
		d.Beregning = &b
		d.GjeldendeManedBelop = beregnet.GjeldendeManedBelop
		d.Feilmeldinger = beregnet.Feilmeldinger
		d.Varselmeldinger = beregnet.Varselmeldinger
	}
	if simulert, ok := somSimulert(r); ok {
		s := simulert.Simulering
		d.Simulering = &s
		d.Tilbakekreving = simulert.Tilbakekreving
	}
	if tilAttestering, ok := somTilAttestering(r); ok {
		d.OppgaveID = tilAttestering.OppgaveID
	}
	if iverksatt, ok := r.(revurdering.Iverksatt); ok {
		d.Attestant = iverksatt.Attestant
		t := iverksatt.IverksattTidspunkt
		d.IverksattTidspunkt = &t
	}
	return d
}

func somBeregnet(r revurdering.Revurdering) (revurdering.Beregnet, bool) {
	switch v := r.(type) {
	case revurdering.Beregnet:
		return v, true
	case revurdering.Simulert:
		return v.Beregnet, true
	case revurdering.TilAttestering:
		return v.Beregnet, true
	case revurdering.Iverksatt:
		return v.Beregnet, true
	case revurdering.Underkjent:
		return v.Beregnet, true
	}
	return revurdering.Beregnet{}, false
}

func somSimulert(r revurdering.Revurdering) (revurdering.Simulert, bool) {
	switch v := r.(type) {
	case revurdering.Simulert:
		return v, true
	case revurdering.TilAttestering:
		return v.Simulert, true
	case revurdering.Iverksatt:
		return v.Simulert, true
	case revurdering.Underkjent:
		return v.Simulert, true
	}
	return revurdering.Simulert{}, false
}

func somTilAttestering(r revurdering.Revurdering) (revurdering.TilAttestering, bool) {
	switch v := r.(type) {
	case revurdering.TilAttestering:
		return v, true
	case revurdering.Iverksatt:
		return v.TilAttestering, true
	case revurdering.Underkjent:
		return v.TilAttestering, true
	}
	return revurdering.TilAttestering{}, false
}

func fraRevurderingJSON(tilstand revurdering.Tilstand, d revurderingJSON) (revurdering.Revurdering, error) {
	vurderinger, err := fraVilkarJSON(d.Vilkar)
	if err != nil {
		return nil, err
	}

	opprettet := revurdering.Opprettet{Grunninformasjon: revurdering.Grunninformasjon{
		ID:                 d.ID,
		SakID:              d.SakID,
		Opprettet:          d.Opprettet,
		Periode:            d.Periode,
		TilRevurdering:     d.TilRevurdering,
		Saksbehandler:      d.Saksbehandler,
		Arsak:              d.Arsak,
		Informasjon:        d.Informasjon,
		Grunnlagsdata:      d.Grunnlagsdata,
		Vilkarsvurderinger: vurderinger,
		Forhandsvarsel:     d.Forhandsvarsel,
		Attesteringer:      d.Attesteringer,
	}}

	underliggende := tilstand
	if tilstand == revurdering.TilstandAvsluttet {
		if d.Avsluttet == nil {
			return nil, errKorruptAggregat(d.ID, "avsluttet uten avslutningsdata")
		}
		underliggende = d.Avsluttet.UnderliggendeTilstand
	}

	var r revurdering.Revurdering
	switch underliggende {
	case revurdering.TilstandOpprettet:
		r = opprettet
	case revurdering.TilstandBeregnet:
		beregnet, err := beregnetFra(opprettet, d)
		if err != nil {
			return nil, err
		}
		r = beregnet
	case revurdering.TilstandSimulert:
		simulert, err := simulertFra(opprettet, d)
		if err != nil {
			return nil, err
		}
		r = simulert
	case revurdering.TilstandTilAttestering:
		tilAttestering, err := tilAttesteringFra(opprettet, d)
		if err != nil {
			return nil, err
		}
		r = tilAttestering
	case revurdering.TilstandUnderkjent:
		tilAttestering, err := tilAttesteringFra(opprettet, d)
		if err != nil {
			return nil, err
		}
		r = revurdering.Underkjent{TilAttestering: tilAttestering}
	case revurdering.TilstandIverksatt:
		tilAttestering, err := tilAttesteringFra(opprettet, d)
		if err != nil {
			return nil, err
		}
		if d.IverksattTidspunkt == nil {
			return nil, errKorruptAggregat(d.ID, "iverksatt uten tidspunkt")
		}
		r = revurdering.Iverksatt{
			TilAttestering:     tilAttestering,
			Attestant:          d.Attestant,
			IverksattTidspunkt: *d.IverksattTidspunkt,
		}
	default:
		return nil, errKorruptAggregat(d.ID, "ukjent tilstand "+string(underliggende))
	}

	if tilstand == revurdering.TilstandAvsluttet {
		return revurdering.Avsluttet{
			Underliggende:      r,
			Begrunnelse:        d.Avsluttet.Begrunnelse,
			Brevvalg:           d.Avsluttet.Brevvalg,
			TidspunktAvsluttet: d.Avsluttet.TidspunktAvsluttet,
		}, nil
	}
	return r, nil
}

func beregnetFra(opprettet revurdering.Opprettet, d revurderingJSON) (revurdering.Beregnet, error) {
	if d.Beregning == nil {
		return revurdering.Beregnet{}, errKorruptAggregat(d.ID, "beregnet uten beregning")
	}
	return revurdering.Beregnet{
		Opprettet:           opprettet,
		Utfall:              d.Utfall,
		Beregning:           *d.Beregning,
		GjeldendeManedBelop: d.GjeldendeManedBelop,
		Feilmeldinger:       d.Feilmeldinger,
		Varselmeldinger:     d.Varselmeldinger,
	}, nil
}

func simulertFra(opprettet revurdering.Opprettet, d revurderingJSON) (revurdering.Simulert, error) {
	beregnet, err := beregnetFra(opprettet, d)
	if err != nil {
		return revurdering.Simulert{}, err
	}
	if d.Simulering == nil {
		return revurdering.Simulert{}, errKorruptAggregat(d.ID, "simulert uten simulering")
	}
	return revurdering.Simulert{
		Beregnet:       beregnet,
		Simulering:     *d.Simulering,
		Tilbakekreving: d.Tilbakekreving,
	}, nil
}

func tilAttesteringFra(opprettet revurdering.Opprettet, d revurderingJSON) (revurdering.TilAttestering, error) {
	simulert, err := simulertFra(opprettet, d)
	if err != nil {
		return revurdering.TilAttestering{}, err
	}
	return revurdering.TilAttestering{Simulert: simulert, OppgaveID: d.OppgaveID}, nil
}
