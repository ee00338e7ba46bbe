package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/beregning"
	"github.com/navikt/supplerende-stonad/grunnlag"
	"github.com/navikt/supplerende-stonad/periode"
	"github.com/navikt/supplerende-stonad/vedtak"
)

// vedtakJSON is the stored decision document.
type vedtakJSON struct {
	ID            uuid.UUID              `json:"id"`
	Opprettet     time.Time              `json:"opprettet"`
	SakID         uuid.UUID              `json:"sakId"`
	BehandlingID  uuid.UUID              `json:"behandlingId"`
	Periode       periode.Periode        `json:"periode"`
	Type          vedtak.Vedtakstype     `json:"type"`
	Saksbehandler string                 `json:"saksbehandler"`
	Attestant     string                 `json:"attestant"`
	Grunnlagsdata grunnlag.Grunnlagsdata `json:"grunnlagsdata"`
	Vilkar        vilkarJSON             `json:"vilkarsvurderinger"`
	Beregning     *beregning.Beregning   `json:"beregning,omitempty"`
}

func tilVedtakJSON(v vedtak.Vedtak) vedtakJSON {
	return vedtakJSON{
		ID:            v.ID,
		Opprettet:     v.Opprettet,
		SakID:         v.SakID,
		BehandlingID:  v.BehandlingID,
		Periode:       v.Periode,
		Type:          v.Type,
		Saksbehandler: v.Saksbehandler,
		Attestant:     v.Attestant,
		Grunnlagsdata: v.Grunnlagsdata,
		Vilkar:        tilVilkarJSON(v.Vilkarsvurderinger),
		Beregning:     v.Beregning,
	}
}

func fraVedtakJSON(d vedtakJSON) (vedtak.Vedtak, error) {
	vurderinger, err := fraVilkarJSON(d.Vilkar)
	if err != nil {
		return vedtak.Vedtak{}, err
	}
	return vedtak.Vedtak{
		ID:                 d.ID,
		Opprettet:          d.Opprettet,
		SakID:              d.SakID,
		BehandlingID:       d.BehandlingID,
		Periode:            d.Periode,
		Type:               d.Type,
		Saksbehandler:      d.Saksbehandler,
		Attestant:          d.Attestant,
		Grunnlagsdata:      d.Grunnlagsdata,
		Vilkarsvurderinger: vurderinger,
		Beregning:          d.Beregning,
	}, nil
}

// VedtakRepo implements revurdering.VedtakRepo on the shared store.
type VedtakRepo struct {
	store *Store
}

// Vedtak returns the decision repository.
func (s *Store) Vedtak() *VedtakRepo {
	return &VedtakRepo{store: s}
}

// Lagre appends one decision. The history is immutable, so a duplicate id
// is an error rather than an overwrite.
func (r *VedtakRepo) Lagre(ctx context.Context, v vedtak.Vedtak) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := json.Marshal(tilVedtakJSON(v))
	if err != nil {
		return fmt.Errorf("kunne ikke serialisere vedtak: %w", err)
	}

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vedtak (id, sak_id, behandling_id, vedtakstype, opprettet, fra_og_med, til_og_med, data_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID.String(),
			v.SakID.String(),
			v.BehandlingID.String(),
			string(v.Type),
			v.Opprettet.UTC().Format(time.RFC3339Nano),
			v.Periode.ForsteManed().String(),
			v.Periode.SisteManed().String(),
			string(data),
		)
		return err
	})
}

// HentForSak returns the case's full decision history, oldest first.
func (r *VedtakRepo) HentForSak(ctx context.Context, sakID uuid.UUID) ([]vedtak.Vedtak, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT data_json FROM vedtak WHERE sak_id = ? ORDER BY opprettet ASC`,
		sakID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke hente vedtak for sak: %w", err)
	}
	defer rows.Close()

	var historikk []vedtak.Vedtak
	for rows.Next() {
		var dataJSON string
		if err := rows.Scan(&dataJSON); err != nil {
			return nil, err
		}
		var d vedtakJSON
		if err := json.Unmarshal([]byte(dataJSON), &d); err != nil {
			return nil, fmt.Errorf("kunne ikke deserialisere vedtak: %w", err)
		}
		v, err := fraVedtakJSON(d)
		if err != nil {
			return nil, err
		}
		historikk = append(historikk, v)
	}
	return historikk, rows.Err()
}
