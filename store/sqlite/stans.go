package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/revurdering"
)

// StansRepo implements revurdering.StansRepo on the shared store. The stans
// and gjenopptak aggregates have exported fields throughout, so they are
// stored as-is without a separate document type. An iverksatt row keeps the
// simulert fields, so HentStans and HentGjenopptak read back either tilstand.
type StansRepo struct {
	store *Store
}

// Stans returns the suspension/resumption repository.
func (s *Store) Stans() *StansRepo {
	return &StansRepo{store: s}
}

func (r *StansRepo) HentStans(ctx context.Context, id uuid.UUID) (revurdering.SimulertStans, error) {
	var stans revurdering.SimulertStans
	if err := r.hent(ctx, "stans", id, &stans); err != nil {
		return revurdering.SimulertStans{}, err
	}
	return stans, nil
}

func (r *StansRepo) LagreStans(ctx context.Context, stans revurdering.SimulertStans) error {
	return r.lagre(ctx, "stans", stans.ID, stans.SakID, stans.Tilstand(), stans.Opprettet, stans)
}

func (r *StansRepo) LagreIverksattStans(ctx context.Context, stans revurdering.IverksattStans) error {
	return r.lagre(ctx, "stans", stans.ID, stans.SakID, stans.Tilstand(), stans.Opprettet, stans)
}

func (r *StansRepo) HentGjenopptak(ctx context.Context, id uuid.UUID) (revurdering.SimulertGjenopptak, error) {
	var gjenopptak revurdering.SimulertGjenopptak
	if err := r.hent(ctx, "gjenopptak", id, &gjenopptak); err != nil {
		return revurdering.SimulertGjenopptak{}, err
	}
	return gjenopptak, nil
}

func (r *StansRepo) LagreGjenopptak(ctx context.Context, gjenopptak revurdering.SimulertGjenopptak) error {
	return r.lagre(ctx, "gjenopptak", gjenopptak.ID, gjenopptak.SakID, gjenopptak.Tilstand(), gjenopptak.Opprettet, gjenopptak)
}

func (r *StansRepo) LagreIverksattGjenopptak(ctx context.Context, gjenopptak revurdering.IverksattGjenopptak) error {
	return r.lagre(ctx, "gjenopptak", gjenopptak.ID, gjenopptak.SakID, gjenopptak.Tilstand(), gjenopptak.Opprettet, gjenopptak)
}

func (r *StansRepo) lagre(
	ctx context.Context,
	tabell string,
	id, sakID uuid.UUID,
	tilstand revurdering.Tilstand,
	opprettet time.Time,
	aggregat any,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := json.Marshal(aggregat)
	if err != nil {
		return fmt.Errorf("kunne ikke serialisere %s: %w", tabell, err)
	}

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO `+tabell+` (id, sak_id, tilstand, opprettet, data_json)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				tilstand = excluded.tilstand,
				data_json = excluded.data_json`,
			id.String(),
			sakID.String(),
			string(tilstand),
			opprettet.UTC().Format(time.RFC3339Nano),
			string(data),
		)
		return err
	})
}

func (r *StansRepo) hent(ctx context.Context, tabell string, id uuid.UUID, mottaker any) error {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var dataJSON string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT data_json FROM `+tabell+` WHERE id = ?`,
		id.String(),
	).Scan(&dataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return revurdering.ErrFantIkkeRevurdering
	}
	if err != nil {
		return fmt.Errorf("kunne ikke hente %s: %w", tabell, err)
	}
	if err := json.Unmarshal([]byte(dataJSON), mottaker); err != nil {
		return fmt.Errorf("kunne ikke deserialisere %s: %w", tabell, err)
	}
	return nil
}
