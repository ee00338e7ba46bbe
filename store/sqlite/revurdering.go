package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/revurdering"
)

func errKorruptAggregat(id uuid.UUID, grunn string) error {
	return fmt.Errorf("korrupt lagret aggregat %s: %s", id, grunn)
}

// RevurderingRepo implements revurdering.Repo on the shared store.
type RevurderingRepo struct {
	store *Store
}

// Revurderinger returns the revision repository.
func (s *Store) Revurderinger() *RevurderingRepo {
	return &RevurderingRepo{store: s}
}

// Lagre upserts the full aggregate. Last write wins.
func (r *RevurderingRepo) Lagre(ctx context.Context, rev revurdering.Revurdering) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := serialiserRevurdering(rev)
	if err != nil {
		return fmt.Errorf("kunne ikke serialisere revurdering: %w", err)
	}
	info := rev.Info()
	na := time.Now().UTC().Format(time.RFC3339Nano)

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO revurderinger (id, sak_id, tilstand, opprettet, oppdatert, data_json)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				tilstand = excluded.tilstand,
				oppdatert = excluded.oppdatert,
				data_json = excluded.data_json`,
			info.ID.String(),
			info.SakID.String(),
			string(rev.Tilstand()),
			info.Opprettet.UTC().Format(time.RFC3339Nano),
			na,
			string(data),
		)
		return err
	})
}

// Hent loads one revision by id.
func (r *RevurderingRepo) Hent(ctx context.Context, id uuid.UUID) (revurdering.Revurdering, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var tilstand, dataJSON string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT tilstand, data_json FROM revurderinger WHERE id = ?`,
		id.String(),
	).Scan(&tilstand, &dataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, revurdering.ErrFantIkkeRevurdering
	}
	if err != nil {
		return nil, fmt.Errorf("kunne ikke hente revurdering: %w", err)
	}
	return deserialiserRevurdering(revurdering.Tilstand(tilstand), []byte(dataJSON))
}

// HentForSak lists the case's revisions, newest first.
func (r *RevurderingRepo) HentForSak(ctx context.Context, sakID uuid.UUID) ([]revurdering.Revurdering, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT tilstand, data_json FROM revurderinger WHERE sak_id = ? ORDER BY opprettet DESC`,
		sakID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke hente revurderinger for sak: %w", err)
	}
	defer rows.Close()

	var resultat []revurdering.Revurdering
	for rows.Next() {
		var tilstand, dataJSON string
		if err := rows.Scan(&tilstand, &dataJSON); err != nil {
			return nil, err
		}
		rev, err := deserialiserRevurdering(revurdering.Tilstand(tilstand), []byte(dataJSON))
		if err != nil {
			return nil, err
		}
		resultat = append(resultat, rev)
	}
	return resultat, rows.Err()
}
