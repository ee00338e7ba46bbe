package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/supplerende-stonad/dokument"
)

// DokumentRepo archives generated correspondence.
type DokumentRepo struct {
	store *Store
}

// Dokumenter returns the document archive.
func (s *Store) Dokumenter() *DokumentRepo {
	return &DokumentRepo{store: s}
}

// Lagre archives one generated document.
func (r *DokumentRepo) Lagre(ctx context.Context, d dokument.Dokument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dokumenter (id, sak_id, behandling_id, dokumenttype, tittel, opprettet, generert_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID.String(),
			d.SakID.String(),
			d.BehandlingID.String(),
			string(d.Type),
			d.Tittel,
			d.Opprettet.UTC().Format(time.RFC3339Nano),
			string(d.GenerertJSON),
		)
		return err
	})
}

// HentForSak lists the case's archived documents, oldest first.
func (r *DokumentRepo) HentForSak(ctx context.Context, sakID uuid.UUID) ([]dokument.Dokument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, sak_id, behandling_id, dokumenttype, tittel, opprettet, generert_json
		 FROM dokumenter WHERE sak_id = ? ORDER BY opprettet ASC`,
		sakID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke hente dokumenter for sak: %w", err)
	}
	defer rows.Close()

	var dokumenter []dokument.Dokument
	for rows.Next() {
		d, err := skannDokument(rows)
		if err != nil {
			return nil, err
		}
		dokumenter = append(dokumenter, d)
	}
	return dokumenter, rows.Err()
}

func skannDokument(rows *sql.Rows) (dokument.Dokument, error) {
	var (
		id, sakID, behandlingID string
		dokumenttype, tittel    string
		opprettet, generert     string
	)
	if err := rows.Scan(&id, &sakID, &behandlingID, &dokumenttype, &tittel, &opprettet, &generert); err != nil {
		return dokument.Dokument{}, err
	}

	parsetID, err := uuid.Parse(id)
	if err != nil {
		return dokument.Dokument{}, fmt.Errorf("ugyldig dokument-id %q: %w", id, err)
	}
	parsetSakID, err := uuid.Parse(sakID)
	if err != nil {
		return dokument.Dokument{}, fmt.Errorf("ugyldig sak-id %q: %w", sakID, err)
	}
	parsetBehandlingID, err := uuid.Parse(behandlingID)
	if err != nil {
		return dokument.Dokument{}, fmt.Errorf("ugyldig behandling-id %q: %w", behandlingID, err)
	}
	tidspunkt, err := time.Parse(time.RFC3339Nano, opprettet)
	if err != nil {
		return dokument.Dokument{}, fmt.Errorf("ugyldig tidspunkt %q: %w", opprettet, err)
	}

	return dokument.Dokument{
		ID:           parsetID,
		Opprettet:    tidspunkt,
		SakID:        parsetSakID,
		BehandlingID: parsetBehandlingID,
		Type:         dokument.Dokumenttype(dokumenttype),
		Tittel:       tittel,
		GenerertJSON: []byte(generert),
	}, nil
}
