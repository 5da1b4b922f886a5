package store

import (
	"context"
	"fmt"

	"github.com/cubera-io/cubera/internal/meta"
)

// SaveCatalog replaces a project's stored catalog with the given models
// and realizations in one transaction. Readers holding an already-loaded
// snapshot are unaffected; the next LoadSnapshot sees the new contents.
func (s *Store) SaveCatalog(ctx context.Context, project string, models []*meta.DataModel, realizations []*meta.Realization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save catalog: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE project = ?`, project); err != nil {
		return fmt.Errorf("save catalog: clear models: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM realizations WHERE project = ?`, project); err != nil {
		return fmt.Errorf("save catalog: clear realizations: %w", err)
	}

	for _, m := range models {
		payload, err := marshalModel(m)
		if err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
		fingerprint, err := meta.ModelFingerprint(m)
		if err != nil {
			return fmt.Errorf("save catalog: fingerprint model %s: %w", m.Name(), err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO models (project, name, payload, fingerprint)
			VALUES (?, ?, ?, ?)
		`, project, m.Name(), payload, fingerprint)
		if err != nil {
			return fmt.Errorf("save catalog: insert model %s: %w", m.Name(), err)
		}
	}

	for _, r := range realizations {
		payload, err := marshalRealization(r)
		if err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
		fingerprint, err := meta.RealizationFingerprint(r)
		if err != nil {
			return fmt.Errorf("save catalog: fingerprint realization %s: %w", r.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO realizations (project, name, model, payload, fingerprint)
			VALUES (?, ?, ?, ?, ?)
		`, project, r.Name, r.ModelName, payload, fingerprint)
		if err != nil {
			return fmt.Errorf("save catalog: insert realization %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save catalog: commit: %w", err)
	}
	return nil
}

// SetReady flips a stored realization's ready flag in place, rewriting
// the payload and fingerprint. Returns an error when the realization
// does not exist.
func (s *Store) SetReady(ctx context.Context, project, name string, ready bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set ready: begin tx: %w", err)
	}
	defer tx.Rollback()

	var payload string
	err = tx.QueryRowContext(ctx, `
		SELECT payload FROM realizations WHERE project = ? AND name = ?
	`, project, name).Scan(&payload)
	if err != nil {
		return fmt.Errorf("set ready: realization %s/%s: %w", project, name, err)
	}

	r, err := unmarshalRealization(payload)
	if err != nil {
		return fmt.Errorf("set ready: %w", err)
	}
	r.Ready = ready

	newPayload, err := marshalRealization(r)
	if err != nil {
		return fmt.Errorf("set ready: %w", err)
	}
	fingerprint, err := meta.RealizationFingerprint(r)
	if err != nil {
		return fmt.Errorf("set ready: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE realizations SET payload = ?, fingerprint = ?
		WHERE project = ? AND name = ?
	`, newPayload, fingerprint, project, name)
	if err != nil {
		return fmt.Errorf("set ready: update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set ready: commit: %w", err)
	}
	return nil
}

// DeleteProject removes every stored definition of a project.
func (s *Store) DeleteProject(ctx context.Context, project string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete project: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE project = ?`, project); err != nil {
		return fmt.Errorf("delete project: models: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM realizations WHERE project = ?`, project); err != nil {
		return fmt.Errorf("delete project: realizations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete project: commit: %w", err)
	}
	return nil
}
