package store

import (
	"context"
	"fmt"

	"github.com/cubera-io/cubera/internal/catalog"
	"github.com/cubera-io/cubera/internal/meta"
)

// LoadCatalog returns a project's stored models and realizations.
// Results are ordered deterministically: ORDER BY name COLLATE BINARY.
//
// Returns empty slices (not nil) if the project has no definitions.
func (s *Store) LoadCatalog(ctx context.Context, project string) ([]*meta.DataModel, []*meta.Realization, error) {
	models, err := s.readModels(ctx, project)
	if err != nil {
		return nil, nil, err
	}

	realizations, err := s.readRealizations(ctx, project)
	if err != nil {
		return nil, nil, err
	}

	return models, realizations, nil
}

// LoadSnapshot loads a project's catalog and builds an immutable snapshot
// from it. Loading the same stored state twice yields snapshots with the
// same fingerprint.
func (s *Store) LoadSnapshot(ctx context.Context, project string) (*catalog.Snapshot, error) {
	models, realizations, err := s.LoadCatalog(ctx, project)
	if err != nil {
		return nil, err
	}
	snap, err := catalog.Build(models, realizations)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", project, err)
	}
	return snap, nil
}

func (s *Store) readModels(ctx context.Context, project string) ([]*meta.DataModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM models
		WHERE project = ?
		ORDER BY name COLLATE BINARY ASC
	`, project)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	models := []*meta.DataModel{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		model, err := unmarshalModel(payload)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, rows.Err()
}

func (s *Store) readRealizations(ctx context.Context, project string) ([]*meta.Realization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM realizations
		WHERE project = ?
		ORDER BY name COLLATE BINARY ASC
	`, project)
	if err != nil {
		return nil, fmt.Errorf("query realizations: %w", err)
	}
	defer rows.Close()

	realizations := []*meta.Realization{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan realization: %w", err)
		}
		r, err := unmarshalRealization(payload)
		if err != nil {
			return nil, err
		}
		realizations = append(realizations, r)
	}
	return realizations, rows.Err()
}
