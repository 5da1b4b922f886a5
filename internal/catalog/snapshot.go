package catalog

import (
	"fmt"
	"sort"

	"github.com/cubera-io/cubera/internal/meta"
)

// Snapshot is one immutable version of the catalog: all models and
// realizations, indexed for routing lookups.
type Snapshot struct {
	fingerprint  string
	models       map[string]*meta.DataModel
	realizations map[string]*meta.Realization
	byTable      map[string][]*meta.Realization // physical table -> realizations, sorted by name
}

// Build validates definitions and assembles an immutable snapshot.
//
// Validation:
//   - model names and realization names are unique,
//   - every realization references a registered model,
//   - every covered column exists in the owning model's canonical schema.
//
// Build also denormalizes each realization's owning-model inner-join count
// onto the realization, so cost ranking later needs no model lookup. The
// input realizations are copied, never mutated.
//
// Realizations are indexed under every physical table of their owning
// model, not only the fact table: a standalone lookup table must surface
// the realizations that can answer single-table queries against it.
func Build(models []*meta.DataModel, realizations []*meta.Realization) (*Snapshot, error) {
	modelIdx := make(map[string]*meta.DataModel, len(models))
	for _, m := range models {
		if _, dup := modelIdx[m.Name()]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.Name())
		}
		modelIdx[m.Name()] = m
	}

	realIdx := make(map[string]*meta.Realization, len(realizations))
	byTable := make(map[string][]*meta.Realization)
	for _, in := range realizations {
		if _, dup := realIdx[in.Name]; dup {
			return nil, fmt.Errorf("duplicate realization %q", in.Name)
		}
		model, ok := modelIdx[in.ModelName]
		if !ok {
			return nil, fmt.Errorf("realization %q references unknown model %q", in.Name, in.ModelName)
		}
		if !meta.ValidRealizationKind(in.Kind) {
			return nil, fmt.Errorf("realization %q has unknown kind %q", in.Name, in.Kind)
		}
		for _, col := range in.Columns {
			if !model.ContainsColumn(col) {
				return nil, fmt.Errorf("realization %q covers column %s not in model %q", in.Name, col, in.ModelName)
			}
		}

		r := *in
		r.InnerJoins = model.InnerJoinCount()
		realIdx[r.Name] = &r

		seen := make(map[string]bool)
		for _, t := range model.Tables() {
			if seen[t.Ref.Table] {
				continue
			}
			seen[t.Ref.Table] = true
			byTable[t.Ref.Table] = append(byTable[t.Ref.Table], &r)
		}
	}

	for table := range byTable {
		sort.Slice(byTable[table], func(a, b int) bool {
			return byTable[table][a].Name < byTable[table][b].Name
		})
	}

	fingerprint, err := computeFingerprint(modelIdx, realIdx)
	if err != nil {
		return nil, fmt.Errorf("snapshot fingerprint: %w", err)
	}

	return &Snapshot{
		fingerprint:  fingerprint,
		models:       modelIdx,
		realizations: realIdx,
		byTable:      byTable,
	}, nil
}

func computeFingerprint(models map[string]*meta.DataModel, realizations map[string]*meta.Realization) (string, error) {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)

	var fps []string
	for _, name := range names {
		fp, err := meta.ModelFingerprint(models[name])
		if err != nil {
			return "", err
		}
		fps = append(fps, fp)
	}

	names = names[:0]
	for name := range realizations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fp, err := meta.RealizationFingerprint(realizations[name])
		if err != nil {
			return "", err
		}
		fps = append(fps, fp)
	}

	return meta.SnapshotFingerprint(fps)
}

// Fingerprint returns the snapshot's content-addressed identity.
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}

// Model returns a model by name.
func (s *Snapshot) Model(name string) (*meta.DataModel, bool) {
	m, ok := s.models[name]
	return m, ok
}

// ModelNames returns all model names sorted.
func (s *Snapshot) ModelNames() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Realization returns a realization by name.
func (s *Snapshot) Realization(name string) (*meta.Realization, bool) {
	r, ok := s.realizations[name]
	return r, ok
}

// RealizationNames returns all realization names sorted.
func (s *Snapshot) RealizationNames() []string {
	names := make([]string, 0, len(s.realizations))
	for name := range s.realizations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RealizationsForTable returns the realizations whose owning model touches
// the physical table, sorted by realization name. The returned slice is a
// copy; callers may filter it freely.
func (s *Snapshot) RealizationsForTable(table string) []*meta.Realization {
	found := s.byTable[table]
	out := make([]*meta.Realization, len(found))
	copy(out, found)
	return out
}
