package meta

import "fmt"

// RealizationKind classifies a realization's physical structure.
// The set of kinds is closed; priority ranking lives in KindPriority.
type RealizationKind string

const (
	// KindHybrid is a composite over several underlying structures.
	KindHybrid RealizationKind = "hybrid"
	// KindCube is a fully materialized pre-aggregated cube.
	KindCube RealizationKind = "cube"
	// KindRawTable answers queries by scanning an indexed raw table.
	KindRawTable RealizationKind = "raw_table"
)

// kindPriorities is the static total order over realization kinds.
// Lower outranks higher; a materialized cube always beats a raw table.
var kindPriorities = map[RealizationKind]int{
	KindHybrid:   0,
	KindCube:     1,
	KindRawTable: 2,
}

// ValidRealizationKind reports whether k is a recognized kind.
func ValidRealizationKind(k RealizationKind) bool {
	_, ok := kindPriorities[k]
	return ok
}

// KindPriority returns the static priority for a kind. Unknown kinds sort
// last so a misconfigured catalog entry can never outrank a valid one.
func KindPriority(k RealizationKind) int {
	if p, ok := kindPriorities[k]; ok {
		return p
	}
	return len(kindPriorities)
}

// Realization is a physical pre-aggregated structure belonging to exactly
// one model. Realizations are registered by the catalog and read-only from
// the routing core's perspective.
//
// InnerJoins is the inner-join count of the owning model, denormalized
// onto the realization when the catalog snapshot is built so cost ranking
// needs no model lookup.
type Realization struct {
	Name       string          `json:"name"`
	ModelName  string          `json:"model"`
	Kind       RealizationKind `json:"kind"`
	Ready      bool            `json:"ready"`
	Columns    []ColumnID      `json:"columns"` // physical columns covered
	Dimensions int             `json:"dimensions"`
	Measures   int             `json:"measures"`
	InnerJoins int             `json:"inner_joins"`
}

// String returns "name(kind)" for diagnostics.
func (r *Realization) String() string {
	return fmt.Sprintf("%s(%s)", r.Name, r.Kind)
}

// CoversColumn reports whether the realization physically covers col.
// Linear scan on purpose: realizations are shared read-only across
// concurrent routings, so no lazily built index may be attached here.
func (r *Realization) CoversColumn(col ColumnID) bool {
	for _, c := range r.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// CoversAll reports whether every column in cols is covered.
func (r *Realization) CoversAll(cols []ColumnID) bool {
	if len(cols) == 0 {
		return true
	}
	set := make(map[ColumnID]struct{}, len(r.Columns))
	for _, c := range r.Columns {
		set[c] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := set[c]; !ok {
			return false
		}
	}
	return true
}
