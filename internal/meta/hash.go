package meta

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed fingerprints. The version suffix
// leaves room for future algorithm migration.
const (
	DomainModel       = "cubera/model/v1"
	DomainRealization = "cubera/realization/v1"
	DomainSnapshot    = "cubera/snapshot/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModelFingerprint computes the content-addressed fingerprint of a model.
// The fingerprint is stable across process restarts for identical
// definitions: the same tables, columns, and joins always hash the same.
func ModelFingerprint(m *DataModel) (string, error) {
	tables := make([]any, len(m.tables))
	for i, t := range m.tables {
		cols := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			cols[j] = map[string]any{"name": c.Name, "type": c.Type}
		}
		tables[i] = map[string]any{
			"alias":   t.Ref.Alias,
			"table":   t.Ref.Table,
			"columns": cols,
			"lookup":  t.Lookup,
		}
	}
	joins := make([]any, len(m.joins))
	for i, j := range m.joins {
		keys := make([]any, len(j.Keys))
		for k, p := range j.sortedKeys() {
			keys[k] = map[string]any{"child": p.ChildColumn, "parent": p.ParentColumn}
		}
		joins[i] = map[string]any{
			"kind":   string(j.Kind),
			"child":  j.ChildAlias,
			"parent": j.ParentAlias,
			"keys":   keys,
		}
	}
	obj := map[string]any{
		"name":   m.name,
		"fact":   map[string]any{"alias": m.fact.Alias, "table": m.fact.Table},
		"tables": tables,
		"joins":  joins,
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainModel, data), nil
}

// RealizationFingerprint computes the content-addressed fingerprint of a
// realization definition.
func RealizationFingerprint(r *Realization) (string, error) {
	cols := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = c.String()
	}
	obj := map[string]any{
		"name":        r.Name,
		"model":       r.ModelName,
		"kind":        string(r.Kind),
		"ready":       r.Ready,
		"columns":     cols,
		"dimensions":  r.Dimensions,
		"measures":    r.Measures,
		"inner_joins": r.InnerJoins,
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainRealization, data), nil
}

// SnapshotFingerprint folds the per-object fingerprints into one snapshot
// identity. The inputs must already be sorted; catalog snapshot building
// passes model then realization fingerprints in name order.
func SnapshotFingerprint(fingerprints []string) (string, error) {
	arr := make([]any, len(fingerprints))
	for i, f := range fingerprints {
		arr[i] = f
	}
	data, err := MarshalCanonical(arr)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainSnapshot, data), nil
}
