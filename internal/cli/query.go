package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
)

// QueryFile is the YAML shape of a routable query batch.
type QueryFile struct {
	Project string      `yaml:"project"`
	Queries []QuerySpec `yaml:"queries"`
}

// QuerySpec describes one query: its table scans, join shape, and the
// columns it references. The first scan anchors candidate lookup.
type QuerySpec struct {
	ID      string     `yaml:"id"`
	Scans   []ScanSpec `yaml:"scans"`
	Joins   []JoinSpec `yaml:"joins"`
	Columns []string   `yaml:"columns"`
}

// ScanSpec describes one table scan.
type ScanSpec struct {
	Alias   string       `yaml:"alias"`
	Table   string       `yaml:"table"`
	Columns []ColumnSpec `yaml:"columns"`
}

// ColumnSpec is one column of a scan's row type.
type ColumnSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// JoinSpec describes one join edge of the query.
type JoinSpec struct {
	Kind   string    `yaml:"kind"`
	Child  string    `yaml:"child"`
	Parent string    `yaml:"parent"`
	On     []KeySpec `yaml:"on"`
}

// KeySpec is one equi-join key pair.
type KeySpec struct {
	Child  string `yaml:"child"`
	Parent string `yaml:"parent"`
}

// BlackoutConfig lists realizations excluded from routing.
type BlackoutConfig struct {
	Blackout []string `yaml:"blackout"`
}

// LoadQueryFile reads and parses a YAML query batch. Queries without an
// explicit id get one from the generator.
func LoadQueryFile(path string, ids query.IDGenerator) (string, []*query.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("reading query file: %v", err)}
	}

	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return "", nil, &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("parsing query file: %v", err)}
	}
	if len(qf.Queries) == 0 {
		return "", nil, &LoadError{Code: ErrCodeQueryFile, Message: "query file declares no queries"}
	}
	if qf.Project == "" {
		qf.Project = "default"
	}

	contexts := make([]*query.Context, 0, len(qf.Queries))
	for i, qs := range qf.Queries {
		qc, err := buildContext(qf.Project, qs, ids)
		if err != nil {
			return "", nil, &LoadError{Code: ErrCodeQueryFile, Message: fmt.Sprintf("query[%d]: %v", i, err)}
		}
		contexts = append(contexts, qc)
	}

	return qf.Project, contexts, nil
}

func buildContext(project string, qs QuerySpec, ids query.IDGenerator) (*query.Context, error) {
	if len(qs.Scans) == 0 {
		return nil, fmt.Errorf("query declares no scans")
	}

	id := qs.ID
	if id == "" {
		id = ids.Generate()
	}

	scans := make([]*query.TableScan, 0, len(qs.Scans))
	for _, ss := range qs.Scans {
		cols := make([]meta.ColumnMeta, 0, len(ss.Columns))
		for _, c := range ss.Columns {
			cols = append(cols, meta.ColumnMeta{Name: c.Name, Type: c.Type})
		}
		scans = append(scans, &query.TableScan{Alias: ss.Alias, Table: ss.Table, RowType: cols})
	}

	joins := make([]meta.JoinDesc, 0, len(qs.Joins))
	for _, js := range qs.Joins {
		keys := make([]meta.JoinKey, 0, len(js.On))
		for _, k := range js.On {
			keys = append(keys, meta.JoinKey{ChildColumn: k.Child, ParentColumn: k.Parent})
		}
		joins = append(joins, meta.JoinDesc{
			Kind:        meta.JoinKind(js.Kind),
			ChildAlias:  js.Child,
			ParentAlias: js.Parent,
			Keys:        keys,
		})
	}

	columns := make([]meta.ColumnID, 0, len(qs.Columns))
	for _, c := range qs.Columns {
		col, err := meta.ParseColumnID(c)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	qc := &query.Context{
		ID:        id,
		Project:   project,
		FirstScan: scans[0],
		Scans:     scans,
		Joins:     joins,
		Columns:   columns,
	}
	if err := qc.Validate(); err != nil {
		return nil, err
	}
	return qc, nil
}

// LoadBlackoutConfig reads the optional blackout YAML. An empty path
// yields an empty deny list.
func LoadBlackoutConfig(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading blackout config: %v", err)}
	}
	var cfg BlackoutConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("parsing blackout config: %v", err)}
	}
	return cfg.Blackout, nil
}
