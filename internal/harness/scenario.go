package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one routing conformance case: a catalog, a query, and
// the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the query ID
	// and the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Defs lists paths to CUE catalog definition files. Paths are
	// relative to the scenario file location.
	Defs []string `yaml:"defs"`

	// Blackout lists realizations excluded from routing.
	Blackout []string `yaml:"blackout,omitempty"`

	// Query is the query to route.
	Query QueryStep `yaml:"query"`

	// Expect is the expected routing outcome.
	Expect Expectation `yaml:"expect"`
}

// QueryStep describes the scenario's query: scans, join shape, and
// referenced columns. The first scan anchors candidate lookup.
type QueryStep struct {
	Scans   []ScanStep `yaml:"scans"`
	Joins   []JoinStep `yaml:"joins,omitempty"`
	Columns []string   `yaml:"columns"`
}

// ScanStep is one table scan of the scenario query.
type ScanStep struct {
	Alias   string       `yaml:"alias"`
	Table   string       `yaml:"table"`
	Columns []ColumnStep `yaml:"columns,omitempty"`
}

// ColumnStep is one column of a scan's row type.
type ColumnStep struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// JoinStep is one join edge of the scenario query.
type JoinStep struct {
	Kind   string    `yaml:"kind"`
	Child  string    `yaml:"child"`
	Parent string    `yaml:"parent"`
	On     []KeyStep `yaml:"on"`
}

// KeyStep is one equi-join key pair.
type KeyStep struct {
	Child  string `yaml:"child"`
	Parent string `yaml:"parent"`
}

// Expectation is the expected routing outcome. Either Error is set, or
// Model and Realization are.
type Expectation struct {
	// Model is the expected winning model.
	Model string `yaml:"model,omitempty"`

	// Realization is the expected selected realization.
	Realization string `yaml:"realization,omitempty"`

	// AliasMap is the expected query-alias to model-alias mapping.
	// Subset match is not performed; when set it must match exactly.
	AliasMap map[string]string `yaml:"alias_map,omitempty"`

	// Error is the expected routing error code, e.g. NO_MODEL_FOUND.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Defs paths are
// resolved relative to the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, defPath := range scenario.Defs {
		if !filepath.IsAbs(defPath) {
			scenario.Defs[i] = filepath.Join(base, defPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Defs) == 0 {
		return fmt.Errorf("defs list is required and must be non-empty")
	}
	for _, defPath := range s.Defs {
		if _, err := os.Stat(defPath); os.IsNotExist(err) {
			return fmt.Errorf("defs file not found: %s", defPath)
		}
	}

	if len(s.Query.Scans) == 0 {
		return fmt.Errorf("query.scans is required and must be non-empty")
	}
	for i, scan := range s.Query.Scans {
		if scan.Alias == "" {
			return fmt.Errorf("query.scans[%d]: alias is required", i)
		}
		if scan.Table == "" {
			return fmt.Errorf("query.scans[%d]: table is required", i)
		}
	}
	for i, join := range s.Query.Joins {
		if join.Kind == "" || join.Child == "" || join.Parent == "" {
			return fmt.Errorf("query.joins[%d]: kind, child, and parent are required", i)
		}
		if len(join.On) == 0 {
			return fmt.Errorf("query.joins[%d]: on is required and must be non-empty", i)
		}
	}

	hasOutcome := s.Expect.Model != "" || s.Expect.Realization != ""
	if s.Expect.Error == "" && !hasOutcome {
		return fmt.Errorf("expect: either error or model/realization is required")
	}
	if s.Expect.Error != "" && hasOutcome {
		return fmt.Errorf("expect: error and model/realization are mutually exclusive")
	}
	return nil
}
