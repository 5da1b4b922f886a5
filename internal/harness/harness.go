package harness

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"

	"github.com/cubera-io/cubera/internal/catalog"
	"github.com/cubera-io/cubera/internal/compiler"
	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
	"github.com/cubera-io/cubera/internal/routing"
	"github.com/cubera-io/cubera/internal/selector"
)

// Result captures one scenario execution. RouteErr is the routing
// failure, if any; harness-level failures (unreadable defs, malformed
// scenarios) are returned by Run as errors instead.
type Result struct {
	Scenario   string
	Resolution *routing.Resolution
	Trace      *routing.Trace
	RouteErr   error
}

// Run compiles the scenario's catalog, routes its query, and returns the
// outcome. The query ID is the scenario name, so identical scenarios
// produce byte-identical traces.
func Run(scenario *Scenario) (*Result, error) {
	snap, err := buildSnapshot(scenario)
	if err != nil {
		return nil, err
	}

	qc, err := buildQuery(scenario)
	if err != nil {
		return nil, err
	}

	chooser := routing.NewChooser(selector.LowestCost{},
		routing.WithBlackout(scenario.Blackout...))
	res, trace, routeErr := chooser.RouteWithTrace(qc, snap)

	return &Result{
		Scenario:   scenario.Name,
		Resolution: res,
		Trace:      trace,
		RouteErr:   routeErr,
	}, nil
}

// Verify checks the result against the scenario's expectation.
func Verify(scenario *Scenario, result *Result) error {
	want := scenario.Expect

	if want.Error != "" {
		if result.RouteErr == nil {
			return fmt.Errorf("expected routing error %s, got success", want.Error)
		}
		var re *routing.RouteError
		if !errors.As(result.RouteErr, &re) {
			return fmt.Errorf("expected routing error %s, got: %v", want.Error, result.RouteErr)
		}
		if string(re.Code) != want.Error {
			return fmt.Errorf("expected routing error %s, got %s", want.Error, re.Code)
		}
		return nil
	}

	if result.RouteErr != nil {
		return fmt.Errorf("expected success, got routing error: %v", result.RouteErr)
	}
	res := result.Resolution
	if want.Model != "" && res.Model.Name() != want.Model {
		return fmt.Errorf("expected model %s, got %s", want.Model, res.Model.Name())
	}
	if want.Realization != "" && res.Realization.Name != want.Realization {
		return fmt.Errorf("expected realization %s, got %s", want.Realization, res.Realization.Name)
	}
	if want.AliasMap != nil {
		if len(want.AliasMap) != len(res.Mapping) {
			return fmt.Errorf("expected alias map %v, got %v", want.AliasMap, res.Mapping)
		}
		for q, m := range want.AliasMap {
			if res.Mapping[q] != m {
				return fmt.Errorf("expected alias map %v, got %v", want.AliasMap, res.Mapping)
			}
		}
	}
	return nil
}

// buildSnapshot compiles every defs file and folds them into one catalog
// snapshot.
func buildSnapshot(scenario *Scenario) (*catalog.Snapshot, error) {
	ctx := cuecontext.New()
	merged := &compiler.CatalogDef{}
	for _, path := range scenario.Defs {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading defs %s: %w", path, err)
		}
		v := ctx.CompileString(string(data))
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("compiling defs %s: %w", path, err)
		}
		def, err := compiler.CompileCatalog(v)
		if err != nil {
			return nil, fmt.Errorf("compiling defs %s: %w", path, err)
		}
		merged.Merge(def)
	}

	models, realizations, err := merged.Build()
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return catalog.Build(models, realizations)
}

// buildQuery converts the scenario's query step into a query context.
func buildQuery(scenario *Scenario) (*query.Context, error) {
	qs := scenario.Query

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
			return nil, fmt.Errorf("query column %q: %w", c, err)
		}
		columns = append(columns, col)
	}

	qc := &query.Context{
		ID:        scenario.Name,
		Project:   "harness",
		FirstScan: scans[0],
		Scans:     scans,
		Joins:     joins,
		Columns:   columns,
	}
	if err := qc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario query: %w", err)
	}
	return qc, nil
}
