package routing

import (
	"fmt"

	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/query"
)

// buildQueryGraph turns a validated query context into its canonical join
// graph, enforcing the tree invariant: a query over N tables must carry
// exactly N-1 joins. Any violation is a MALFORMED_QUERY_GRAPH error,
// surfaced before any model is examined.
func buildQueryGraph(qc *query.Context) (*meta.JoinGraph, error) {
	if err := qc.Validate(); err != nil {
		return nil, newMalformedQueryGraphError(qc, err.Error())
	}
	if len(qc.Joins) != len(qc.Scans)-1 {
		reason := fmt.Sprintf("%d joins for %d tables (hanging tables)", len(qc.Joins), len(qc.Scans))
		return nil, newMalformedQueryGraphError(qc, reason)
	}

	tables := make([]meta.TableRef, len(qc.Scans))
	for i, s := range qc.Scans {
		tables[i] = meta.TableRef{Alias: s.Alias, Table: s.Table}
	}
	root := meta.TableRef{Alias: qc.FirstScan.Alias, Table: qc.FirstScan.Table}

	g, err := meta.NewJoinGraph(root, tables, qc.Joins)
	if err != nil {
		return nil, newMalformedQueryGraphError(qc, err.Error())
	}
	return g, nil
}
