// Package harness provides the routing conformance harness.
//
// A scenario is a YAML file bundling catalog definitions, an optional
// blackout list, one query, and the expected routing outcome. The harness
// compiles the definitions, routes the query, and checks the expectation:
//
//	name: star_join
//	description: Star join routes to the only matching cube.
//	defs:
//	  - ../defs/sales.cue
//	query:
//	  scans:
//	    - alias: S
//	      table: DEFAULT.SALES
//	  columns:
//	    - DEFAULT.SALES.PART_DT
//	expect:
//	  model: sales_model
//	  realization: cube1
//
// Golden trace files pin the full attempt-by-attempt routing behavior.
// Traces serialize through canonical JSON, so a golden mismatch always
// means the routing behavior changed, never the serialization. Regenerate
// with:
//
//	go test ./internal/harness -update
package harness
