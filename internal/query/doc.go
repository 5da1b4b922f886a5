// Package query holds the per-compilation query context that realization
// routing operates on.
//
// A Context is built once by the upstream query compiler from the parsed
// plan: the first table scanned (the anchor), all table scans, the join
// edges, and the set of physical columns the query references.
//
// Ownership model:
//   - A Context is exclusively owned by one query compilation. Nothing in
//     it is shared across queries, so bind/unbind during routing needs no
//     synchronization.
//   - Catalog metadata (models, realizations) is never reachable from a
//     Context; routing only writes the resolution back onto it.
//
// TableScan row types are the one mutable part: routing rewrites them to
// a model's canonical schema for the duration of a selection attempt and
// restores them exactly if the attempt is abandoned.
package query
