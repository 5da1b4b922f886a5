// Package routing implements realization selection for OLAP queries.
//
// Given a query context (anchor table, join edges, referenced columns) and
// a catalog snapshot, the router decides which pre-built realization can
// answer the query and which data model it belongs to.
//
// ARCHITECTURE:
//
// Selection pipeline, per query:
//  1. The query's join graph is built and validated ("hanging tables" is a
//     hard error, never a retryable mismatch).
//  2. Candidate realizations are fetched for the anchor table and grouped
//     by owning model; models are ordered by their cheapest realization
//     cost, then by name.
//  3. For each model in order, the graph matcher searches for an alias
//     mapping from query tables to model tables. No mapping: next model.
//  4. On a match the model's canonical schema is bound onto the query's
//     table scans, and the selector picks from the eligible realizations.
//     Selector declines: the binding is rolled back and the next model is
//     tried. Selector picks: the binding commits and routing ends.
//
// DETERMINISM:
//
// Routing the same query against the same catalog snapshot always attempts
// the same models in the same order and returns the same realization:
//   - model order is a strict weak ordering over (priority, weight, name),
//   - matcher tie-breaks between structurally equivalent model tables by
//     lexicographic model alias,
//   - rule chains and selector inputs are evaluated in fixed order.
//
// MUTATION DISCIPLINE:
//
// The only state routing mutates is the query context's scan row types,
// and only between bind and release of one attempt. Release is guaranteed
// on every exit path, including a panicking selector, so a failed attempt
// is invisible to the next one. Catalog objects are never written.
package routing
