// Package meta provides the catalog metadata types for cubera.
//
// This package contains type definitions only. All other internal packages
// import meta; meta imports nothing internal. This keeps the metadata layer
// foundational with no circular dependencies.
//
// Key design constraints:
//   - Metadata objects (DataModel, Realization) are immutable after a
//     catalog snapshot is built. Nothing in the routing core mutates them.
//   - Columns are identified by physical identity (table identity plus
//     column name), never by query-local alias. Alias translation is the
//     routing layer's job.
//   - Join graphs are trees: one root table, every other table reachable
//     through exactly one join edge.
//   - All JSON tags use snake_case.
package meta
