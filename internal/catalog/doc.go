// Package catalog holds the versioned, read-only view of registered data
// models and realizations that realization routing consults.
//
// Concurrency model:
//   - A Snapshot is immutable after Build. Any number of in-flight query
//     compilations may read it without locking.
//   - Catalog updates never mutate a published Snapshot. A new Snapshot is
//     built from scratch and published atomically through a Registry
//     (copy-on-write pointer swap). Compilations that started on the old
//     snapshot keep using it untouched.
//
// Snapshots carry a content-addressed fingerprint so two builds from
// identical definitions are recognizably the same version.
package catalog
