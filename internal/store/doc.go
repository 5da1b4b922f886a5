// Package store provides SQLite-backed durable storage for catalog
// metadata.
//
// The store holds the compiled catalog per project:
//   - Models: data model definitions (tables, columns, joins)
//   - Realizations: pre-built structures registered over those models
//
// Rows carry the definition as canonical JSON plus its content-addressed
// fingerprint, so two stores holding the same definitions are comparable
// byte for byte. Reads always order by name with binary collation; a
// snapshot loaded twice from the same store has the same fingerprint.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Canonical JSON and fingerprints come from internal/meta, using RFC 8785
// serialization and SHA-256 with domain separation.
package store
