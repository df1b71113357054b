// Package vault implements the in-memory data model of a hierarchical
// credential database: a tree of groups and entries keyed by permanent UUIDs,
// a tombstone ledger that records deletions durably, identity-based deletion,
// and a convergent merge that reconciles two independently edited copies of
// the same logical database.
//
// The model is single-writer: callers must not mutate a Database while a
// traversal or a merge over the same value is in progress. The package does
// no internal locking; a multi-threaded host is responsible for exclusive
// access around the whole Database value.
//
// Serialization and encryption live in the codec package; this package only
// defines the logical structure and the reconciliation rules.
package vault
