// Package core defines the syntax tree of the query language.
//
// This package contains:
//   - Statement nodes (select, insert-select, update, delete)
//   - Query-spec, from-clause and join nodes
//   - Expression and predicate nodes
//   - The Listener enter/exit contract and the Walk driver that feeds it
//
// The tree is produced by pkg/parser (or any other front end) and consumed by
// pkg/semantic. It carries only what was written in the query: names are not
// resolved and no types are attached.
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
package core
