// Package sqm defines the semantic query model: the resolved, typed tree
// produced by pkg/semantic for a code generation stage.
//
// Every node implements Node and accepts a Visitor. BaseWalker provides a
// recursive pre-order traversal that visitors embed; Inspect is the closure
// form of the same traversal.
//
// From elements are owned by their FromElementSpace. Expressions refer to
// them (AttributeReference.Source, FromElementReference.Element) but do not
// own them, so traversal never descends through such references.
package sqm
