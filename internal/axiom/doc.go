// Package axiom defines the value types of the reasoning engine: entities
// (concrete symbols and placeholder variables), axioms (tagged relations,
// logical connectives, and the constants True/False), the kind registry
// that binds rewrite capabilities to axiom kinds, and the canonical JSON
// encoding used for content-addressed fact identity.
//
// Everything in this package is immutable after construction. Axioms and
// entities are shared freely between reasoning branches; only models carry
// mutable state.
package axiom
