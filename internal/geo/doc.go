// Package geo is the built-in interval-geometry vocabulary: oriented
// intervals with endpoint assignments and a strict precedence order.
//
// It exists both as a usable vocabulary and as the reference for how a
// domain plugs into the engine: a capability registry describing each
// kind's rewrites, plus a model factory wiring the submodels that
// commit the fundamental kinds. Nothing in the engine or model packages
// knows these kinds exist.
package geo
