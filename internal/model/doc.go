// Package model implements the composite model built by the reasoning
// engine: an equality model tracking equivalence classes of entities, and
// domain submodels owning interpretation-indexed state for one relation
// family each.
//
// All equivalence-class merges go through a vetoable, all-or-nothing
// protocol hosted by the equality model: every submodel inspects the
// candidate merge speculatively and may veto it; only if all approve is
// the merge committed, after which each submodel re-keys its own state.
//
// One model instance is owned by exactly one reasoning run at a time.
// Disjunction branches each receive an independent deep copy via Clone.
package model
