package model

import (
	"github.com/roach88/entail/internal/axiom"
)

// Submodel owns interpretation-indexed state for one relation family and
// participates in the merge-veto protocol.
//
// Commit and ApplyMerge may return follow-up axioms which the engine
// tells back into the axiom store; this is how a submodel defers a
// decision to the equality model instead of deciding locally.
type Submodel interface {
	// Name identifies the submodel in conflicts and diagnostics.
	Name() string

	// Kinds lists the atom kinds this submodel commits.
	Kinds() []axiom.Kind

	// Commit records a fundamental atom. Returns follow-up axioms to be
	// re-told, or a *Conflict when the atom contradicts recorded state.
	Commit(at axiom.Atom) ([]axiom.Axiom, error)

	// Knows is a pure membership test: whether the atom is already
	// recorded, with no inference beyond equivalence-class resolution.
	Knows(at axiom.Atom) bool

	// ApproveMerge speculatively checks a candidate merge of two
	// interpretations. It must be side-effect free: a veto (non-nil
	// error) leaves all state untouched everywhere.
	ApproveMerge(x, y *Interpretation) error

	// ApplyMerge performs the bookkeeping implied by a committed merge,
	// re-keying interpretation-indexed state onto the union. May return
	// follow-up axioms.
	ApplyMerge(x, y, union *Interpretation) []axiom.Axiom

	// Facts enumerates the ground atoms this submodel holds, expanded
	// over equivalence-class members. Branch recombination intersects
	// these enumerations.
	Facts() []axiom.Atom

	// bind attaches the shared equality model. Called once by NewModel.
	bind(eq *EqualityModel)

	// clone deep-copies the submodel against a cloned partition.
	// remap translates source live interpretations to their copies.
	clone(eq *EqualityModel, remap map[*Interpretation]*Interpretation) Submodel
}
