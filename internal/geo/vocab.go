package geo

import (
	"github.com/roach88/entail/internal/axiom"
	"github.com/roach88/entail/internal/model"
)

// Axiom kinds of the interval vocabulary.
const (
	// KindOrient tags an interval with its orientation. Single-valued:
	// two different orientations on one interval is a contradiction.
	KindOrient axiom.Kind = "orient"

	// KindBefore is strict precedence between intervals. Transitive,
	// irreflexive; cycles are contradictions.
	KindBefore axiom.Kind = "before"

	// KindAfter is the mirror of before. Normalizes away.
	KindAfter axiom.Kind = "after"

	// KindLeftEnd and KindRightEnd assign an endpoint to an interval.
	// Single-valued per interval, but a second assignment is resolved
	// by equating the two candidate points rather than by conflict.
	KindLeftEnd  axiom.Kind = "leftEnd"
	KindRightEnd axiom.Kind = "rightEnd"

	// KindMeets says one interval ends exactly where the next starts.
	// Composite: simplifies into endpoint and precedence atoms.
	KindMeets axiom.Kind = "meets"

	// KindOverlaps is registered so overlap assertions validate, but no
	// submodel commits it: it surfaces in the unhandled set.
	KindOverlaps axiom.Kind = "overlaps"
)

// Orientation tag values.
const (
	Horizontal axiom.Sym = "horizontal"
	Vertical   axiom.Sym = "vertical"
)

// normalizeAfter flips after(x, y) into before(y, x).
func normalizeAfter(_ *axiom.Arena, at axiom.Atom) (axiom.Axiom, bool) {
	return axiom.New(KindBefore, at.Args[1], at.Args[0]), true
}

// simplifyMeets expands meets(i, j) into the shared-endpoint reading: a
// fresh point is both i's right end and j's left end, and i precedes j.
func simplifyMeets(a *axiom.Arena, at axiom.Atom) (axiom.Axiom, bool) {
	p := a.NewVar("p")
	return axiom.All(
		axiom.New(KindRightEnd, at.Args[0], p),
		axiom.New(KindLeftEnd, at.Args[1], p),
		axiom.New(KindBefore, at.Args[0], at.Args[1]),
	), true
}

// Register adds the interval vocabulary's kinds to a registry.
func Register(r *axiom.Registry) error {
	caps := []axiom.Capability{
		{Kind: KindOrient, Arity: 2},
		{Kind: KindBefore, Arity: 2},
		{Kind: KindAfter, Arity: 2, Normalize: normalizeAfter},
		{Kind: KindLeftEnd, Arity: 2},
		{Kind: KindRightEnd, Arity: 2},
		{Kind: KindMeets, Arity: 2, Simplify: simplifyMeets},
		{Kind: KindOverlaps, Arity: 2},
	}
	for _, c := range caps {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the core kinds plus the
// interval vocabulary. Panics on registration failure, which can only
// mean the kind table above is self-conflicting.
func NewRegistry() *axiom.Registry {
	r := axiom.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// NewModel builds the submodel composite for the interval vocabulary.
// Suitable as the engine's model factory.
func NewModel() *model.Model {
	return model.New(
		model.NewTagModel("orientation", KindOrient),
		model.NewOrderModel("precedence", KindBefore),
		model.NewPositionModel("endpoints", KindLeftEnd, KindRightEnd),
	)
}
