package model

import (
	"fmt"
	"sort"

	"github.com/roach88/entail/internal/axiom"
)

// Model is the composite of the equality model and the registered domain
// submodels. It is mutated only through Commit; a successfully completed
// run's model is the terminal artifact.
type Model struct {
	eq     *EqualityModel
	subs   []Submodel // registration order, deterministic
	byKind map[axiom.Kind]Submodel
}

// New creates a model over the given submodels. The equality model is
// always present and needs no registration. Registration order is
// preserved: approve and apply phases of the merge protocol visit
// submodels in this order.
//
// Panics on duplicate kind claims - that is a vocabulary-construction
// defect, not a runtime condition.
func New(subs ...Submodel) *Model {
	m := &Model{
		eq:     NewEqualityModel(),
		subs:   subs,
		byKind: make(map[axiom.Kind]Submodel),
	}
	for _, s := range subs {
		s.bind(m.eq)
		for _, k := range s.Kinds() {
			if prev, ok := m.byKind[k]; ok {
				panic(fmt.Sprintf("model: kind %q claimed by both %s and %s", k, prev.Name(), s.Name()))
			}
			m.byKind[k] = s
		}
	}
	return m
}

// Equality returns the equality model.
func (m *Model) Equality() *EqualityModel {
	return m.eq
}

// Commit records a fundamental atom. Equality kinds route to the
// equality model (equivalence atoms through the merge protocol); other
// kinds dispatch to the submodel claiming them. Returns ErrNoSubmodel
// when no submodel recognizes the kind.
//
// The returned axioms are follow-up obligations the caller must tell
// back into its axiom store.
func (m *Model) Commit(at axiom.Atom) ([]axiom.Axiom, error) {
	switch at.Kind {
	case axiom.KindEqual:
		return m.equate(at.Args[0], at.Args[1])
	case axiom.KindDistinct:
		return nil, m.eq.Distinguish(at.Args[0], at.Args[1])
	default:
		s, ok := m.byKind[at.Kind]
		if !ok {
			return nil, ErrNoSubmodel
		}
		return s.Commit(at)
	}
}

// equate runs the all-or-nothing merge protocol for an equivalence atom.
//
// Phase 1 (approve) is speculative: the equality model and then every
// submodel inspect the candidate merge; any veto aborts with no state
// change anywhere. Phase 2 (apply) commits atomically: the union is
// installed, entities are remapped, and each submodel re-keys its state.
func (m *Model) equate(a, b axiom.Entity) ([]axiom.Axiom, error) {
	x, y := m.eq.InterpOf(a), m.eq.InterpOf(b)
	if x == y {
		return nil, nil
	}

	if err := m.eq.ApproveMerge(x, y); err != nil {
		return nil, mergeConflict(err, a, b)
	}
	for _, s := range m.subs {
		if err := s.ApproveMerge(x, y); err != nil {
			return nil, mergeConflict(err, a, b)
		}
	}

	union := m.eq.merge(x, y)

	var followups []axiom.Axiom
	for _, s := range m.subs {
		followups = append(followups, s.ApplyMerge(x, y, union)...)
	}
	return followups, nil
}

// mergeConflict attaches the triggering equivalence atom to a veto.
func mergeConflict(err error, a, b axiom.Entity) error {
	if c, ok := err.(*Conflict); ok && len(c.Axioms) == 0 {
		c.Axioms = []axiom.Atom{axiom.Equal(a, b)}
	}
	return err
}

// Knows is a pure membership test with no inference: an atom is known if
// its relation family already records it (resolved through equivalence
// classes); a conjunction is known if every member is; a disjunction if
// any member is; True is always known, False never.
func (m *Model) Knows(ax axiom.Axiom) bool {
	switch v := ax.(type) {
	case axiom.Atom:
		switch v.Kind {
		case axiom.KindEqual:
			return m.eq.Same(v.Args[0], v.Args[1])
		case axiom.KindDistinct:
			return m.eq.Different(m.eq.InterpOf(v.Args[0]), m.eq.InterpOf(v.Args[1]))
		default:
			s, ok := m.byKind[v.Kind]
			return ok && s.Knows(v)
		}
	case axiom.Conj:
		for _, member := range v.Members {
			if !m.Knows(member) {
				return false
			}
		}
		return true
	case axiom.Disj:
		for _, member := range v.Members {
			if m.Knows(member) {
				return true
			}
		}
		return false
	case axiom.TrueAxiom:
		return true
	default:
		return false
	}
}

// Facts enumerates every ground atom the model holds: pairwise equality
// within each interpretation, recorded non-equivalences, and each
// submodel's facts expanded over class members. The result is sorted by
// rendering for deterministic comparison and recombination.
func (m *Model) Facts() []axiom.Atom {
	var facts []axiom.Atom

	// Equalities: all unordered member pairs within each class, so the
	// enumeration is stable under different merge histories.
	for _, in := range m.eq.Interpretations() {
		members := in.Members()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				facts = append(facts, axiom.Equal(members[i], members[j]))
			}
		}
	}

	// Non-equivalences: all cross pairs, emitted once per unordered pair
	// of entities.
	seen := make(map[string]struct{})
	for x, set := range m.eq.different {
		for y := range set {
			for _, a := range x.Find().Members() {
				for _, b := range y.Find().Members() {
					lo, hi := a, b
					if hi.Key() < lo.Key() {
						lo, hi = hi, lo
					}
					at := axiom.Distinct(lo, hi)
					key := at.String()
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					facts = append(facts, at)
				}
			}
		}
	}

	for _, s := range m.subs {
		facts = append(facts, s.Facts()...)
	}

	sort.Slice(facts, func(i, j int) bool { return facts[i].String() < facts[j].String() })
	return facts
}

// Clone deep-copies the model for an independent branch. Entity and
// axiom values are immutable and shared; every interpretation and every
// interpretation-indexed map is copied.
func (m *Model) Clone() *Model {
	remap := make(map[*Interpretation]*Interpretation)
	eq := m.eq.clone(remap)

	out := &Model{
		eq:     eq,
		subs:   make([]Submodel, len(m.subs)),
		byKind: make(map[axiom.Kind]Submodel, len(m.byKind)),
	}
	for i, s := range m.subs {
		copied := s.clone(eq, remap)
		out.subs[i] = copied
		for _, k := range copied.Kinds() {
			out.byKind[k] = copied
		}
	}
	return out
}
