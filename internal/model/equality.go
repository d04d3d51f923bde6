package model

import (
	"github.com/roach88/entail/internal/axiom"
)

// EqualityModel tracks the entity partition and recorded non-equivalences.
// It hosts the merge protocol used by every other submodel; the Model
// composite orchestrates the approve/apply phases.
type EqualityModel struct {
	interps map[axiom.Entity]*Interpretation

	// different records non-equivalence between interpretations, keyed
	// symmetrically on both sides. Keys are re-pointed to the live union
	// on every merge; values resolve through Find on read, so a record
	// made against a pre-merge interpretation still holds afterwards.
	different map[*Interpretation]map[*Interpretation]struct{}
}

// NewEqualityModel creates an empty equality model.
func NewEqualityModel() *EqualityModel {
	return &EqualityModel{
		interps:   make(map[axiom.Entity]*Interpretation),
		different: make(map[*Interpretation]map[*Interpretation]struct{}),
	}
}

// InterpOf returns the live interpretation of an entity. The first touch
// of an unseen entity registers a singleton interpretation; the operation
// is idempotent.
func (m *EqualityModel) InterpOf(e axiom.Entity) *Interpretation {
	if in, ok := m.interps[e]; ok {
		live := in.Find()
		if live != in {
			m.interps[e] = live
		}
		return live
	}
	in := newInterpretation(e)
	m.interps[e] = in
	return in
}

// Same reports whether two entities currently share an interpretation.
func (m *EqualityModel) Same(a, b axiom.Entity) bool {
	return m.InterpOf(a) == m.InterpOf(b)
}

// Different reports whether two interpretations are recorded as disjoint.
// Both arguments resolve through Find before the lookup, and recorded
// values resolve through Find during the scan.
func (m *EqualityModel) Different(x, y *Interpretation) bool {
	x, y = x.Find(), y.Find()
	for rec := range m.different[x] {
		if rec.Find() == y {
			return true
		}
	}
	return false
}

// Distinguish records a non-equivalence between two entities.
// Returns a Conflict if the entities already share an interpretation.
// The record is symmetric and survives later merges of either side.
func (m *EqualityModel) Distinguish(a, b axiom.Entity) error {
	x, y := m.InterpOf(a), m.InterpOf(b)
	if x == y {
		return &Conflict{
			Submodel: "equality",
			Reason:   "entities are known equivalent but asserted distinct",
			Axioms:   []axiom.Atom{axiom.Distinct(a, b)},
		}
	}
	m.recordDifferent(x, y)
	m.recordDifferent(y, x)
	return nil
}

func (m *EqualityModel) recordDifferent(x, y *Interpretation) {
	set := m.different[x]
	if set == nil {
		set = make(map[*Interpretation]struct{})
		m.different[x] = set
	}
	set[y] = struct{}{}
}

// ApproveMerge is the equality model's own veto check: a merge is vetoed
// when either source interpretation is recorded as different from the
// other. Side-effect free.
func (m *EqualityModel) ApproveMerge(x, y *Interpretation) error {
	if m.Different(x, y) {
		return &Conflict{
			Submodel: "equality",
			Reason:   "merge contradicts a recorded non-equivalence",
		}
	}
	return nil
}

// merge commits a union: it creates the union interpretation, installs
// forward pointers on both sources, and remaps every entity previously
// mapped to either source. Callers must have run the approve phase on
// every submodel first.
func (m *EqualityModel) merge(x, y *Interpretation) *Interpretation {
	union := newInterpretation()
	for e := range x.members {
		union.members[e] = struct{}{}
	}
	for e := range y.members {
		union.members[e] = struct{}{}
	}
	x.forward = union
	y.forward = union

	for e, in := range m.interps {
		if in == x || in == y {
			m.interps[e] = union
		}
	}

	// Re-key the non-equivalence records of both sources onto the union.
	// Records held by third parties against x or y resolve through Find.
	merged := make(map[*Interpretation]struct{})
	for rec := range m.different[x] {
		merged[rec.Find()] = struct{}{}
	}
	for rec := range m.different[y] {
		merged[rec.Find()] = struct{}{}
	}
	delete(m.different, x)
	delete(m.different, y)
	if len(merged) > 0 {
		m.different[union] = merged
	}

	return union
}

// Interpretations returns the distinct live interpretations.
// Order is unspecified; callers needing determinism sort the result.
func (m *EqualityModel) Interpretations() []*Interpretation {
	seen := make(map[*Interpretation]struct{})
	var out []*Interpretation
	for _, in := range m.interps {
		live := in.Find()
		if _, ok := seen[live]; ok {
			continue
		}
		seen[live] = struct{}{}
		out = append(out, live)
	}
	return out
}

// clone deep-copies the equality model. remap records the mapping from
// source live interpretations to their copies so submodels can re-key
// their own state against the cloned partition.
func (m *EqualityModel) clone(remap map[*Interpretation]*Interpretation) *EqualityModel {
	out := NewEqualityModel()

	cloneInterp := func(in *Interpretation) *Interpretation {
		live := in.Find()
		if copied, ok := remap[live]; ok {
			return copied
		}
		copied := newInterpretation()
		for e := range live.members {
			copied.members[e] = struct{}{}
		}
		remap[live] = copied
		return copied
	}

	for e, in := range m.interps {
		out.interps[e] = cloneInterp(in)
	}
	for x, set := range m.different {
		cx := cloneInterp(x)
		for y := range set {
			out.recordDifferent(cx, cloneInterp(y))
		}
	}
	return out
}
