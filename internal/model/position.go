package model

import (
	"sort"

	"github.com/roach88/entail/internal/axiom"
)

// PositionModel records single-valued positional assignments, one slot
// per kind, for atoms of shape kind(owner, value) - for example one
// left-endpoint point per interval. Unlike tags, a second distinct
// assignment is not a contradiction: it is resolved by deferring to the
// equality model with an equivalence follow-up between the two proposed
// values.
type PositionModel struct {
	name   string
	kinds  []axiom.Kind
	eq     *EqualityModel
	assign map[*Interpretation]map[axiom.Kind]axiom.Entity
}

// NewPositionModel creates a positional submodel claiming the given
// binary kinds; each kind is an independent slot.
func NewPositionModel(name string, kinds ...axiom.Kind) *PositionModel {
	return &PositionModel{
		name:   name,
		kinds:  kinds,
		assign: make(map[*Interpretation]map[axiom.Kind]axiom.Entity),
	}
}

// Name implements Submodel.
func (m *PositionModel) Name() string { return m.name }

// Kinds implements Submodel.
func (m *PositionModel) Kinds() []axiom.Kind { return m.kinds }

func (m *PositionModel) bind(eq *EqualityModel) { m.eq = eq }

// Commit implements Submodel. A second assignment to an occupied slot
// yields an equivalence follow-up instead of a conflict; the equality
// model (and the merge-veto protocol it hosts) decides whether the two
// proposed values can actually be identified.
func (m *PositionModel) Commit(at axiom.Atom) ([]axiom.Axiom, error) {
	x := m.eq.InterpOf(at.Args[0])
	value := at.Args[1]

	slots := m.assign[x]
	if slots == nil {
		slots = make(map[axiom.Kind]axiom.Entity)
		m.assign[x] = slots
	}
	cur, ok := slots[at.Kind]
	if !ok {
		slots[at.Kind] = value
		return nil, nil
	}
	if m.eq.Same(cur, value) {
		return nil, nil
	}
	return []axiom.Axiom{axiom.Equal(cur, value)}, nil
}

// Knows implements Submodel.
func (m *PositionModel) Knows(at axiom.Atom) bool {
	cur, ok := m.assign[m.eq.InterpOf(at.Args[0])][at.Kind]
	return ok && m.eq.Same(cur, at.Args[1])
}

// ApproveMerge never vetoes: colliding assignments are reconciled by
// equivalence follow-ups in ApplyMerge rather than rejected here.
func (m *PositionModel) ApproveMerge(x, y *Interpretation) error {
	return nil
}

// ApplyMerge re-keys both sources onto the union. Where both sides fill
// the same slot with values not yet known equivalent, an equivalence
// follow-up is emitted and the run decides their fate.
func (m *PositionModel) ApplyMerge(x, y, union *Interpretation) []axiom.Axiom {
	merged := make(map[axiom.Kind]axiom.Entity)
	for k, v := range m.assign[x] {
		merged[k] = v
	}

	var followups []axiom.Axiom
	for k, v := range m.assign[y] {
		cur, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}
		if !m.eq.Same(cur, v) {
			followups = append(followups, axiom.Equal(cur, v))
		}
	}

	delete(m.assign, x)
	delete(m.assign, y)
	if len(merged) > 0 {
		m.assign[union] = merged
	}
	sortFollowups(followups)
	return followups
}

// sortFollowups orders follow-up axioms deterministically; map iteration
// above is otherwise order-dependent.
func sortFollowups(axs []axiom.Axiom) {
	sort.Slice(axs, func(i, j int) bool {
		return axiom.Render(axs[i]) < axiom.Render(axs[j])
	})
}

// Facts implements Submodel. Assignments are expanded over the members
// of the owner class and the value's class.
func (m *PositionModel) Facts() []axiom.Atom {
	var out []axiom.Atom
	for in, slots := range m.assign {
		for k, v := range slots {
			for _, e := range in.Find().Members() {
				for _, q := range m.eq.InterpOf(v).Members() {
					out = append(out, axiom.New(k, e, q))
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (m *PositionModel) clone(eq *EqualityModel, remap map[*Interpretation]*Interpretation) Submodel {
	out := NewPositionModel(m.name, m.kinds...)
	out.eq = eq
	for in, slots := range m.assign {
		copied := make(map[axiom.Kind]axiom.Entity, len(slots))
		for k, v := range slots {
			copied[k] = v
		}
		out.assign[remap[in.Find()]] = copied
	}
	return out
}
