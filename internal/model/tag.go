package model

import (
	"sort"

	"github.com/roach88/entail/internal/axiom"
)

// TagModel records a single-valued tag per interpretation for one atom
// kind of shape kind(entity, tag). A second, different tag committed
// against an already-tagged interpretation is a direct contradiction;
// it is never resolved by further merging.
//
// Tags are compared by interpretation, not by symbol: two tag entities
// that have been equated count as the same tag.
type TagModel struct {
	name string
	kind axiom.Kind
	eq   *EqualityModel
	tags map[*Interpretation]axiom.Entity
}

// NewTagModel creates a tag submodel for the given binary kind.
func NewTagModel(name string, kind axiom.Kind) *TagModel {
	return &TagModel{
		name: name,
		kind: kind,
		tags: make(map[*Interpretation]axiom.Entity),
	}
}

// Name implements Submodel.
func (m *TagModel) Name() string { return m.name }

// Kinds implements Submodel.
func (m *TagModel) Kinds() []axiom.Kind { return []axiom.Kind{m.kind} }

func (m *TagModel) bind(eq *EqualityModel) { m.eq = eq }

// Commit implements Submodel.
func (m *TagModel) Commit(at axiom.Atom) ([]axiom.Axiom, error) {
	x := m.eq.InterpOf(at.Args[0])
	tag := at.Args[1]

	cur, ok := m.tags[x]
	if !ok {
		m.tags[x] = tag
		return nil, nil
	}
	if m.eq.Same(cur, tag) {
		return nil, nil
	}
	return nil, &Conflict{
		Submodel: m.name,
		Reason:   "entity already carries a different tag",
		Axioms:   []axiom.Atom{axiom.New(m.kind, at.Args[0], cur), at},
	}
}

// Knows implements Submodel.
func (m *TagModel) Knows(at axiom.Atom) bool {
	cur, ok := m.tags[m.eq.InterpOf(at.Args[0])]
	return ok && m.eq.Same(cur, at.Args[1])
}

// ApproveMerge vetoes when both interpretations carry tags that are not
// themselves equivalent: the union would have to satisfy two mutually
// exclusive single-valued assignments.
func (m *TagModel) ApproveMerge(x, y *Interpretation) error {
	tx, okx := m.tags[x.Find()]
	ty, oky := m.tags[y.Find()]
	if okx && oky && !m.eq.Same(tx, ty) {
		return &Conflict{
			Submodel: m.name,
			Reason:   "merge would combine incompatible tags",
		}
	}
	return nil
}

// ApplyMerge implements Submodel.
func (m *TagModel) ApplyMerge(x, y, union *Interpretation) []axiom.Axiom {
	tx, okx := m.tags[x]
	ty, oky := m.tags[y]
	delete(m.tags, x)
	delete(m.tags, y)
	switch {
	case okx:
		m.tags[union] = tx
	case oky:
		m.tags[union] = ty
	}
	return nil
}

// Facts implements Submodel. Tag assignments are expanded over the
// members of both the tagged class and the tag's own class.
func (m *TagModel) Facts() []axiom.Atom {
	var out []axiom.Atom
	for in, tag := range m.tags {
		for _, e := range in.Find().Members() {
			for _, t := range m.eq.InterpOf(tag).Members() {
				out = append(out, axiom.New(m.kind, e, t))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (m *TagModel) clone(eq *EqualityModel, remap map[*Interpretation]*Interpretation) Submodel {
	out := NewTagModel(m.name, m.kind)
	out.eq = eq
	for in, tag := range m.tags {
		out.tags[remap[in.Find()]] = tag
	}
	return out
}
