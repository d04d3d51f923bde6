package model

import (
	"sort"

	"github.com/roach88/entail/internal/axiom"
)

// OrderModel maintains a strict order over interpretations for one atom
// kind of shape kind(before, after). State is the full transitive
// closure, extended incrementally on every commit and on every
// equivalence-class merge; a cycle is a direct contradiction.
type OrderModel struct {
	name string
	kind axiom.Kind
	eq   *EqualityModel

	// succ[x] holds every interpretation known to come after x, pred[x]
	// every one known to come before. Both are closed under
	// transitivity. Values may go stale after merges and are resolved
	// through Find on read; keys are re-pointed in ApplyMerge.
	succ map[*Interpretation]map[*Interpretation]struct{}
	pred map[*Interpretation]map[*Interpretation]struct{}
}

// NewOrderModel creates an ordering submodel for the given binary kind.
func NewOrderModel(name string, kind axiom.Kind) *OrderModel {
	return &OrderModel{
		name: name,
		kind: kind,
		succ: make(map[*Interpretation]map[*Interpretation]struct{}),
		pred: make(map[*Interpretation]map[*Interpretation]struct{}),
	}
}

// Name implements Submodel.
func (m *OrderModel) Name() string { return m.name }

// Kinds implements Submodel.
func (m *OrderModel) Kinds() []axiom.Kind { return []axiom.Kind{m.kind} }

func (m *OrderModel) bind(eq *EqualityModel) { m.eq = eq }

// resolve returns the live-normalized neighbor set for x, excluding x
// itself is NOT done here: closure invariants keep x out of its own sets.
func resolve(table map[*Interpretation]map[*Interpretation]struct{}, x *Interpretation) map[*Interpretation]struct{} {
	out := make(map[*Interpretation]struct{})
	for in := range table[x.Find()] {
		out[in.Find()] = struct{}{}
	}
	return out
}

func (m *OrderModel) addEdge(p, s *Interpretation) {
	p, s = p.Find(), s.Find()
	if m.succ[p] == nil {
		m.succ[p] = make(map[*Interpretation]struct{})
	}
	m.succ[p][s] = struct{}{}
	if m.pred[s] == nil {
		m.pred[s] = make(map[*Interpretation]struct{})
	}
	m.pred[s][p] = struct{}{}
}

// Commit implements Submodel. Committing kind(a, b) adds every closure
// pair implied by the new edge: (pred(a) ∪ {a}) × (succ(b) ∪ {b}).
func (m *OrderModel) Commit(at axiom.Atom) ([]axiom.Axiom, error) {
	x := m.eq.InterpOf(at.Args[0])
	y := m.eq.InterpOf(at.Args[1])

	if x == y {
		return nil, &Conflict{
			Submodel: m.name,
			Reason:   "strict order is irreflexive over an equivalence class",
			Axioms:   []axiom.Atom{at},
		}
	}

	after := resolve(m.succ, x)
	if _, known := after[y]; known {
		return nil, nil
	}
	if _, cycle := resolve(m.succ, y)[x]; cycle {
		return nil, &Conflict{
			Submodel: m.name,
			Reason:   "ordering cycle",
			Axioms:   []axiom.Atom{at},
		}
	}

	before := resolve(m.pred, x)
	before[x] = struct{}{}
	afterY := resolve(m.succ, y)
	afterY[y] = struct{}{}
	for p := range before {
		for s := range afterY {
			m.addEdge(p, s)
		}
	}
	return nil, nil
}

// Knows implements Submodel.
func (m *OrderModel) Knows(at axiom.Atom) bool {
	x := m.eq.InterpOf(at.Args[0])
	y := m.eq.InterpOf(at.Args[1])
	_, ok := resolve(m.succ, x)[y]
	return ok
}

// ApproveMerge vetoes a merge that would close an ordering cycle: either
// an order already holds between the two interpretations, or the union's
// combined neighbor sets would place some interpretation both before and
// after it. Side-effect free.
func (m *OrderModel) ApproveMerge(x, y *Interpretation) error {
	sx, sy := resolve(m.succ, x), resolve(m.succ, y)
	px, py := resolve(m.pred, x), resolve(m.pred, y)

	if _, ok := sx[y.Find()]; ok {
		return m.cycleVeto()
	}
	if _, ok := sy[x.Find()]; ok {
		return m.cycleVeto()
	}
	for s := range sx {
		if _, ok := px[s]; ok {
			return m.cycleVeto()
		}
		if _, ok := py[s]; ok {
			return m.cycleVeto()
		}
	}
	for s := range sy {
		if _, ok := px[s]; ok {
			return m.cycleVeto()
		}
		if _, ok := py[s]; ok {
			return m.cycleVeto()
		}
	}
	return nil
}

func (m *OrderModel) cycleVeto() error {
	return &Conflict{
		Submodel: m.name,
		Reason:   "merge would create an ordering cycle",
	}
}

// ApplyMerge re-keys both source interpretations' neighbor sets onto the
// union, then restores closure: everything before the union now precedes
// everything after it. The sources already forward to the union when
// this runs, so their entries are read under the raw keys; only the
// stored neighbors resolve through Find.
func (m *OrderModel) ApplyMerge(x, y, union *Interpretation) []axiom.Axiom {
	after := make(map[*Interpretation]struct{})
	before := make(map[*Interpretation]struct{})
	for _, src := range []*Interpretation{x, y} {
		for s := range m.succ[src] {
			after[s.Find()] = struct{}{}
		}
		for p := range m.pred[src] {
			before[p.Find()] = struct{}{}
		}
	}
	delete(m.succ, x)
	delete(m.succ, y)
	delete(m.pred, x)
	delete(m.pred, y)

	for s := range after {
		m.addEdge(union, s)
	}
	for p := range before {
		m.addEdge(p, union)
	}
	for p := range before {
		for s := range after {
			m.addEdge(p, s)
		}
	}
	return nil
}

// Facts implements Submodel. Every closure pair is expanded over the
// members of both classes.
func (m *OrderModel) Facts() []axiom.Atom {
	seen := make(map[string]struct{})
	var out []axiom.Atom
	for x := range m.succ {
		for y := range resolve(m.succ, x) {
			for _, e := range x.Find().Members() {
				for _, f := range y.Members() {
					at := axiom.New(m.kind, e, f)
					key := at.String()
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					out = append(out, at)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (m *OrderModel) clone(eq *EqualityModel, remap map[*Interpretation]*Interpretation) Submodel {
	out := NewOrderModel(m.name, m.kind)
	out.eq = eq
	for x := range m.succ {
		cx, ok := remap[x.Find()]
		if !ok {
			continue
		}
		for y := range resolve(m.succ, x) {
			if cy, ok := remap[y]; ok {
				out.addEdge(cx, cy)
			}
		}
	}
	return out
}
