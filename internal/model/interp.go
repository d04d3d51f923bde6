package model

import (
	"sort"
	"strings"

	"github.com/roach88/entail/internal/axiom"
)

// Interpretation is a maximal set of entities currently known equivalent.
//
// Interpretations form a partition: two interpretations are either the
// exact same object or strictly disjoint. A merge does not mutate the two
// source interpretations in place; it creates the union and installs a
// forward pointer on each source. Any state still keyed by a pre-merge
// interpretation resolves to the live union through Find.
type Interpretation struct {
	forward *Interpretation // non-nil once merged away
	members map[axiom.Entity]struct{}
}

func newInterpretation(entities ...axiom.Entity) *Interpretation {
	in := &Interpretation{members: make(map[axiom.Entity]struct{}, len(entities))}
	for _, e := range entities {
		in.members[e] = struct{}{}
	}
	return in
}

// Find resolves to the live interpretation, following forward pointers
// installed by merges. The chain is path-compressed: after Find returns,
// every interpretation on the walked chain forwards directly to the live
// one, so stale records keyed long ago stay cheap to resolve.
func (in *Interpretation) Find() *Interpretation {
	if in.forward == nil {
		return in
	}
	root := in.forward
	for root.forward != nil {
		root = root.forward
	}
	// Path compression
	for cur := in; cur != root; {
		next := cur.forward
		cur.forward = root
		cur = next
	}
	return root
}

// Has reports whether the entity is a member of this interpretation.
// Resolves through Find first.
func (in *Interpretation) Has(e axiom.Entity) bool {
	_, ok := in.Find().members[e]
	return ok
}

// Size returns the number of member entities.
func (in *Interpretation) Size() int {
	return len(in.Find().members)
}

// Members returns the member entities sorted by key.
// The sort makes fact enumeration deterministic across runs and branches.
func (in *Interpretation) Members() []axiom.Entity {
	live := in.Find()
	out := make([]axiom.Entity, 0, len(live.members))
	for e := range live.members {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// String renders the interpretation as {a, b, ...} with sorted members.
func (in *Interpretation) String() string {
	members := in.Members()
	keys := make([]string, len(members))
	for i, e := range members {
		keys[i] = e.Key()
	}
	return "{" + strings.Join(keys, ", ") + "}"
}
