package engine

import (
	"github.com/roach88/entail/internal/axiom"
)

// AxiomStore is the ordered multiset of pending axioms for one reasoning
// state. Telling a conjunction flattens it recursively into individual
// entries; draining is LIFO. The final verdict must not depend on the
// drain order of axioms without data dependencies, so callers never rely
// on the order beyond "everything told is eventually taken".
//
// The store is not safe for concurrent use: a reasoning state belongs to
// exactly one run at a time.
type AxiomStore struct {
	pending []axiom.Axiom
}

// NewAxiomStore creates an empty store.
func NewAxiomStore() *AxiomStore {
	return &AxiomStore{
		pending: make([]axiom.Axiom, 0, 16),
	}
}

// Tell appends one axiom. Conjunctions are flattened recursively; all
// other variants (disjunctions included) are appended as-is.
func (s *AxiomStore) Tell(ax axiom.Axiom) {
	if conj, ok := ax.(axiom.Conj); ok {
		s.TellAll(conj.Members)
		return
	}
	s.pending = append(s.pending, ax)
}

// TellAll appends every axiom in the collection, flattening conjunctions.
func (s *AxiomStore) TellAll(axs []axiom.Axiom) {
	for _, ax := range axs {
		s.Tell(ax)
	}
}

// Take removes and returns one pending axiom, or false when empty.
func (s *AxiomStore) Take() (axiom.Axiom, bool) {
	if len(s.pending) == 0 {
		return nil, false
	}
	last := len(s.pending) - 1
	ax := s.pending[last]

	// Nil out the slot so the backing array does not retain the axiom.
	s.pending[last] = nil
	s.pending = s.pending[:last]
	return ax, true
}

// Len returns the number of pending axioms.
func (s *AxiomStore) Len() int {
	return len(s.pending)
}
