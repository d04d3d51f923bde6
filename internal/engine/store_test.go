package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entail/internal/axiom"
)

func TestAxiomStore_TakeLIFO(t *testing.T) {
	s := NewAxiomStore()
	a := axiom.Equal(axiom.Sym("a"), axiom.Sym("b"))
	b := axiom.Equal(axiom.Sym("c"), axiom.Sym("d"))

	s.Tell(a)
	s.Tell(b)
	require.Equal(t, 2, s.Len())

	got, ok := s.Take()
	require.True(t, ok)
	assert.Equal(t, axiom.Render(b), axiom.Render(got), "most recent axiom comes out first")

	got, ok = s.Take()
	require.True(t, ok)
	assert.Equal(t, axiom.Render(a), axiom.Render(got))
}

func TestAxiomStore_Take_Empty(t *testing.T) {
	s := NewAxiomStore()

	_, ok := s.Take()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestAxiomStore_Tell_FlattensConjunctions(t *testing.T) {
	s := NewAxiomStore()
	a := axiom.Equal(axiom.Sym("a"), axiom.Sym("b"))
	b := axiom.Equal(axiom.Sym("c"), axiom.Sym("d"))
	c := axiom.Equal(axiom.Sym("e"), axiom.Sym("f"))

	// nested conjunctions flatten all the way down
	s.Tell(axiom.All(a, axiom.All(b, c)))

	assert.Equal(t, 3, s.Len())
	for s.Len() > 0 {
		got, ok := s.Take()
		require.True(t, ok)
		_, isAtom := got.(axiom.Atom)
		assert.True(t, isAtom, "stored members are the flattened atoms")
	}
}

func TestAxiomStore_Tell_DisjunctionKeptWhole(t *testing.T) {
	s := NewAxiomStore()
	d := axiom.Any(
		axiom.Equal(axiom.Sym("a"), axiom.Sym("b")),
		axiom.Equal(axiom.Sym("c"), axiom.Sym("d")),
	)

	s.Tell(d)

	require.Equal(t, 1, s.Len(), "disjunctions are branch points, never flattened")
	got, ok := s.Take()
	require.True(t, ok)
	_, isDisj := got.(axiom.Disj)
	assert.True(t, isDisj)
}

func TestAxiomStore_TellAll(t *testing.T) {
	s := NewAxiomStore()

	s.TellAll([]axiom.Axiom{
		axiom.True,
		axiom.All(axiom.True, axiom.True),
	})

	assert.Equal(t, 3, s.Len())
}
