package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entail/internal/axiom"
)

func TestEqualityModel_FirstTouchIdempotent(t *testing.T) {
	eq := NewEqualityModel()

	x1 := eq.InterpOf(axiom.Sym("a"))
	x2 := eq.InterpOf(axiom.Sym("a"))

	assert.Same(t, x1, x2, "first touch must be idempotent")
	assert.Equal(t, 1, x1.Size())
	assert.True(t, x1.Has(axiom.Sym("a")))
}

func TestModel_Equality_Transitive(t *testing.T) {
	a, b, c := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c")
	m := New()

	_, err := m.Commit(axiom.Equal(a, b))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Equal(b, c))
	require.NoError(t, err)

	assert.True(t, m.Equality().Same(a, c), "a≃b and b≃c must entail a≃c")
	assert.True(t, m.Knows(axiom.Equal(a, c)))
	assert.True(t, m.Knows(axiom.Equal(c, a)))
}

func TestModel_Equality_Transitive_ReverseOrder(t *testing.T) {
	a, b, c := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c")
	m := New()

	_, err := m.Commit(axiom.Equal(b, c))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Equal(a, b))
	require.NoError(t, err)

	assert.True(t, m.Equality().Same(a, c))
}

func TestModel_EqualThenDistinct_Conflict(t *testing.T) {
	a, b := axiom.Sym("a"), axiom.Sym("b")
	m := New()

	_, err := m.Commit(axiom.Equal(a, b))
	require.NoError(t, err)

	_, err = m.Commit(axiom.Distinct(a, b))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestModel_DistinctThenEqual_Conflict(t *testing.T) {
	a, b := axiom.Sym("a"), axiom.Sym("b")
	m := New()

	_, err := m.Commit(axiom.Distinct(a, b))
	require.NoError(t, err)

	_, err = m.Commit(axiom.Equal(a, b))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestModel_Distinct_SurvivesMerge(t *testing.T) {
	// distinct is recorded against interpretations; merging one side
	// into a bigger class must keep the record visible.
	a, b, c := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c")
	m := New()

	_, err := m.Commit(axiom.Distinct(a, b))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Equal(b, c))
	require.NoError(t, err)

	_, err = m.Commit(axiom.Equal(a, c))
	require.Error(t, err, "a≄b and b≃c forbid a≃c")
	assert.True(t, IsConflict(err))
}

func TestModel_Distinct_Idempotent(t *testing.T) {
	a, b := axiom.Sym("a"), axiom.Sym("b")
	m := New()

	_, err := m.Commit(axiom.Distinct(a, b))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Distinct(a, b))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Distinct(b, a))
	require.NoError(t, err, "distinct is symmetric")

	assert.True(t, m.Knows(axiom.Distinct(a, b)))
	assert.True(t, m.Knows(axiom.Distinct(b, a)))
}

func TestModel_MergeVeto_Atomic(t *testing.T) {
	// A vetoed merge must leave every submodel untouched.
	a, b := axiom.Sym("a"), axiom.Sym("b")
	h, v := axiom.Sym("h"), axiom.Sym("v")

	m := New(NewTagModel("orientation", "orient"))
	_, err := m.Commit(axiom.New("orient", a, h))
	require.NoError(t, err)
	_, err = m.Commit(axiom.New("orient", b, v))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Distinct(h, v))
	require.NoError(t, err)

	_, err = m.Commit(axiom.Equal(a, b))
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// classes untouched
	assert.False(t, m.Equality().Same(a, b))
	// tag state untouched
	assert.True(t, m.Knows(axiom.New("orient", a, h)))
	assert.True(t, m.Knows(axiom.New("orient", b, v)))
	assert.False(t, m.Knows(axiom.New("orient", a, v)))
	// the model keeps working after the veto
	_, err = m.Commit(axiom.Equal(a, axiom.Sym("c")))
	assert.NoError(t, err)
}

func TestMergeConflict_NamesTriggeringPair(t *testing.T) {
	a, b := axiom.Sym("a"), axiom.Sym("b")
	m := New()

	_, err := m.Commit(axiom.Distinct(a, b))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Equal(a, b))
	require.Error(t, err)

	var c *Conflict
	require.ErrorAs(t, err, &c)
	require.NotEmpty(t, c.Axioms)
	assert.Equal(t, axiom.Equal(a, b).String(), c.Axioms[0].String())
}

func TestInterpretation_FindAfterChainedMerges(t *testing.T) {
	// Holding an interpretation across merges must still resolve to the
	// live union, however many merges happened since.
	m := New()

	syms := []axiom.Entity{axiom.Sym("e0"), axiom.Sym("e1"), axiom.Sym("e2"), axiom.Sym("e3")}
	stale := m.Equality().InterpOf(syms[0])

	for i := 1; i < len(syms); i++ {
		_, err := m.Commit(axiom.Equal(syms[i-1], syms[i]))
		require.NoError(t, err)
	}

	live := stale.Find()
	assert.Equal(t, len(syms), live.Size())
	for _, s := range syms {
		assert.True(t, live.Has(s))
	}
}
