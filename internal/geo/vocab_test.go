package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entail/internal/axiom"
)

func TestRegistry_AllKindsRegistered(t *testing.T) {
	r := NewRegistry()

	for _, k := range []axiom.Kind{
		KindOrient, KindBefore, KindAfter,
		KindLeftEnd, KindRightEnd, KindMeets, KindOverlaps,
	} {
		_, ok := r.Lookup(k)
		assert.True(t, ok, "kind %q must be registered", k)
	}
}

func TestNormalizeAfter(t *testing.T) {
	a := axiom.NewArena()
	out, ok := normalizeAfter(a, axiom.New(KindAfter, axiom.Sym("q"), axiom.Sym("p")))

	require.True(t, ok)
	assert.Equal(t, "before(p, q)", axiom.Render(out))
	assert.Equal(t, uint64(0), a.Count(), "normalize allocates no variables")
}

func TestSimplifyMeets(t *testing.T) {
	a := axiom.NewArena()
	out, ok := simplifyMeets(a, axiom.New(KindMeets, axiom.Sym("i"), axiom.Sym("j")))

	require.True(t, ok)
	require.Equal(t, uint64(1), a.Count(), "one fresh shared endpoint")

	conj, isConj := out.(axiom.Conj)
	require.True(t, isConj, "meets expands to a conjunction")
	require.Len(t, conj.Members, 3)

	kinds := make(map[axiom.Kind]bool)
	for _, m := range conj.Members {
		at, isAtom := m.(axiom.Atom)
		require.True(t, isAtom)
		kinds[at.Kind] = true
	}
	assert.True(t, kinds[KindRightEnd])
	assert.True(t, kinds[KindLeftEnd])
	assert.True(t, kinds[KindBefore])
}

func TestSimplifyMeets_FreshVariablePerUse(t *testing.T) {
	a := axiom.NewArena()
	at := axiom.New(KindMeets, axiom.Sym("i"), axiom.Sym("j"))

	_, _ = simplifyMeets(a, at)
	_, _ = simplifyMeets(a, at)

	assert.Equal(t, uint64(2), a.Count(), "each expansion gets its own endpoint")
}

func TestNewModel_ClaimsVocabularyKinds(t *testing.T) {
	m := NewModel()

	// fundamental kinds commit; composite kinds have no submodel
	_, err := m.Commit(axiom.New(KindOrient, axiom.Sym("a"), Horizontal))
	assert.NoError(t, err)
	_, err = m.Commit(axiom.New(KindBefore, axiom.Sym("p"), axiom.Sym("q")))
	assert.NoError(t, err)
	_, err = m.Commit(axiom.New(KindLeftEnd, axiom.Sym("i"), axiom.Sym("p")))
	assert.NoError(t, err)
}
