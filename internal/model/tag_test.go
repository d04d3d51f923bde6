package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entail/internal/axiom"
)

func newTagTestModel() *Model {
	return New(NewTagModel("orientation", "orient"))
}

func TestTagModel_Commit_SetAndRepeat(t *testing.T) {
	m := newTagTestModel()
	a, h := axiom.Sym("a"), axiom.Sym("h")

	_, err := m.Commit(axiom.New("orient", a, h))
	require.NoError(t, err)

	// same tag again is a no-op
	_, err = m.Commit(axiom.New("orient", a, h))
	require.NoError(t, err)

	assert.True(t, m.Knows(axiom.New("orient", a, h)))
}

func TestTagModel_Commit_SecondTagConflicts(t *testing.T) {
	m := newTagTestModel()
	a := axiom.Sym("a")

	_, err := m.Commit(axiom.New("orient", a, axiom.Sym("h")))
	require.NoError(t, err)

	_, err = m.Commit(axiom.New("orient", a, axiom.Sym("v")))
	require.Error(t, err)

	var c *Conflict
	require.ErrorAs(t, err, &c)
	assert.Equal(t, "orientation", c.Submodel)
	assert.Len(t, c.Axioms, 2, "conflict names both assignments")
}

func TestTagModel_Commit_EquivalentTagsCompatible(t *testing.T) {
	m := newTagTestModel()
	a, h1, h2 := axiom.Sym("a"), axiom.Sym("h1"), axiom.Sym("h2")

	_, err := m.Commit(axiom.Equal(h1, h2))
	require.NoError(t, err)
	_, err = m.Commit(axiom.New("orient", a, h1))
	require.NoError(t, err)

	// h2 names the same class, so this is the same tag
	_, err = m.Commit(axiom.New("orient", a, h2))
	assert.NoError(t, err)
}

func TestTagModel_Knows_ThroughEquivalence(t *testing.T) {
	m := newTagTestModel()
	a, b, h := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("h")

	_, err := m.Commit(axiom.New("orient", a, h))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Equal(a, b))
	require.NoError(t, err)

	assert.True(t, m.Knows(axiom.New("orient", b, h)), "tag follows the merged class")
}

func TestTagModel_MergeKeepsSingleTag(t *testing.T) {
	m := newTagTestModel()
	a, b, h := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("h")

	_, err := m.Commit(axiom.New("orient", a, h))
	require.NoError(t, err)
	_, err = m.Commit(axiom.New("orient", b, h))
	require.NoError(t, err)

	// both tagged with the same value: merge is fine
	_, err = m.Commit(axiom.Equal(a, b))
	require.NoError(t, err)

	assert.True(t, m.Knows(axiom.New("orient", a, h)))
	assert.True(t, m.Knows(axiom.New("orient", b, h)))
}

func TestTagModel_Facts_ExpandMembers(t *testing.T) {
	m := newTagTestModel()
	a, b, h := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("h")

	_, err := m.Commit(axiom.New("orient", a, h))
	require.NoError(t, err)
	_, err = m.Commit(axiom.Equal(a, b))
	require.NoError(t, err)

	facts := m.Facts()
	rendered := make(map[string]bool, len(facts))
	for _, f := range facts {
		rendered[f.String()] = true
	}
	assert.True(t, rendered["orient(a, h)"])
	assert.True(t, rendered["orient(b, h)"], "facts expand over class members")
}
