package axiom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CoreKindsPreRegistered(t *testing.T) {
	r := NewRegistry()

	c, ok := r.Lookup(KindEqual)
	require.True(t, ok)
	assert.Equal(t, 2, c.Arity)

	_, ok = r.Lookup(KindDistinct)
	assert.True(t, ok)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Capability{Kind: "orient", Arity: 2})
	require.NoError(t, err)

	err = r.Register(Capability{Kind: "orient", Arity: 2})
	assert.Error(t, err, "duplicate kind must be rejected")
}

func TestRegistry_Register_BadArity(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Capability{Kind: "broken", Arity: 0}))
	assert.Error(t, r.Register(Capability{Kind: "", Arity: 2}))
}

func TestRegistry_Validate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Capability{Kind: "orient", Arity: 2}))

	tests := []struct {
		name    string
		at      Atom
		wantErr bool
	}{
		{"valid", New("orient", Sym("a"), Sym("h")), false},
		{"unregistered kind", New("levitates", Sym("a")), true},
		{"wrong arity", New("orient", Sym("a")), true},
		{"nil arg", Atom{Kind: "orient", Args: []Entity{Sym("a"), nil}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.at)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistry_Kinds_Sorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Capability{Kind: "zz", Arity: 1}))
	require.NoError(t, r.Register(Capability{Kind: "aa", Arity: 1}))

	kinds := r.Kinds()
	require.Len(t, kinds, 4)
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, string(kinds[i-1]), string(kinds[i]))
	}
}
