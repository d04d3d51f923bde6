package axiom

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_NewVar_UniqueIDs(t *testing.T) {
	a := NewArena()

	x := a.NewVar("x")
	y := a.NewVar("x")

	assert.NotEqual(t, x.ID, y.ID, "two variables must never share an ID")
	assert.NotEqual(t, x.Key(), y.Key(), "same name, different identity")
	assert.Equal(t, uint64(2), a.Count())
}

func TestArena_NewVar_Concurrent(t *testing.T) {
	a := NewArena()
	const n = 100

	var wg sync.WaitGroup
	ids := make([]uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = a.NewVar("v").ID
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for _, id := range ids {
		require.False(t, seen[id], "duplicate variable ID %d", id)
		seen[id] = true
	}
}

func TestVar_IdentityNotName(t *testing.T) {
	a := NewArena()

	x1 := a.NewVar("x")
	x2 := a.NewVar("x")

	// Identity is the arena index, never the display name.
	assert.False(t, x1 == x2)
	assert.True(t, x1 == Var{ID: x1.ID, Name: "x"})
}

func TestSym_Key(t *testing.T) {
	assert.Equal(t, "a", Sym("a").Key())
	assert.Equal(t, "a", Sym("a").String())
}
