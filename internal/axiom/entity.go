package axiom

import (
	"fmt"
	"sync"
)

// Entity is a sealed interface over the two entity representations.
// Only Sym and Var implement it. Both are comparable value types and are
// safe to use as map keys.
type Entity interface {
	entity() // Sealed - only Sym and Var implement it

	// Key returns a stable string form used in canonical encoding.
	// Keys are unique per entity: two entities with equal keys are the
	// same entity.
	Key() string
}

// Sym is a concrete entity supplied by domain code. The symbol name is
// its identity; two Syms with the same name are the same entity.
type Sym string

func (Sym) entity() {}

// Key implements Entity.
func (s Sym) Key() string { return string(s) }

// String returns the symbol name.
func (s Sym) String() string { return string(s) }

// Var is an unresolved placeholder entity. Identity is the arena index:
// two Vars are the same entity exactly when their IDs are equal. The name
// is a display hint only and never participates in identity checks.
//
// Vars may never be resolved to a concrete value; an equivalence class
// containing only variables is a legal terminal state.
type Var struct {
	ID   uint64
	Name string
}

func (Var) entity() {}

// Key implements Entity. The arena index is included so that two distinct
// variables sharing a display name remain distinguishable.
func (v Var) Key() string {
	if v.Name != "" {
		return fmt.Sprintf("?%s#%d", v.Name, v.ID)
	}
	return fmt.Sprintf("?#%d", v.ID)
}

// String returns the display form of the variable.
func (v Var) String() string { return v.Key() }

// Arena allocates variables with indices unique within the arena.
//
// Each reasoning run (or compiled axiom document) owns one arena, which
// makes variable indices deterministic for a given input. Branches forked
// from a run share the parent's arena: axiom definitions are immutable,
// so concurrent branch evaluation only ever allocates, never mutates.
//
// Thread-safety: NewVar is safe for concurrent use.
type Arena struct {
	mu   sync.Mutex
	next uint64
}

// NewArena creates an empty variable arena. The first variable gets ID 1.
func NewArena() *Arena {
	return &Arena{}
}

// NewVar allocates a fresh variable with the given display name.
// The name may be empty.
func (a *Arena) NewVar(name string) Var {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return Var{ID: a.next, Name: name}
}

// Count returns the number of variables allocated so far.
// Used for testing and diagnostics.
func (a *Arena) Count() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}
