package axiom

import (
	"fmt"
	"sort"
)

// Rewrite is an optional capability attached to a kind. It receives an
// atom and returns a replacement axiom, or false when the rewrite does
// not apply. Rewrites must be pure: they may allocate fresh variables
// but never mutate their input.
type Rewrite func(a *Arena, at Atom) (Axiom, bool)

// Capability describes everything the engine knows about an axiom kind.
// The zero rewrite fields mean "no such capability": an atom of a kind
// with neither normalize nor simplify is fundamental and goes straight
// to a model commit.
type Capability struct {
	Kind  Kind
	Arity int

	// Normalize rewrites the atom to a canonical, logically equivalent
	// form. Checked before Simplify.
	Normalize Rewrite

	// Simplify rewrites the atom into a strictly more primitive
	// combination of axioms, possibly introducing fresh variables.
	Simplify Rewrite
}

// Registry is the closed kind table resolved once at startup. The engine
// only ever dispatches through the registry; it never type-switches on
// domain kinds.
type Registry struct {
	kinds map[Kind]Capability
}

// NewRegistry creates a registry pre-populated with the core equality
// kinds. Domain vocabularies register their kinds on top.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[Kind]Capability)}
	r.kinds[KindEqual] = Capability{Kind: KindEqual, Arity: 2}
	r.kinds[KindDistinct] = Capability{Kind: KindDistinct, Arity: 2}
	return r
}

// Register adds a capability to the registry.
// Returns an error on duplicate kinds or non-positive arity: both signal
// a vocabulary-construction defect.
func (r *Registry) Register(c Capability) error {
	if c.Kind == "" {
		return fmt.Errorf("register capability: empty kind")
	}
	if c.Arity <= 0 {
		return fmt.Errorf("register capability %q: arity must be positive, got %d", c.Kind, c.Arity)
	}
	if _, ok := r.kinds[c.Kind]; ok {
		return fmt.Errorf("register capability: duplicate kind %q", c.Kind)
	}
	r.kinds[c.Kind] = c
	return nil
}

// Lookup returns the capability for a kind.
func (r *Registry) Lookup(k Kind) (Capability, bool) {
	c, ok := r.kinds[k]
	return c, ok
}

// Kinds returns all registered kinds in sorted order.
// Used for diagnostics and validation output.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks an atom's structure against the registry: the kind
// must be registered, the arity must match, and no argument may be nil.
//
// A validation failure is a StructuralViolation in the engine's taxonomy:
// it signals malformed vocabulary, never a logical contradiction, and is
// fatal to the whole run rather than just the enclosing branch.
func (r *Registry) Validate(at Atom) error {
	c, ok := r.kinds[at.Kind]
	if !ok {
		return fmt.Errorf("atom %s: kind %q is not registered", at, at.Kind)
	}
	if len(at.Args) != c.Arity {
		return fmt.Errorf("atom %s: kind %q expects %d args, got %d", at, at.Kind, c.Arity, len(at.Args))
	}
	for i, e := range at.Args {
		if e == nil {
			return fmt.Errorf("atom %s: arg %d is a dangling reference", at, i)
		}
	}
	return nil
}
