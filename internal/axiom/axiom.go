package axiom

import (
	"fmt"
	"strings"
)

// Kind tags a relation family. A Kind is only meaningful once registered
// with a Registry; unregistered kinds are a structural defect, not a
// logical contradiction.
type Kind string

// Core kinds understood by the equality model. Domain vocabularies add
// their own kinds through registry registration.
const (
	// KindEqual asserts that two entities denote the same individual.
	KindEqual Kind = "equal"

	// KindDistinct asserts that two entities can never denote the same
	// individual.
	KindDistinct Kind = "distinct"
)

// Axiom is a sealed interface over the axiom variants.
// Only Atom, Conj, Disj, TrueAxiom, and FalseAxiom implement it.
type Axiom interface {
	axiom() // Sealed - only the types in this file implement it
}

// Atom is a tagged relation over one or more entities. Atoms are the only
// axiom variant that ever reaches a model commit.
type Atom struct {
	Kind Kind
	Args []Entity
}

func (Atom) axiom() {}

// String renders the atom as kind(arg, ...).
func (a Atom) String() string {
	parts := make([]string, len(a.Args))
	for i, e := range a.Args {
		parts[i] = e.Key()
	}
	return fmt.Sprintf("%s(%s)", a.Kind, strings.Join(parts, ", "))
}

// Conj is a logical conjunction. It is transparent to the engine: its
// members are told back into the axiom store and the conjunction itself
// carries no model effect.
type Conj struct {
	Members []Axiom
}

func (Conj) axiom() {}

// String renders the conjunction as all(...).
func (c Conj) String() string { return renderConnective("all", c.Members) }

// Disj is a logical disjunction. The engine forks one reasoning branch
// per disjunct; an empty disjunction is vacuously satisfied.
type Disj struct {
	Members []Axiom
}

func (Disj) axiom() {}

// String renders the disjunction as any(...).
func (d Disj) String() string { return renderConnective("any", d.Members) }

// TrueAxiom is the trivially satisfied constant.
type TrueAxiom struct{}

func (TrueAxiom) axiom() {}

func (TrueAxiom) String() string { return "true" }

// FalseAxiom marks the enclosing branch unsatisfiable the moment it is
// taken from the store.
type FalseAxiom struct{}

func (FalseAxiom) axiom() {}

func (FalseAxiom) String() string { return "false" }

// True and False are the shared constant instances.
var (
	True  Axiom = TrueAxiom{}
	False Axiom = FalseAxiom{}
)

// New constructs an atom for the given kind and arguments.
func New(kind Kind, args ...Entity) Atom {
	return Atom{Kind: kind, Args: args}
}

// Equal constructs an equivalence atom.
func Equal(a, b Entity) Atom {
	return New(KindEqual, a, b)
}

// Distinct constructs a non-equivalence atom.
func Distinct(a, b Entity) Atom {
	return New(KindDistinct, a, b)
}

// All constructs a conjunction.
func All(members ...Axiom) Conj {
	return Conj{Members: members}
}

// Any constructs a disjunction.
func Any(members ...Axiom) Disj {
	return Disj{Members: members}
}

// Render returns the display form of any axiom variant.
func Render(ax Axiom) string {
	switch v := ax.(type) {
	case Atom:
		return v.String()
	case Conj:
		return v.String()
	case Disj:
		return v.String()
	case TrueAxiom:
		return v.String()
	case FalseAxiom:
		return v.String()
	default:
		return fmt.Sprintf("%v", ax)
	}
}

func renderConnective(name string, members []Axiom) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = Render(m)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
