package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/entail/internal/axiom"
)

// ErrNoSubmodel is returned by Commit when no registered submodel
// recognizes the atom's kind. Not a logical failure: the engine collects
// such atoms as unhandled and the run still reaches a terminal state.
var ErrNoSubmodel = errors.New("no submodel recognizes axiom kind")

// Conflict reports a logical contradiction detected by a commit or a
// merge veto. It aborts only the enclosing reasoning branch; an outer
// disjunction may still succeed through a sibling branch.
type Conflict struct {
	// Submodel names the component that detected the contradiction.
	Submodel string

	// Reason is a human-readable description.
	Reason string

	// Axioms identifies the triggering atom or pair, when known.
	Axioms []axiom.Atom
}

// Error implements the error interface.
func (c *Conflict) Error() string {
	if len(c.Axioms) == 0 {
		return fmt.Sprintf("%s: %s", c.Submodel, c.Reason)
	}
	parts := make([]string, len(c.Axioms))
	for i, at := range c.Axioms {
		parts[i] = at.String()
	}
	return fmt.Sprintf("%s: %s [%s]", c.Submodel, c.Reason, strings.Join(parts, "; "))
}

// IsConflict reports whether err is (or wraps) a Conflict.
func IsConflict(err error) bool {
	var c *Conflict
	return errors.As(err, &c)
}
