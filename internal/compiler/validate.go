package compiler

import (
	"fmt"

	"github.com/roach88/entail/internal/axiom"
)

// Validation error codes (E100-E199)
const (
	ErrUnknownKind = "E101" // axiom kind not in the registry
	ErrWrongArity  = "E102" // argument count does not match the kind
)

// ValidationError reports a vocabulary-level defect in a compiled
// document: the document parsed, but its atoms do not fit the registry.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every atom of a compiled document against a
// capability registry. Returns all errors found (does not fail-fast).
func Validate(doc *Document, reg *axiom.Registry) []ValidationError {
	var errs []ValidationError
	for i, ax := range doc.Axioms {
		errs = append(errs, validateAxiom(fmt.Sprintf("axioms[%d]", i), ax, reg)...)
	}
	return errs
}

func validateAxiom(field string, ax axiom.Axiom, reg *axiom.Registry) []ValidationError {
	switch v := ax.(type) {
	case axiom.Atom:
		return validateAtom(field, v, reg)
	case axiom.Conj:
		return validateMembers(field+".all", v.Members, reg)
	case axiom.Disj:
		return validateMembers(field+".any", v.Members, reg)
	default:
		return nil
	}
}

func validateMembers(field string, members []axiom.Axiom, reg *axiom.Registry) []ValidationError {
	var errs []ValidationError
	for i, m := range members {
		errs = append(errs, validateAxiom(fmt.Sprintf("%s[%d]", field, i), m, reg)...)
	}
	return errs
}

func validateAtom(field string, at axiom.Atom, reg *axiom.Registry) []ValidationError {
	c, ok := reg.Lookup(at.Kind)
	if !ok {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("kind %q is not registered", at.Kind),
			Code:    ErrUnknownKind,
		}}
	}
	if len(at.Args) != c.Arity {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("kind %q expects %d args, got %d", at.Kind, c.Arity, len(at.Args)),
			Code:    ErrWrongArity,
		}}
	}
	return nil
}
