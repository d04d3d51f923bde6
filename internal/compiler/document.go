package compiler

import (
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/entail/internal/axiom"
)

// Document is a compiled axiom document. The arena owns every variable
// appearing in the axioms and must be passed along to the engine so its
// fresh variables cannot collide with the document's.
type Document struct {
	Name   string
	Axioms []axiom.Axiom
	Arena  *axiom.Arena
}

// CompileString compiles CUE source text into a Document.
func CompileString(src string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	return CompileDocument(v)
}

// CompileDocument parses a CUE value into a Document.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the document struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`axioms: [{kind: "before", args: ["p", "q"]}]`)
//	doc, err := CompileDocument(v)
func CompileDocument(v cue.Value) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	doc := &Document{Arena: axiom.NewArena()}
	b := &binder{arena: doc.Arena, vars: make(map[string]axiom.Var)}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		doc.Name = name
	}

	axVal := v.LookupPath(cue.ParsePath("axioms"))
	if !axVal.Exists() {
		return nil, &CompileError{
			Field:   "axioms",
			Message: "axioms list is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := axVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		ax, err := b.parseAxiom(iter.Value())
		if err != nil {
			return nil, err
		}
		doc.Axioms = append(doc.Axioms, ax)
	}

	return doc, nil
}

// binder resolves "?name" strings to document-scoped variables.
type binder struct {
	arena *axiom.Arena
	vars  map[string]axiom.Var
}

func (b *binder) variable(name string) axiom.Var {
	if v, ok := b.vars[name]; ok {
		return v
	}
	v := b.arena.NewVar(name)
	b.vars[name] = v
	return v
}

// parseAxiom parses one entry of the axioms list: a constant string, a
// connective struct, or an atom struct.
func (b *binder) parseAxiom(v cue.Value) (axiom.Axiom, error) {
	if s, err := v.String(); err == nil {
		switch s {
		case "true":
			return axiom.True, nil
		case "false":
			return axiom.False, nil
		default:
			return nil, &CompileError{
				Field:   "axioms",
				Message: `string axioms must be "true" or "false", got ` + s,
				Pos:     v.Pos(),
			}
		}
	}

	if allVal := v.LookupPath(cue.ParsePath("all")); allVal.Exists() {
		members, err := b.parseMembers(allVal)
		if err != nil {
			return nil, err
		}
		return axiom.All(members...), nil
	}
	if anyVal := v.LookupPath(cue.ParsePath("any")); anyVal.Exists() {
		members, err := b.parseMembers(anyVal)
		if err != nil {
			return nil, err
		}
		return axiom.Any(members...), nil
	}

	return b.parseAtom(v)
}

func (b *binder) parseMembers(v cue.Value) ([]axiom.Axiom, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var members []axiom.Axiom
	for iter.Next() {
		m, err := b.parseAxiom(iter.Value())
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (b *binder) parseAtom(v cue.Value) (axiom.Axiom, error) {
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{
			Field:   "kind",
			Message: "atom needs a kind (or use all/any/\"true\"/\"false\")",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if kind == "" {
		return nil, &CompileError{
			Field:   "kind",
			Message: "kind must be non-empty",
			Pos:     kindVal.Pos(),
		}
	}

	argsVal := v.LookupPath(cue.ParsePath("args"))
	if !argsVal.Exists() {
		return nil, &CompileError{
			Field:   "args",
			Message: "atom needs an args list",
			Pos:     v.Pos(),
		}
	}
	iter, err := argsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var args []axiom.Entity
	for iter.Next() {
		arg, err := b.parseEntity(iter.Value())
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return nil, &CompileError{
			Field:   "args",
			Message: "atom needs at least one argument",
			Pos:     argsVal.Pos(),
		}
	}
	return axiom.New(axiom.Kind(kind), args...), nil
}

func (b *binder) parseEntity(v cue.Value) (axiom.Entity, error) {
	s, err := v.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if name, ok := strings.CutPrefix(s, "?"); ok {
		if name == "" {
			return nil, &CompileError{
				Field:   "args",
				Message: `"?" alone is not a variable name`,
				Pos:     v.Pos(),
			}
		}
		return b.variable(name), nil
	}
	if s == "" {
		return nil, &CompileError{
			Field:   "args",
			Message: "entity name must be non-empty",
			Pos:     v.Pos(),
		}
	}
	return axiom.Sym(s), nil
}
