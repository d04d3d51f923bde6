// Package compiler turns CUE axiom documents into axiom values ready
// for the engine.
//
// A document is a CUE struct with an axioms list. Atoms are written as
// {kind, args}; connectives as {all: [...]} or {any: [...]}; the
// constants as the strings "true" and "false". Argument strings
// starting with "?" are variables, scoped to the document: every use of
// "?p" in one document denotes the same variable.
//
// Compilation is syntactic. Vocabulary-level checking (registered
// kinds, arities) is a separate Validate pass against a registry, so a
// document can be compiled once and validated against several
// vocabularies.
package compiler
