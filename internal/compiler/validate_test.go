package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entail/internal/geo"
)

func TestValidate_CleanDocument(t *testing.T) {
	doc, err := CompileString(`
axioms: [
	{kind: "orient", args: ["a", "horizontal"]},
	{kind: "meets", args: ["i", "j"]},
	{all: [{kind: "before", args: ["p", "q"]}]},
]
`)
	require.NoError(t, err)

	errs := Validate(doc, geo.NewRegistry())
	assert.Empty(t, errs)
}

func TestValidate_UnknownKind(t *testing.T) {
	doc, err := CompileString(`axioms: [{kind: "levitates", args: ["a"]}]`)
	require.NoError(t, err, "compilation is syntactic; vocabulary errors surface in Validate")

	errs := Validate(doc, geo.NewRegistry())
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownKind, errs[0].Code)
	assert.Equal(t, "axioms[0]", errs[0].Field)
}

func TestValidate_WrongArity(t *testing.T) {
	doc, err := CompileString(`
axioms: [{
	any: [{kind: "before", args: ["p", "q", "r"]}]
}]
`)
	require.NoError(t, err)

	errs := Validate(doc, geo.NewRegistry())
	require.Len(t, errs, 1)
	assert.Equal(t, ErrWrongArity, errs[0].Code)
	assert.Equal(t, "axioms[0].any[0]", errs[0].Field)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	doc, err := CompileString(`
axioms: [
	{kind: "levitates", args: ["a"]},
	{kind: "orient", args: ["a"]},
	{kind: "before", args: ["p", "q"]},
]
`)
	require.NoError(t, err)

	errs := Validate(doc, geo.NewRegistry())
	assert.Len(t, errs, 2, "validation does not fail fast")
}
