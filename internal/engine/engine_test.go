package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entail/internal/axiom"
	"github.com/roach88/entail/internal/geo"
)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{WithTokenGenerator(NewFixedGenerator(
		"run-1", "run-2", "run-3", "run-4", "run-5",
	))}
	return New(geo.NewRegistry(), geo.NewModel, append(base, opts...)...)
}

func TestEngine_Check_EmptyInput(t *testing.T) {
	e := newTestEngine()

	res, err := e.Check(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, res.Consistent())
	assert.Equal(t, PhaseSolved, res.Phase)
	assert.NotNil(t, res.Model)
	assert.Empty(t, res.Unhandled)
	assert.Equal(t, "run-1", res.RunToken)
}

func TestEngine_Check_EqualityTransitive(t *testing.T) {
	e := newTestEngine()
	a, b, c := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c")

	res, err := e.Check(context.Background(), nil,
		axiom.Equal(a, b),
		axiom.Equal(b, c),
	)
	require.NoError(t, err)

	require.True(t, res.Consistent())
	assert.True(t, res.Model.Knows(axiom.Equal(a, c)))
}

func TestEngine_Check_EqualAndDistinct_Unsatisfiable(t *testing.T) {
	a, b := axiom.Sym("a"), axiom.Sym("b")

	orders := map[string][]axiom.Axiom{
		"equal first":    {axiom.Equal(a, b), axiom.Distinct(a, b)},
		"distinct first": {axiom.Distinct(a, b), axiom.Equal(a, b)},
	}
	for name, axs := range orders {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine()
			res, err := e.Check(context.Background(), nil, axs...)
			require.NoError(t, err)

			assert.False(t, res.Consistent())
			assert.Equal(t, PhaseUnsatisfiable, res.Phase)
			assert.Nil(t, res.Model, "no model on contradiction")
			require.NotNil(t, res.Conflict)
			assert.NotEmpty(t, res.Conflict.Axioms, "conflict names the triggering pair")
		})
	}
}

func TestEngine_Check_TrueAndFalse(t *testing.T) {
	e := newTestEngine()

	res, err := e.Check(context.Background(), nil, axiom.True)
	require.NoError(t, err)
	assert.True(t, res.Consistent())

	res, err = e.Check(context.Background(), nil, axiom.False)
	require.NoError(t, err)
	assert.False(t, res.Consistent())
	require.NotNil(t, res.Conflict)
}

func TestEngine_Check_ConjunctionTransparent(t *testing.T) {
	e := newTestEngine()
	a, b, c := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c")

	res, err := e.Check(context.Background(), nil,
		axiom.All(axiom.Equal(a, b), axiom.All(axiom.Equal(b, c))),
	)
	require.NoError(t, err)

	require.True(t, res.Consistent())
	assert.True(t, res.Model.Knows(axiom.Equal(a, c)))
}

func TestEngine_Check_NormalizeRewrite(t *testing.T) {
	e := newTestEngine()
	p, q := axiom.Sym("p"), axiom.Sym("q")

	res, err := e.Check(context.Background(), nil, axiom.New(geo.KindAfter, q, p))
	require.NoError(t, err)

	require.True(t, res.Consistent())
	assert.True(t, res.Model.Knows(axiom.New(geo.KindBefore, p, q)),
		"after(q, p) normalizes to before(p, q)")
}

func TestEngine_Check_OrderClosureEntailed(t *testing.T) {
	e := newTestEngine()
	p, q, r := axiom.Sym("p"), axiom.Sym("q"), axiom.Sym("r")

	res, err := e.Check(context.Background(), nil,
		axiom.New(geo.KindBefore, p, q),
		axiom.New(geo.KindBefore, q, r),
	)
	require.NoError(t, err)

	require.True(t, res.Consistent())
	assert.True(t, res.Model.Knows(axiom.New(geo.KindBefore, p, r)),
		"p before r is entailed without being told")
}

func TestEngine_Check_SimplifyComposite(t *testing.T) {
	// meets(i, j) simplifies to endpoint assignments plus precedence;
	// running it to completion must resolve those against a concrete
	// endpoint told separately.
	e := newTestEngine()
	i, j, p := axiom.Sym("i"), axiom.Sym("j"), axiom.Sym("p")

	res, err := e.Check(context.Background(), nil,
		axiom.New(geo.KindRightEnd, i, p),
		axiom.New(geo.KindMeets, i, j),
	)
	require.NoError(t, err)

	require.True(t, res.Consistent())
	assert.True(t, res.Model.Knows(axiom.New(geo.KindBefore, i, j)))
	assert.True(t, res.Model.Knows(axiom.New(geo.KindLeftEnd, j, p)),
		"the fresh shared endpoint is identified with p")
	assert.Empty(t, res.Unhandled)
}

func TestEngine_Check_TagConflictOnMerge(t *testing.T) {
	e := newTestEngine()
	a, b := axiom.Sym("a"), axiom.Sym("b")

	res, err := e.Check(context.Background(), nil,
		axiom.New(geo.KindOrient, a, geo.Horizontal),
		axiom.New(geo.KindOrient, b, geo.Vertical),
		axiom.Distinct(geo.Horizontal, geo.Vertical),
		axiom.Equal(a, b),
	)
	require.NoError(t, err)

	assert.False(t, res.Consistent(), "incompatible tags forbid the merge")
	require.NotNil(t, res.Conflict)
}

func TestEngine_Check_UnhandledCollected(t *testing.T) {
	e := newTestEngine()
	i, j := axiom.Sym("i"), axiom.Sym("j")

	res, err := e.Check(context.Background(), nil,
		axiom.New(geo.KindOverlaps, i, j),
		axiom.New(geo.KindOverlaps, i, j), // duplicate collapses
		axiom.New(geo.KindBefore, i, j),
	)
	require.NoError(t, err)

	assert.True(t, res.Consistent(), "unhandled axioms are not errors")
	require.Len(t, res.Unhandled, 1)
	assert.Equal(t, geo.KindOverlaps, res.Unhandled[0].Kind)
	assert.True(t, res.Model.Knows(axiom.New(geo.KindBefore, i, j)))
}

func TestEngine_Check_StructuralViolation(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name string
		ax   axiom.Axiom
	}{
		{"unregistered kind", axiom.New("levitates", axiom.Sym("a"), axiom.Sym("b"))},
		{"wrong arity", axiom.New(geo.KindBefore, axiom.Sym("a"))},
		{"nested inside connective", axiom.All(axiom.New(geo.KindBefore, axiom.Sym("a")))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Check(context.Background(), nil, tt.ax)
			require.Error(t, err)
			assert.True(t, IsStructuralError(err))
			assert.False(t, IsQuotaError(err))
		})
	}
}

func TestEngine_Check_QuotaExceeded(t *testing.T) {
	e := newTestEngine(WithMaxSteps(2))
	a, b, c, d := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c"), axiom.Sym("d")

	_, err := e.Check(context.Background(), nil,
		axiom.Equal(a, b),
		axiom.Equal(b, c),
		axiom.Equal(c, d),
	)
	require.Error(t, err)
	assert.True(t, IsQuotaError(err))

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeQuotaExceeded, re.Code)
	assert.Equal(t, "run-1", re.RunToken)
}

func TestEngine_Check_ContextCancelled(t *testing.T) {
	e := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Check(ctx, nil, axiom.True)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Check_DrainOrderInvariance(t *testing.T) {
	a, b, c := axiom.Sym("a"), axiom.Sym("b"), axiom.Sym("c")
	p, q := axiom.Sym("p"), axiom.Sym("q")

	axs := []axiom.Axiom{
		axiom.Equal(a, b),
		axiom.Equal(b, c),
		axiom.New(geo.KindBefore, p, q),
		axiom.New(geo.KindOrient, a, geo.Horizontal),
	}
	reversed := make([]axiom.Axiom, len(axs))
	for i, ax := range axs {
		reversed[len(axs)-1-i] = ax
	}

	r1, err := newTestEngine().Check(context.Background(), nil, axs...)
	require.NoError(t, err)
	r2, err := newTestEngine().Check(context.Background(), nil, reversed...)
	require.NoError(t, err)

	require.True(t, r1.Consistent())
	require.True(t, r2.Consistent())

	f1, f2 := r1.Model.Facts(), r2.Model.Facts()
	require.Equal(t, len(f1), len(f2))
	for i := range f1 {
		assert.Equal(t, f1[i].String(), f2[i].String())
	}
}
