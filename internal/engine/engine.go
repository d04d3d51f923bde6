package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/entail/internal/axiom"
	"github.com/roach88/entail/internal/model"
)

// DefaultMaxSteps bounds the number of take/dispatch steps per run,
// counted across all branches. Rewrites are required to make progress,
// so a well-formed vocabulary never gets near this; the quota exists to
// turn a buggy rewrite loop into an error instead of a hang.
const DefaultMaxSteps = 10000

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps overrides the per-run step quota. n <= 0 keeps the
// default.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithObserver installs a diagnostic observer. Observers see rewrites,
// branches, vetoes, and terminal phases; they never affect the verdict.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithTokenGenerator overrides run token generation. Tests use
// FixedGenerator for deterministic traces.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.tokens = g
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine drains an axiom store, applies rewrite dispatch, commits
// fundamental atoms, and forks/recombines state for disjunctions.
//
// An Engine is configured once and reused; each Check call builds its
// model from scratch via the model factory.
type Engine struct {
	registry *axiom.Registry
	newModel func() *model.Model
	observer Observer
	tokens   TokenGenerator
	maxSteps int
	log      *slog.Logger
}

// New creates an engine over a capability registry and a model factory.
// The factory is called once per run and once per branch recombination,
// so it must return a fresh, empty model each time.
func New(reg *axiom.Registry, newModel func() *model.Model, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		newModel: newModel,
		observer: NopObserver{},
		tokens:   UUIDv7Generator{},
		maxSteps: DefaultMaxSteps,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one top-level Check.
type Result struct {
	// RunToken identifies the run in traces, logs, and errors.
	RunToken string

	// Phase is the terminal phase: PhaseSolved or PhaseUnsatisfiable.
	Phase Phase

	// Model is the terminal model. Nil when unsatisfiable.
	Model *model.Model

	// Unhandled lists atoms no submodel recognized, deduplicated.
	// A non-empty list does not make the run inconsistent.
	Unhandled []axiom.Atom

	// Conflict identifies the triggering contradiction when the run is
	// unsatisfiable and one was pinned down.
	Conflict *model.Conflict

	// Steps is the number of take/dispatch steps across all branches.
	Steps int

	// Branches is the number of disjunction branches explored.
	Branches int
}

// Consistent reports whether the run ended with a satisfiable model.
func (r *Result) Consistent() bool {
	return r.Phase == PhaseSolved
}

// Check runs the full consistency procedure over the given axioms.
//
// The arena must be the one that allocated any variables appearing in
// the axioms, so that variables the engine introduces during simplify
// cannot collide with them; passing nil creates a fresh arena (fine
// when the input contains no variables).
//
// Check returns an error only for structural violations, quota
// exhaustion, or context cancellation. A logical contradiction is not
// an error: it comes back as a Result in PhaseUnsatisfiable.
func (e *Engine) Check(ctx context.Context, arena *axiom.Arena, axioms ...axiom.Axiom) (*Result, error) {
	if arena == nil {
		arena = axiom.NewArena()
	}
	token := e.tokens.Generate()

	for _, ax := range axioms {
		if err := e.validateAxiom(ax); err != nil {
			return nil, NewStructuralError(token, err)
		}
	}

	e.log.Debug("check started", "run", token, "axioms", len(axioms))

	st := NewState(e.newModel())
	st.Store.TellAll(axioms)

	r := &run{engine: e, arena: arena}
	if err := r.drain(ctx, st, token); err != nil {
		return nil, err
	}

	res := &Result{
		RunToken:  token,
		Phase:     st.Phase,
		Unhandled: st.Unhandled(),
		Conflict:  st.Conflict,
		Steps:     r.steps,
		Branches:  r.branches,
	}
	if st.Phase == PhaseSolved {
		res.Model = st.Model
	}

	e.log.Debug("check finished",
		"run", token,
		"phase", st.Phase.String(),
		"steps", r.steps,
		"branches", r.branches,
		"unhandled", len(res.Unhandled))
	return res, nil
}

// validateAxiom walks an axiom tree rejecting malformed atoms. A
// violation here is a vocabulary-construction defect, fatal to the
// whole check, and never a logical contradiction.
func (e *Engine) validateAxiom(ax axiom.Axiom) error {
	switch v := ax.(type) {
	case nil:
		return errors.New("nil axiom")
	case axiom.Atom:
		return e.registry.Validate(v)
	case axiom.Conj:
		for _, m := range v.Members {
			if err := e.validateAxiom(m); err != nil {
				return err
			}
		}
	case axiom.Disj:
		for _, m := range v.Members {
			if err := e.validateAxiom(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// run carries per-check mutable bookkeeping shared across branches:
// the step counter (the quota is global, so a branch explosion cannot
// dodge it) and the branch count.
type run struct {
	engine   *Engine
	arena    *axiom.Arena
	steps    int
	branches int
}

// drain takes and dispatches axioms until the state reaches a terminal
// phase. Called once for the top-level state and once per disjunction
// branch. Returns an error only for fatal conditions (structural,
// quota, cancellation); contradictions land in st.Phase / st.Conflict.
func (r *run) drain(ctx context.Context, st *ReasoningState, token string) error {
	e := r.engine
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ax, ok := st.Store.Take()
		if !ok {
			st.Phase = PhaseSolved
			e.observer.RunCompleted(token, st.Phase, r.steps)
			return nil
		}

		r.steps++
		if r.steps > e.maxSteps {
			return NewQuotaError(token, r.steps, e.maxSteps)
		}

		switch v := ax.(type) {
		case axiom.TrueAxiom:
			// no-op success

		case axiom.FalseAxiom:
			st.Phase = PhaseUnsatisfiable
			st.Conflict = &model.Conflict{Submodel: "engine", Reason: "explicit false axiom"}
			e.observer.RunCompleted(token, st.Phase, r.steps)
			return nil

		case axiom.Conj:
			// Tell flattens conjunctions on entry, so this only
			// happens for conjunctions nested under a disjunct.
			st.Store.TellAll(v.Members)

		case axiom.Disj:
			if len(v.Members) == 0 {
				// vacuously satisfied
				continue
			}
			if err := r.branch(ctx, st, token, v); err != nil {
				return err
			}
			if st.Phase == PhaseUnsatisfiable {
				e.observer.RunCompleted(token, st.Phase, r.steps)
				return nil
			}

		case axiom.Atom:
			if err := r.dispatch(st, token, v); err != nil {
				return err
			}
			if st.Phase == PhaseUnsatisfiable {
				e.observer.RunCompleted(token, st.Phase, r.steps)
				return nil
			}
		}
	}
}

// dispatch runs one atom through the rewrite chain: normalize, then
// simplify, then a fundamental commit. Rewrite products go back into
// the store and are consumed on later steps.
func (r *run) dispatch(st *ReasoningState, token string, at axiom.Atom) error {
	e := r.engine

	// Rewrites can emit atoms too, so every atom is re-checked here,
	// not just the client-supplied ones.
	if err := e.registry.Validate(at); err != nil {
		return NewStructuralError(token, err)
	}
	capa, _ := e.registry.Lookup(at.Kind)

	if capa.Normalize != nil {
		if out, ok := capa.Normalize(r.arena, at); ok {
			e.observer.RewriteApplied(token, "normalize", at, out)
			st.Store.Tell(out)
			return nil
		}
	}
	if capa.Simplify != nil {
		if out, ok := capa.Simplify(r.arena, at); ok {
			e.observer.RewriteApplied(token, "simplify", at, out)
			st.Store.Tell(out)
			return nil
		}
	}

	followups, err := st.Model.Commit(at)
	switch {
	case err == nil:
		st.Store.TellAll(followups)
	case errors.Is(err, model.ErrNoSubmodel):
		st.AddUnhandled(at)
	default:
		var c *model.Conflict
		if !errors.As(err, &c) {
			return err
		}
		if at.Kind == axiom.KindEqual {
			e.observer.VetoOccurred(token, c.Submodel, c.Reason)
		}
		e.observer.AxiomUnsatisfiable(token, at, c.Reason)
		st.Phase = PhaseUnsatisfiable
		st.Conflict = c
	}
	return nil
}

// branch forks the run for a disjunction: each disjunct gets a cloned
// model and a fresh state holding only that disjunct, run to
// completion. Surviving branches are recombined into a model holding
// exactly the facts common to all of them; the unhandled sets are
// unioned. Zero survivors makes the enclosing state unsatisfiable.
func (r *run) branch(ctx context.Context, st *ReasoningState, token string, d axiom.Disj) error {
	e := r.engine
	st.Phase = PhaseBranching

	var survivors []*ReasoningState
	for i, member := range d.Members {
		branchToken := fmt.Sprintf("%s/%d", token, i)
		r.branches++
		e.observer.BranchTaken(token, branchToken, member)

		bst := NewState(st.Model.Clone())
		bst.Store.Tell(member)
		if err := r.drain(ctx, bst, branchToken); err != nil {
			return err
		}
		if bst.Phase == PhaseSolved {
			survivors = append(survivors, bst)
		}
	}

	if len(survivors) == 0 {
		st.Phase = PhaseUnsatisfiable
		st.Conflict = &model.Conflict{
			Submodel: "engine",
			Reason:   fmt.Sprintf("all %d disjunction branches unsatisfiable", len(d.Members)),
		}
		return nil
	}

	recombined, err := r.recombine(survivors)
	if err != nil {
		return err
	}
	st.Model = recombined
	for _, b := range survivors {
		for _, at := range b.Unhandled() {
			st.AddUnhandled(at)
		}
	}
	st.Phase = PhaseDraining
	return nil
}

// recombine builds a fresh model holding the facts present in every
// surviving branch, encoding "true in every possible world".
//
// Equivalence facts commit first, then distinctness, then the rest:
// domain facts shared by all branches may only be compatible once the
// shared equivalences have merged their classes, so committing them
// under the merged classes avoids spurious conflicts.
func (r *run) recombine(survivors []*ReasoningState) (*model.Model, error) {
	candidates := survivors[0].Model.Facts()
	var kept []axiom.Atom
	for _, at := range candidates {
		common := true
		for _, b := range survivors[1:] {
			if !b.Model.Knows(at) {
				common = false
				break
			}
		}
		if common {
			kept = append(kept, at)
		}
	}

	rank := func(k axiom.Kind) int {
		switch k {
		case axiom.KindEqual:
			return 0
		case axiom.KindDistinct:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return rank(kept[i].Kind) < rank(kept[j].Kind)
	})

	m := r.engine.newModel()
	work := make([]axiom.Axiom, 0, len(kept))
	for _, at := range kept {
		work = append(work, at)
	}
	for len(work) > 0 {
		next := work[0]
		work = work[1:]
		at, ok := next.(axiom.Atom)
		if !ok {
			continue
		}
		followups, err := m.Commit(at)
		if err != nil {
			if errors.Is(err, model.ErrNoSubmodel) {
				continue
			}
			// Facts known to every consistent branch cannot
			// contradict each other; anything else is a submodel bug.
			return nil, fmt.Errorf("recombining branch models: %w", err)
		}
		work = append(work, followups...)
	}
	return m, nil
}
