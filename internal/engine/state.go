package engine

import (
	"github.com/roach88/entail/internal/axiom"
	"github.com/roach88/entail/internal/model"
)

// Phase is the run state machine position. Draining and Branching are
// transient; Solved and Unsatisfiable are terminal.
type Phase int

const (
	// PhaseDraining means the run is taking and dispatching axioms.
	PhaseDraining Phase = iota + 1
	// PhaseBranching means the run is evaluating disjunction branches.
	PhaseBranching
	// PhaseSolved means the store drained with a consistent model.
	PhaseSolved
	// PhaseUnsatisfiable means a contradiction ended the run.
	PhaseUnsatisfiable
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDraining:
		return "draining"
	case PhaseBranching:
		return "branching"
	case PhaseSolved:
		return "solved"
	case PhaseUnsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown"
	}
}

// ReasoningState is the unit of work for one run or one disjunction
// branch: the pending axioms, the model under construction, and the
// set of axioms no submodel could handle.
type ReasoningState struct {
	Store *AxiomStore
	Model *model.Model
	Phase Phase

	// Conflict identifies the contradiction that made the phase
	// unsatisfiable, when one was pinned down.
	Conflict *model.Conflict

	unhandled     []axiom.Atom
	unhandledKeys map[string]struct{}
}

// NewState creates a fresh state around a model, in the draining phase
// with nothing pending.
func NewState(m *model.Model) *ReasoningState {
	return &ReasoningState{
		Store:         NewAxiomStore(),
		Model:         m,
		Phase:         PhaseDraining,
		unhandledKeys: make(map[string]struct{}),
	}
}

// AddUnhandled records an atom no submodel recognized. Duplicate atoms
// (by content-addressed fact key) collapse into one record, which keeps
// the union during branch recombination well defined.
func (st *ReasoningState) AddUnhandled(at axiom.Atom) {
	key, err := axiom.FactKey(at)
	if err != nil {
		// An unkeyable atom still surfaces; dedup falls back to rendering.
		key = at.String()
	}
	if _, ok := st.unhandledKeys[key]; ok {
		return
	}
	st.unhandledKeys[key] = struct{}{}
	st.unhandled = append(st.unhandled, at)
}

// Unhandled returns the recorded unhandled atoms in first-seen order.
func (st *ReasoningState) Unhandled() []axiom.Atom {
	out := make([]axiom.Atom, len(st.unhandled))
	copy(out, st.unhandled)
	return out
}
