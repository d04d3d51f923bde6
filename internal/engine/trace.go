package engine

import (
	"log/slog"
	"sync"

	"github.com/roach88/entail/internal/axiom"
)

// Observer receives diagnostic events during a run.
//
// Observers are a side channel: the engine calls them at well-defined
// points but never reads anything back, so an observer cannot influence
// the verdict. Hooks must not mutate the axioms they receive.
type Observer interface {
	// RewriteApplied fires when a normalize or simplify rule fires.
	// stage is "normalize" or "simplify".
	RewriteApplied(token string, stage string, before axiom.Atom, after axiom.Axiom)

	// BranchTaken fires when a disjunction forks a branch.
	BranchTaken(parent string, branch string, member axiom.Axiom)

	// VetoOccurred fires when a submodel refuses a merge.
	VetoOccurred(token string, submodel string, reason string)

	// AxiomUnsatisfiable fires when committing an axiom contradicts
	// the model (the branch is about to die).
	AxiomUnsatisfiable(token string, at axiom.Atom, reason string)

	// RunCompleted fires once per run (and once per branch) with the
	// terminal phase.
	RunCompleted(token string, phase Phase, steps int)
}

// NopObserver discards all events. It is the default when no observer
// is configured.
type NopObserver struct{}

func (NopObserver) RewriteApplied(string, string, axiom.Atom, axiom.Axiom) {}
func (NopObserver) BranchTaken(string, string, axiom.Axiom)                {}
func (NopObserver) VetoOccurred(string, string, string)                   {}
func (NopObserver) AxiomUnsatisfiable(string, axiom.Atom, string)         {}
func (NopObserver) RunCompleted(string, Phase, int)                       {}

// SlogObserver logs every event at debug level through a slog.Logger.
type SlogObserver struct {
	Log *slog.Logger
}

// NewSlogObserver wraps a logger. A nil logger falls back to slog.Default.
func NewSlogObserver(log *slog.Logger) *SlogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &SlogObserver{Log: log}
}

func (o *SlogObserver) RewriteApplied(token, stage string, before axiom.Atom, after axiom.Axiom) {
	o.Log.Debug("rewrite applied",
		"run", token,
		"stage", stage,
		"before", before.String(),
		"after", axiom.Render(after))
}

func (o *SlogObserver) BranchTaken(parent, branch string, member axiom.Axiom) {
	o.Log.Debug("branch taken",
		"run", parent,
		"branch", branch,
		"member", axiom.Render(member))
}

func (o *SlogObserver) VetoOccurred(token, submodel, reason string) {
	o.Log.Debug("merge vetoed",
		"run", token,
		"submodel", submodel,
		"reason", reason)
}

func (o *SlogObserver) AxiomUnsatisfiable(token string, at axiom.Atom, reason string) {
	o.Log.Debug("axiom unsatisfiable",
		"run", token,
		"axiom", at.String(),
		"reason", reason)
}

func (o *SlogObserver) RunCompleted(token string, phase Phase, steps int) {
	o.Log.Debug("run completed",
		"run", token,
		"phase", phase.String(),
		"steps", steps)
}

// TraceEvent is one recorded observer event. The Seq field gives a
// total order over events from a single run, including events from
// forked branches.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Type     string `json:"type"`
	RunToken string `json:"run_token"`
	Stage    string `json:"stage,omitempty"`
	Before   string `json:"before,omitempty"`
	After    string `json:"after,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Member   string `json:"member,omitempty"`
	Submodel string `json:"submodel,omitempty"`
	Axiom    string `json:"axiom,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Phase    string `json:"phase,omitempty"`
	Steps    int    `json:"steps,omitempty"`
}

// Tracer collects events in memory for golden comparison and the run
// log. Events are stamped with a logical clock, not wall time, so two
// identical runs produce identical traces.
//
// Thread-safety: Tracer is safe for concurrent use.
type Tracer struct {
	mu     sync.Mutex
	clock  *Clock
	events []TraceEvent
}

// NewTracer creates an empty tracer with its own clock.
func NewTracer() *Tracer {
	return &Tracer{clock: NewClock()}
}

// Events returns a copy of the recorded events in sequence order.
func (t *Tracer) Events() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEvent, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Tracer) record(ev TraceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = t.clock.Next()
	t.events = append(t.events, ev)
}

func (t *Tracer) RewriteApplied(token, stage string, before axiom.Atom, after axiom.Axiom) {
	t.record(TraceEvent{
		Type:     "rewrite",
		RunToken: token,
		Stage:    stage,
		Before:   before.String(),
		After:    axiom.Render(after),
	})
}

func (t *Tracer) BranchTaken(parent, branch string, member axiom.Axiom) {
	t.record(TraceEvent{
		Type:     "branch",
		RunToken: parent,
		Branch:   branch,
		Member:   axiom.Render(member),
	})
}

func (t *Tracer) VetoOccurred(token, submodel, reason string) {
	t.record(TraceEvent{
		Type:     "veto",
		RunToken: token,
		Submodel: submodel,
		Reason:   reason,
	})
}

func (t *Tracer) AxiomUnsatisfiable(token string, at axiom.Atom, reason string) {
	t.record(TraceEvent{
		Type:     "unsatisfiable",
		RunToken: token,
		Axiom:    at.String(),
		Reason:   reason,
	})
}

func (t *Tracer) RunCompleted(token string, phase Phase, steps int) {
	t.record(TraceEvent{
		Type:     "completed",
		RunToken: token,
		Phase:    phase.String(),
		Steps:    steps,
	})
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) RewriteApplied(token, stage string, before axiom.Atom, after axiom.Axiom) {
	for _, o := range m {
		o.RewriteApplied(token, stage, before, after)
	}
}

func (m MultiObserver) BranchTaken(parent, branch string, member axiom.Axiom) {
	for _, o := range m {
		o.BranchTaken(parent, branch, member)
	}
}

func (m MultiObserver) VetoOccurred(token, submodel, reason string) {
	for _, o := range m {
		o.VetoOccurred(token, submodel, reason)
	}
}

func (m MultiObserver) AxiomUnsatisfiable(token string, at axiom.Atom, reason string) {
	for _, o := range m {
		o.AxiomUnsatisfiable(token, at, reason)
	}
}

func (m MultiObserver) RunCompleted(token string, phase Phase, steps int) {
	for _, o := range m {
		o.RunCompleted(token, phase, steps)
	}
}
