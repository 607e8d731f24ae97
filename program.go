package cel

// EvalDetails carries the optional per-node state recorded when
// trackState/exhaustiveEval decorators were installed, per spec.md §3's
// EvalState entity. Its State is nil when the Program was built without
// them.
type EvalDetails struct {
	state *EvalState
}

// State returns the recorded per-node values, or nil if state tracking
// was not enabled for this Program.
func (d *EvalDetails) State() *EvalState {
	if d == nil {
		return nil
	}
	return d.state
}

// ProgramOption configures NewProgram, following the teacher's
// constructor-with-options pattern (NewInterpreter wiring Core/Global by
// default, options layering on top).
type ProgramOption func(*programOptions)

type programOptions struct {
	optimize       bool
	exhaustiveEval bool
	trackState     bool
	interrupt      <-chan struct{}
}

// Optimize installs the constant-folding/specialization decorator.
func Optimize() ProgramOption { return func(o *programOptions) { o.optimize = true } }

// ExhaustiveEval installs the always-evaluate-both-arms decorator and
// records per-node results into the EvalDetails state.
func ExhaustiveEval() ProgramOption { return func(o *programOptions) { o.exhaustiveEval = true } }

// TrackState installs the per-node result recorder. Implies
// ExhaustiveEval ordering (spec.md §4.6: "exhaustiveEval must be applied
// before trackState") whenever both are requested together.
func TrackState() ProgramOption { return func(o *programOptions) { o.trackState = true } }

// WithInterrupt supplies the interrupt token comprehensions check before
// each iteration (spec.md §5).
func WithInterrupt(ch <-chan struct{}) ProgramOption {
	return func(o *programOptions) { o.interrupt = ch }
}

// Program is the public entry point bundling a planned Interpretable
// with the Registry/Dispatcher/decorator set used to build it, per
// SPEC_FULL.md §3.7 — analogous to the teacher's public Interpreter type
// delegating to a private execution core (interpreter.go).
type Program struct {
	root  interpretable
	state *EvalState
}

// NewProgram plans root against dispatcher/registry under container and
// returns a reusable Program. The same Program may be evaluated
// concurrently against distinct activations (spec.md §3's "Interpretable
// tree" entity).
func NewProgram(root Node, dispatcher *Dispatcher, registry *Registry, container string, checked *CheckedTypes, opts ...ProgramOption) *Program {
	var o programOptions
	for _, opt := range opts {
		opt(&o)
	}
	planner := NewPlanner(dispatcher, registry, container)
	planner.Checked = checked
	planner.Interrupt = o.interrupt

	var decorators []Decorator
	if o.optimize {
		decorators = append(decorators, OptimizeDecorator())
	}
	var state *EvalState
	if o.exhaustiveEval || o.trackState {
		if o.exhaustiveEval {
			decorators = append(decorators, ExhaustiveEvalDecorator())
		}
		state = NewEvalState()
		decorators = append(decorators, TrackStateDecorator(state))
	}

	return &Program{root: planner.Plan(root, decorators...), state: state}
}

// Eval runs the planned tree against act and returns the result value
// plus any recorded EvalDetails. Eval never returns a non-nil Go error
// for a CEL-level failure (an *Error, returned as the Value): the error
// return is reserved for host-side misuse this module cannot express as
// a Value (there currently is none, but the signature matches the
// teacher's Eval* family, which always returns a Go error alongside the
// result for symmetry with normal Go error handling).
func (p *Program) Eval(act Activation) (Value, *EvalDetails, error) {
	if p.state != nil {
		p.state.Reset()
	}
	v := p.root.Eval(act)
	return v, &EvalDetails{state: p.state}, nil
}

// Cost returns the planned tree's (min, max) evaluation-count estimate,
// per spec.md §4.5. Informational only; it does not affect Eval.
func (p *Program) Cost() (min, max uint64) {
	c := p.root.Cost()
	return c.min, c.max
}
