package cel

import "testing"

func newStdProgram(root Node, opts ...ProgramOption) *Program {
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	return NewProgram(root, d, NewRegistry(), "", nil, opts...)
}

// Scenario 1: `false && true` with empty activation -> false. Cost ∈ [0,1].
func TestScenarioFalseAndTrue(t *testing.T) {
	root := NewCallNode(1, "_&&_", nil, []Node{NewConstNode(2, Bool(false)), NewConstNode(3, Bool(true))})
	p := newStdProgram(root)
	v, _, err := p.Eval(NewActivation(nil))
	if err != nil {
		t.Fatal(err)
	}
	if v != Value(Bool(false)) {
		t.Fatalf("got %v", v)
	}
	min, max := p.Cost()
	if min < 0 || max > 1 {
		t.Fatalf("expected cost in [0,1], got (%d,%d)", min, max)
	}
}

// Scenario 2: `1/0 != 0 && false` -> false under normal (short-circuit)
// evaluation; the same program under exhaustiveEval -> divide_by_zero.
func TestScenarioShortCircuitVsExhaustive(t *testing.T) {
	buildRoot := func() Node {
		div := NewCallNode(10, "_/_", nil, []Node{NewConstNode(11, Int(1)), NewConstNode(12, Int(0))})
		div.OverloadID = "divide_int64"
		notEq := NewCallNode(13, "_!=_", nil, []Node{div, NewConstNode(14, Int(0))})
		notEq.OverloadID = "not_equals"
		return NewCallNode(1, "_&&_", nil, []Node{notEq, NewConstNode(15, Bool(false))})
	}

	normal := newStdProgram(buildRoot())
	v, _, err := normal.Eval(NewActivation(nil))
	if err != nil {
		t.Fatal(err)
	}
	if v != Value(Bool(false)) {
		t.Fatalf("expected short-circuit false, got %v", v)
	}

	exhaustive := newStdProgram(buildRoot(), ExhaustiveEval())
	v2, _, err := exhaustive.Eval(NewActivation(nil))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := v2.(*Error)
	if !ok || e.Kind != DivideByZero {
		t.Fatalf("expected divide_by_zero under exhaustiveEval, got %v", v2)
	}
}

// TestExhaustiveEvalWithTrackStateRecordsSkippedBranch verifies exhaustiveEval
// changes what trackState observes: the divide node's error is recorded
// only when exhaustiveEval forces its evaluation.
func TestExhaustiveEvalWithTrackStateRecordsSkippedBranch(t *testing.T) {
	buildRoot := func() *CallNode {
		div := NewCallNode(3, "_/_", nil, []Node{NewConstNode(4, Int(1)), NewConstNode(5, Int(0))})
		div.OverloadID = "divide_int64"
		return NewCallNode(1, "_&&_", nil, []Node{NewConstNode(2, Bool(false)), div})
	}

	plain := newStdProgram(buildRoot(), TrackState())
	v, details, err := plain.Eval(NewActivation(nil))
	if err != nil {
		t.Fatal(err)
	}
	if v != Value(Bool(false)) {
		t.Fatalf("got %v", v)
	}
	if _, ok := details.State().Value(3); ok {
		t.Fatal("expected the divide node to be unevaluated (and unrecorded) under plain &&")
	}

	exhaustive := newStdProgram(buildRoot(), ExhaustiveEval(), TrackState())
	v2, details2, err := exhaustive.Eval(NewActivation(nil))
	if err != nil {
		t.Fatal(err)
	}
	if v2 != Value(Bool(false)) {
		t.Fatalf("got %v", v2)
	}
	recorded, ok := details2.State().Value(3)
	if !ok {
		t.Fatal("expected the divide node to be recorded once exhaustiveEval forces its evaluation")
	}
	e, ok := recorded.(*Error)
	if !ok || e.Kind != DivideByZero {
		t.Fatalf("expected recorded divide_by_zero error, got %v", recorded)
	}
}

// Scenario 3: `headers.ip in ["10.0.1.4","10.0.1.5"]` with headers bound as
// given -> false.
func TestScenarioInListMembership(t *testing.T) {
	ip := NewSelectNode(2, NewIdentNode(1, "headers"), "ip", false)
	list := NewCreateListNode(3, []Node{NewConstNode(4, String("10.0.1.4")), NewConstNode(5, String("10.0.1.5"))})
	root := NewCallNode(6, "@in", nil, []Node{ip, list})
	root.OverloadID = "in_list"

	headers := mustMap(t, map[string]Value{
		"ip":    String("10.0.1.2"),
		"path":  String("/admin/edit"),
		"token": String("admin"),
	})
	p := newStdProgram(root)
	v, _, err := p.Eval(NewActivation(map[string]Value{"headers": headers}))
	if err != nil {
		t.Fatal(err)
	}
	if v != Value(Bool(false)) {
		t.Fatalf("got %v", v)
	}
}

// Scenario 4: `[1,2,3].map(x, x*2) == [2,4,6]` -> true. map(x, x*2) is
// expressed via its comprehension fold-shape expansion (spec.md §4.5/§9):
// accumulator is a growing list, step appends x*2, result is the accumulator.
func TestScenarioMapComprehensionEqualsLiteral(t *testing.T) {
	srcList := NewCreateListNode(1, []Node{NewConstNode(2, Int(1)), NewConstNode(3, Int(2)), NewConstNode(4, Int(3))})

	doubled := NewCallNode(5, "_*_", nil, []Node{NewIdentNode(6, "x"), NewConstNode(7, Int(2))})
	doubled.OverloadID = "multiply_int64"
	step := NewCallNode(8, "_+_", nil, []Node{NewIdentNode(9, "__accu__"), NewCreateListNode(10, []Node{doubled})})
	step.OverloadID = "add_list"

	comp := NewComprehensionNode(11, "x", srcList, "__accu__",
		NewCreateListNode(12, nil),
		NewConstNode(13, Bool(true)),
		step,
		NewIdentNode(14, "__accu__"))

	want := NewCreateListNode(15, []Node{NewConstNode(16, Int(2)), NewConstNode(17, Int(4)), NewConstNode(18, Int(6))})
	eq := NewCallNode(19, "_==_", nil, []Node{comp, want})
	eq.OverloadID = "equals"

	p := newStdProgram(eq)
	v, _, err := p.Eval(NewActivation(nil))
	if err != nil {
		t.Fatal(err)
	}
	if v != Value(Bool(true)) {
		t.Fatalf("got %v", v)
	}
}

// Scenario 5: `a.b.c` with both a.b.c=10 and a.b={c:"ten"} bound -> 10
// (subsumption); with only a.b={c:"ten"} bound -> "ten".
func TestScenarioSubsumption(t *testing.T) {
	root := NewSelectNode(3, NewSelectNode(2, NewIdentNode(1, "a"), "b", false), "c", false)
	p := newStdProgram(root)

	innerMap := mustMap(t, map[string]Value{"c": String("ten")})
	act := NewActivation(map[string]Value{"a.b.c": Int(10), "a.b": innerMap})
	v, _, err := p.Eval(act)
	if err != nil {
		t.Fatal(err)
	}
	if v != Value(Int(10)) {
		t.Fatalf("expected the longer binding to win, got %v", v)
	}

	act2 := NewActivation(map[string]Value{"a.b": innerMap})
	v2, _, err := p.Eval(act2)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != Value(String("ten")) {
		t.Fatalf("expected qualifier access into the shorter binding, got %v", v2)
	}
}

// Scenario 6: `timestamp('1986-04-26T01:23:40Z')` under optimize folds to a
// constant interpretable; cost (0,0).
func TestScenarioOptimizeFoldsTimestampConstructor(t *testing.T) {
	arg := NewConstNode(2, String("1986-04-26T01:23:40Z"))
	root := NewCallNode(1, "timestamp", nil, []Node{arg})
	root.OverloadID = "string_to_timestamp"

	d := NewDispatcher()
	RegisterStandardFunctions(d)
	p := NewPlanner(d, NewRegistry(), "")
	plan := p.Plan(root, OptimizeDecorator())

	c, ok := plan.(*constInterpretable)
	if !ok {
		t.Fatalf("expected constant-folded timestamp, got %T", plan)
	}
	ts, ok := c.val.(Timestamp)
	if !ok {
		t.Fatalf("expected Timestamp value, got %T", c.val)
	}
	if got := int64(ts.ConvertToType(IntType).(Int)); got != 514862620 {
		t.Fatalf("expected unix seconds 514862620, got %d", got)
	}
	cst := plan.Cost()
	if cst.min != 0 || cst.max != 0 {
		t.Fatalf("expected cost (0,0), got (%d,%d)", cst.min, cst.max)
	}
}

// Scenario 7: `uint(-1)` -> range error, identical message at plan time
// (under optimize) and at runtime (without).
func TestScenarioUintNegativeOneRangeErrorIdentical(t *testing.T) {
	buildRoot := func() *CallNode {
		neg := NewCallNode(2, "-_", nil, []Node{NewConstNode(3, Int(1))})
		neg.OverloadID = "negate_int64"
		root := NewCallNode(1, "uint", nil, []Node{neg})
		root.OverloadID = "to_uint"
		return root
	}

	d := NewDispatcher()
	RegisterStandardFunctions(d)
	pOpt := NewPlanner(d, NewRegistry(), "")
	planOpt := pOpt.Plan(buildRoot(), OptimizeDecorator())
	c, ok := planOpt.(*constInterpretable)
	if !ok {
		t.Fatalf("expected constant-folded range error at plan time, got %T", planOpt)
	}
	planErr, ok := c.val.(*Error)
	if !ok || planErr.Kind != RangeErr {
		t.Fatalf("expected range error, got %v", c.val)
	}

	pRuntime := NewPlanner(d, NewRegistry(), "")
	planRuntime := pRuntime.Plan(buildRoot())
	runtimeVal := planRuntime.Eval(NewActivation(nil))
	runtimeErr, ok := runtimeVal.(*Error)
	if !ok || runtimeErr.Kind != RangeErr {
		t.Fatalf("expected range error, got %v", runtimeVal)
	}

	if planErr.Message != runtimeErr.Message {
		t.Fatalf("expected identical error message, got %q vs %q", planErr.Message, runtimeErr.Message)
	}
}
