package cel

import "testing"

func TestOptimizeConstantFoldsArithmetic(t *testing.T) {
	// 1 + 2, both operands constant, should fold to a single constInterpretable
	// at plan time.
	root := NewCallNode(1, "_+_", nil, []Node{NewConstNode(2, Int(1)), NewConstNode(3, Int(2))})
	root.OverloadID = "add_int64"
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	p := NewPlanner(d, NewRegistry(), "")
	plan := p.Plan(root, OptimizeDecorator())
	c, ok := plan.(*constInterpretable)
	if !ok {
		t.Fatalf("expected constant-folded *constInterpretable, got %T", plan)
	}
	if c.val != Value(Int(3)) {
		t.Fatalf("got %v", c.val)
	}
}

func TestOptimizeDoesNotFoldNonConstantOperand(t *testing.T) {
	root := NewCallNode(1, "_+_", nil, []Node{NewIdentNode(2, "x"), NewConstNode(3, Int(2))})
	root.OverloadID = "add_int64"
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	p := NewPlanner(d, NewRegistry(), "")
	plan := p.Plan(root, OptimizeDecorator())
	if _, ok := plan.(*constInterpretable); ok {
		t.Fatal("expected the identifier operand to block constant folding")
	}
}

func TestOptimizeSpecializesConstInList(t *testing.T) {
	list := NewCreateListNode(2, []Node{NewConstNode(3, Int(1)), NewConstNode(4, Int(2)), NewConstNode(5, Int(3))})
	root := NewCallNode(1, "@in", nil, []Node{NewIdentNode(6, "x"), list})
	root.OverloadID = "in_list"
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	p := NewPlanner(d, NewRegistry(), "")
	plan := p.Plan(root, OptimizeDecorator())
	setNode, ok := plan.(*constSetInInterpretable)
	if !ok {
		t.Fatalf("expected *constSetInInterpretable, got %T", plan)
	}
	act := NewActivation(map[string]Value{"x": Int(2)})
	if r := setNode.Eval(act); r != Value(Bool(true)) {
		t.Fatalf("got %v", r)
	}
	act2 := NewActivation(map[string]Value{"x": Int(9)})
	if r := setNode.Eval(act2); r != Value(Bool(false)) {
		t.Fatalf("got %v", r)
	}
}

func TestOptimizeDoesNotSpecializeNonConstantList(t *testing.T) {
	list := NewCreateListNode(2, []Node{NewIdentNode(3, "y"), NewConstNode(4, Int(2))})
	root := NewCallNode(1, "@in", nil, []Node{NewIdentNode(5, "x"), list})
	root.OverloadID = "in_list"
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	p := NewPlanner(d, NewRegistry(), "")
	plan := p.Plan(root, OptimizeDecorator())
	if _, ok := plan.(*constSetInInterpretable); ok {
		t.Fatal("expected non-constant list element to block specialization")
	}
}

func TestExhaustiveEvalRewritesAndOr(t *testing.T) {
	and := &andInterpretable{id: 1, l: &constInterpretable{id: 2, val: Bool(false)}, r: &constInterpretable{id: 3, val: Bool(true)}}
	rewritten := ExhaustiveEvalDecorator()(and)
	if _, ok := rewritten.(*exhaustiveAndInterpretable); !ok {
		t.Fatalf("expected *exhaustiveAndInterpretable, got %T", rewritten)
	}
	or := &orInterpretable{id: 1, l: &constInterpretable{id: 2, val: Bool(true)}, r: &constInterpretable{id: 3, val: Bool(false)}}
	rewrittenOr := ExhaustiveEvalDecorator()(or)
	if _, ok := rewrittenOr.(*exhaustiveOrInterpretable); !ok {
		t.Fatalf("expected *exhaustiveOrInterpretable, got %T", rewrittenOr)
	}
}

func TestTrackStateRecordsResultByNodeID(t *testing.T) {
	state := NewEvalState()
	inner := &constInterpretable{id: 5, val: Int(9)}
	wrapped := TrackStateDecorator(state)(inner)
	if r := wrapped.Eval(NewActivation(nil)); r != Value(Int(9)) {
		t.Fatalf("got %v", r)
	}
	v, ok := state.Value(5)
	if !ok || v != Value(Int(9)) {
		t.Fatalf("expected state[5] = 9, got %v, %v", v, ok)
	}
}
