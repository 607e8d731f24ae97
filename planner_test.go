package cel

import "testing"

func TestPlannerMergesSelectChainIntoOneAttribute(t *testing.T) {
	// a.b.c as three AST nodes should lower into a single attrInterpretable
	// wrapping a merged namespacedAttribute, not nested fieldGetInterpretables.
	root := NewSelectNode(3, NewSelectNode(2, NewIdentNode(1, "a"), "b", false), "c", false)
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")
	plan := p.Plan(root)
	attrNode, ok := plan.(*attrInterpretable)
	if !ok {
		t.Fatalf("expected *attrInterpretable, got %T", plan)
	}
	if len(attrNode.attr.quals) != 2 {
		t.Fatalf("expected 2 merged qualifiers, got %d", len(attrNode.attr.quals))
	}
}

func TestPlannerFallsBackToFieldGetOnNonAttributeOperand(t *testing.T) {
	// (a + b).c cannot merge into a namespacedAttribute: the operand isn't
	// an identifier/select/const-index chain.
	call := NewCallNode(1, "_+_", nil, []Node{NewIdentNode(2, "a"), NewIdentNode(3, "b")})
	root := NewSelectNode(4, call, "c", false)
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")
	plan := p.Plan(root)
	if _, ok := plan.(*fieldGetInterpretable); !ok {
		t.Fatalf("expected *fieldGetInterpretable, got %T", plan)
	}
}

func TestPlannerHasCompilesToHasInterpretable(t *testing.T) {
	root := NewSelectNode(2, NewIdentNode(1, "a"), "b", true)
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")
	plan := p.Plan(root)
	if _, ok := plan.(*hasInterpretable); !ok {
		t.Fatalf("expected *hasInterpretable, got %T", plan)
	}
}

func TestPlannerAndOrCondLowerToDedicatedNodes(t *testing.T) {
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")

	and := p.Plan(NewCallNode(1, "_&&_", nil, []Node{NewConstNode(2, Bool(true)), NewConstNode(3, Bool(false))}))
	if _, ok := and.(*andInterpretable); !ok {
		t.Fatalf("expected *andInterpretable, got %T", and)
	}

	or := p.Plan(NewCallNode(4, "_||_", nil, []Node{NewConstNode(5, Bool(true)), NewConstNode(6, Bool(false))}))
	if _, ok := or.(*orInterpretable); !ok {
		t.Fatalf("expected *orInterpretable, got %T", or)
	}

	cond := p.Plan(NewCallNode(7, "_?_:_", nil, []Node{NewConstNode(8, Bool(true)), NewConstNode(9, Int(1)), NewConstNode(10, Int(2))}))
	if _, ok := cond.(*condInterpretable); !ok {
		t.Fatalf("expected *condInterpretable, got %T", cond)
	}
}

func TestPlannerShortCircuitCost(t *testing.T) {
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")
	and := p.Plan(NewCallNode(1, "_&&_", nil, []Node{NewConstNode(2, Bool(true)), NewConstNode(3, Bool(false))}))
	c := and.Cost()
	if c.min != 0 || c.max != 1 {
		t.Fatalf("expected shortCircuitCost(0,0 / 0,0) = (0,1), got (%d,%d)", c.min, c.max)
	}
}

func TestPlannerComprehensionCostExactForLiteralRange(t *testing.T) {
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")
	list := NewCreateListNode(1, []Node{NewConstNode(2, Int(1)), NewConstNode(3, Int(2)), NewConstNode(4, Int(3))})
	comp := NewComprehensionNode(5, "x", list, "__result__",
		NewConstNode(6, Bool(true)),
		NewConstNode(7, Bool(true)),
		NewConstNode(8, Bool(true)),
		NewIdentNode(9, "__result__"))
	plan := p.Plan(comp)
	c := plan.Cost()
	// range is an exact 3-element literal, body cost is 0 (const cond/step),
	// so min == max == tail cost (const accuInit 0 + ident result 1 -> 1).
	if c.min != c.max {
		t.Fatalf("expected exact cost for literal range, got (%d,%d)", c.min, c.max)
	}
}

func TestPlannerOverloadIDPreferredOverChecked(t *testing.T) {
	checked := &CheckedTypes{OverloadIDs: map[int64]string{1: "add_double"}}
	p := NewPlanner(NewDispatcher(), NewRegistry(), "")
	p.Checked = checked
	call := &CallNode{baseNode: baseNode{id: 1}, Function: "_+_", OverloadID: "add_int64", Args: []Node{NewConstNode(2, Int(1)), NewConstNode(3, Int(2))}}
	plan := p.Plan(call)
	c, ok := plan.(*callInterpretable)
	if !ok {
		t.Fatalf("expected *callInterpretable, got %T", plan)
	}
	if c.overloadID != "add_int64" {
		t.Fatalf("expected explicit OverloadID to win over Checked map, got %s", c.overloadID)
	}
}
