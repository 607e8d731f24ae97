package cel

import "testing"

func TestTypeValueEqualComparesKindAndName(t *testing.T) {
	a := TypeVal(IntType)
	b := TypeVal(IntType)
	c := TypeVal(StringType)
	if r := a.Equal(b); r != Value(Bool(true)) {
		t.Fatalf("got %v", r)
	}
	if r := a.Equal(c); r != Value(Bool(false)) {
		t.Fatalf("got %v", r)
	}
}

func TestTypeValueConvertToStringRendersTypeName(t *testing.T) {
	tv := TypeVal(ListTypeDyn)
	if r := tv.ConvertToType(StringType); r != Value(String("list(dyn)")) {
		t.Fatalf("got %v", r)
	}
}

func TestTypeBuiltinProducesTypeValue(t *testing.T) {
	root := NewCallNode(1, "type", nil, []Node{NewConstNode(2, Int(5))})
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	p := NewPlanner(d, NewRegistry(), "")
	plan := p.Plan(root)
	v := plan.Eval(NewActivation(nil))
	tv, ok := v.(*TypeValue)
	if !ok {
		t.Fatalf("expected *TypeValue, got %T", v)
	}
	if tv.Val != IntType {
		t.Fatalf("expected IntType, got %v", tv.Val)
	}
}
