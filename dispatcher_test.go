package cel

import "testing"

func newStdDispatcher() *Dispatcher {
	d := NewDispatcher()
	RegisterStandardFunctions(d)
	return d
}

func TestDispatchIDAdd(t *testing.T) {
	d := newStdDispatcher()
	r := d.DispatchID("add_int64", []Value{Int(1), Int(2)})
	if r != Value(Int(3)) {
		t.Fatalf("got %v", r)
	}
}

func TestDispatchIDUnresolvedIsInternal(t *testing.T) {
	d := newStdDispatcher()
	r := d.DispatchID("no_such_id", nil)
	e, ok := r.(*Error)
	if !ok || e.Kind != Internal {
		t.Fatalf("got %v", r)
	}
}

func TestDispatchNamePicksTraitGuardedOverload(t *testing.T) {
	d := newStdDispatcher()
	r := d.DispatchName("_+_", []Value{Int(1), Int(2)})
	if r != Value(Int(3)) {
		t.Fatalf("got %v", r)
	}
	r = d.DispatchName("_+_", []Value{String("a"), String("b")})
	if r != Value(String("ab")) {
		t.Fatalf("got %v", r)
	}
}

func TestDispatchNameNoMatchIsNoSuchOverload(t *testing.T) {
	d := newStdDispatcher()
	r := d.DispatchName("_+_", []Value{Bool(true), Bool(false)})
	e, ok := r.(*Error)
	if !ok || e.Kind != NoSuchOverload {
		t.Fatalf("got %v", r)
	}
}

func TestDispatchPropagatesErrorOverUnknown(t *testing.T) {
	d := newStdDispatcher()
	err := NewDivideByZeroError()
	unk := NewUnknown(1)
	r := d.DispatchID("add_int64", []Value{err, unk})
	if r != Value(err) {
		t.Fatalf("expected error to dominate unknown across dispatch args, got %v", r)
	}
}

func TestDispatchMergesMultipleUnknowns(t *testing.T) {
	d := newStdDispatcher()
	u1 := NewUnknown(1)
	u2 := NewUnknown(2)
	r := d.DispatchID("add_int64", []Value{u1, u2})
	u, ok := r.(*Unknown)
	if !ok || len(u.NodeIDs) != 2 {
		t.Fatalf("expected merged unknown with 2 ids, got %v", r)
	}
}

func TestInListOverload(t *testing.T) {
	d := newStdDispatcher()
	l := NewList([]Value{Int(1), Int(2), Int(3)})
	r := d.DispatchID("in_list", []Value{Int(2), l})
	if r != Value(Bool(true)) {
		t.Fatalf("got %v", r)
	}
	r = d.DispatchID("in_list", []Value{Int(9), l})
	if r != Value(Bool(false)) {
		t.Fatalf("got %v", r)
	}
}
