package cel

import "testing"

func TestListGetOutOfRange(t *testing.T) {
	l := NewList([]Value{Int(1), Int(2)})
	r := l.Get(Int(5))
	e, ok := r.(*Error)
	if !ok || e.Kind != RangeErr {
		t.Fatalf("expected range error, got %v", r)
	}
}

func TestListContainsTrueDespiteEarlierError(t *testing.T) {
	// [error, 2] contains 2 -> true: comparing against the first element
	// yields its error, but the later true match wins ("true anywhere
	// wins" half of the contract).
	l := NewList([]Value{NewDivideByZeroError(), Int(2)})
	r := l.Contains(Int(2))
	b, ok := r.(Bool)
	if !ok || !bool(b) {
		t.Fatalf("expected true despite an error element, got %v", r)
	}
}

func TestListContainsPropagatesErrorWhenNoMatch(t *testing.T) {
	l := NewList([]Value{NewDivideByZeroError(), Int(2)})
	r := l.Contains(Int(3))
	e, ok := r.(*Error)
	if !ok || e.Kind != DivideByZero {
		t.Fatalf("expected the element error to propagate, got %v", r)
	}
}

func TestMapDuplicateKeyRejected(t *testing.T) {
	_, err := NewMap([]Value{String("a"), String("a")}, []Value{Int(1), Int(2)})
	if err == nil || err.Kind != DuplicateKey {
		t.Fatalf("expected duplicate_key error, got %v", err)
	}
}

func TestMapGetMissingKeyIsNoSuchAttribute(t *testing.T) {
	m, err := NewMap([]Value{String("a")}, []Value{Int(1)})
	if err != nil {
		t.Fatal(err)
	}
	r := m.Get(String("b"))
	e, ok := r.(*Error)
	if !ok || e.Kind != NoSuchAttribute {
		t.Fatalf("expected no_such_attribute, got %v", r)
	}
}

func TestMapFindDistinguishesMissingFromError(t *testing.T) {
	m, err := NewMap([]Value{String("a")}, []Value{Int(1)})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Find(String("missing")); ok {
		t.Fatal("expected Find to report missing, not found")
	}
	if v, ok := m.Find(String("a")); !ok || v != Value(Int(1)) {
		t.Fatalf("expected Find(a) = 1, got %v, %v", v, ok)
	}
}

func TestMapIterationPreservesInsertionOrder(t *testing.T) {
	m, err := NewMap([]Value{String("z"), String("a"), String("m")}, []Value{Int(1), Int(2), Int(3)})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"z", "a", "m"}
	it := m.Iterator()
	for i := 0; it.HasNext(); i++ {
		k := it.Next().(String)
		if string(k) != want[i] {
			t.Fatalf("iteration order mismatch at %d: got %s want %s", i, k, want[i])
		}
	}
}

func TestListEqualElementwise(t *testing.T) {
	a := NewList([]Value{Int(1), Int(2)})
	b := NewList([]Value{Int(1), Int(2)})
	c := NewList([]Value{Int(1), Int(3)})
	if r := a.Equal(b); r != Value(Bool(true)) {
		t.Fatalf("expected equal lists, got %v", r)
	}
	if r := a.Equal(c); r != Value(Bool(false)) {
		t.Fatalf("expected unequal lists, got %v", r)
	}
}
