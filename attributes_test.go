package cel

import "testing"

func TestNamespacedCandidatesLongestPrefixFirst(t *testing.T) {
	got := namespacedCandidates("a.b.c", "x.y")
	want := []string{"a.b.c.x.y", "a.b.x.y", "a.x.y", "x.y"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNamespacedCandidatesEmptyContainer(t *testing.T) {
	got := namespacedCandidates("", "x.y")
	if len(got) != 1 || got[0] != "x.y" {
		t.Fatalf("got %v", got)
	}
}

func TestIdentAttributeResolvesPlainBinding(t *testing.T) {
	act := NewActivation(map[string]Value{"x": Int(42)})
	attr := newIdentAttribute("", "x")
	if r := attr.resolve(act, 1); r != Value(Int(42)) {
		t.Fatalf("got %v", r)
	}
}

func TestIdentAttributeMissingIsNoSuchAttribute(t *testing.T) {
	act := NewActivation(map[string]Value{})
	attr := newIdentAttribute("", "x")
	r := attr.resolve(act, 1)
	e, ok := r.(*Error)
	if !ok || e.Kind != NoSuchAttribute {
		t.Fatalf("got %v", r)
	}
}

// TestAttributeSubsumption exercises spec.md §4.3's longer-path-wins rule:
// when both "a.b.c" and "a.b" are bound, selecting c off a.b must prefer
// the longer binding rather than indexing into the shorter one.
func TestAttributeSubsumption(t *testing.T) {
	act := NewActivation(map[string]Value{
		"a.b.c": String("longer wins"),
		"a.b":   NewList([]Value{}), // would error on field-select "c" if used
	})
	attr := newIdentAttribute("", "a").addQualifier(qualifier{kind: qualField, name: "b"}).addQualifier(qualifier{kind: qualField, name: "c"})
	r := attr.resolve(act, 1)
	if r != Value(String("longer wins")) {
		t.Fatalf("got %v, want the longer binding's value", r)
	}
}

// TestAttributeSubsumptionFallsBackToShorterBinding checks the case where
// only the shorter binding exists: qualifier walk applies on top of it.
func TestAttributeSubsumptionFallsBackToShorterBinding(t *testing.T) {
	inner, err := NewMap([]Value{String("c")}, []Value{String("via qualifier walk")})
	if err != nil {
		t.Fatal(err)
	}
	act := NewActivation(map[string]Value{"a.b": inner})
	attr := newIdentAttribute("", "a").addQualifier(qualifier{kind: qualField, name: "b"}).addQualifier(qualifier{kind: qualField, name: "c"})
	r := attr.resolve(act, 1)
	if r != Value(String("via qualifier walk")) {
		t.Fatalf("got %v", r)
	}
}

func TestAttributeConstIndexQualifier(t *testing.T) {
	l := NewList([]Value{String("zero"), String("one")})
	act := NewActivation(map[string]Value{"a": l})
	attr := newIdentAttribute("", "a").addQualifier(qualifier{kind: qualConst, constKey: Int(1)})
	r := attr.resolve(act, 1)
	if r != Value(String("one")) {
		t.Fatalf("got %v", r)
	}
}

func TestUnknownPatternMatchesWildcard(t *testing.T) {
	base := NewActivation(map[string]Value{"headers": mustMap(t, map[string]Value{"ip": String("1.2.3.4")})})
	act := NewPartialActivation(base, AttributePattern{Name: "headers", Qualifiers: []interface{}{nil}})
	attr := newIdentAttribute("", "headers").addQualifier(qualifier{kind: qualField, name: "ip"})
	r := attr.resolve(act, 7)
	u, ok := r.(*Unknown)
	if !ok {
		t.Fatalf("expected unknown from wildcard pattern match, got %v", r)
	}
	if len(u.NodeIDs) != 1 || u.NodeIDs[0] != 7 {
		t.Fatalf("expected unknown payload to carry the originating node id 7, got %v", u.NodeIDs)
	}
}

func mustMap(t *testing.T, kv map[string]Value) *Map {
	t.Helper()
	keys := make([]Value, 0, len(kv))
	vals := make([]Value, 0, len(kv))
	for k, v := range kv {
		keys = append(keys, String(k))
		vals = append(vals, v)
	}
	m, err := NewMap(keys, vals)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
