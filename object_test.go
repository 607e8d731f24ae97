package cel

import "testing"

func newPersonType() *MessageType {
	return NewMessageType("test.Person", []*FieldDescriptor{
		{Name: "name", Type: StringType, Proto3NoPresence: true},
		{Name: "age", Type: IntType, Proto3NoPresence: true},
		{Name: "nickname", Type: StringType, Proto3NoPresence: false},
	})
}

func TestObjectFieldGetReturnsBoundValue(t *testing.T) {
	mt := newPersonType()
	obj := NewObject(mt, map[string]Value{"name": String("Ada"), "age": Int(30)})
	if v := obj.Get(String("name")); v != Value(String("Ada")) {
		t.Fatalf("got %v", v)
	}
}

func TestObjectFieldGetMissingFieldUsesDefault(t *testing.T) {
	mt := newPersonType()
	obj := NewObject(mt, map[string]Value{"name": String("Ada")})
	if v := obj.Get(String("age")); v != Value(Int(0)) {
		t.Fatalf("expected default int 0, got %v", v)
	}
}

func TestObjectFieldGetUnknownFieldIsNoSuchField(t *testing.T) {
	mt := newPersonType()
	obj := NewObject(mt, map[string]Value{"name": String("Ada")})
	v := obj.Get(String("address"))
	e, ok := v.(*Error)
	if !ok || e.Kind != NoSuchField {
		t.Fatalf("expected no_such_field, got %v", v)
	}
}

// proto3-no-presence field: has() reports true only when non-default, per
// Object.IsSet's doc comment grounded on cel-java's proto3 has() semantics.
func TestObjectIsSetProto3NoPresenceReportsNonDefault(t *testing.T) {
	mt := newPersonType()
	zero := NewObject(mt, map[string]Value{"age": Int(0)})
	if v := zero.IsSet("age"); v != Value(Bool(false)) {
		t.Fatalf("expected false for zero-valued proto3 field, got %v", v)
	}
	nonzero := NewObject(mt, map[string]Value{"age": Int(30)})
	if v := nonzero.IsSet("age"); v != Value(Bool(true)) {
		t.Fatalf("expected true for non-default proto3 field, got %v", v)
	}
}

// proto2-style explicit-presence field: has() reports true whenever the
// field map contains the key at all, even if the value is the zero value.
func TestObjectIsSetExplicitPresenceIgnoresZeroValue(t *testing.T) {
	mt := newPersonType()
	obj := NewObject(mt, map[string]Value{"nickname": String("")})
	if v := obj.IsSet("nickname"); v != Value(Bool(true)) {
		t.Fatalf("expected explicit-presence field set even when zero-valued, got %v", v)
	}
}

func TestObjectIsSetAbsentFieldIsFalse(t *testing.T) {
	mt := newPersonType()
	obj := NewObject(mt, map[string]Value{})
	if v := obj.IsSet("nickname"); v != Value(Bool(false)) {
		t.Fatalf("expected false for absent field, got %v", v)
	}
}

func TestObjectEqualComparesAllFieldsByDescriptorOrder(t *testing.T) {
	mt := newPersonType()
	a := NewObject(mt, map[string]Value{"name": String("Ada"), "age": Int(30)})
	b := NewObject(mt, map[string]Value{"name": String("Ada"), "age": Int(30)})
	c := NewObject(mt, map[string]Value{"name": String("Ada"), "age": Int(31)})
	if r := a.Equal(b); r != Value(Bool(true)) {
		t.Fatalf("expected equal objects, got %v", r)
	}
	if r := a.Equal(c); r != Value(Bool(false)) {
		t.Fatalf("expected unequal objects, got %v", r)
	}
}

func TestObjectEqualDifferentTypeNamesIsFalse(t *testing.T) {
	mt := newPersonType()
	other := NewMessageType("test.Other", []*FieldDescriptor{{Name: "name", Type: StringType}})
	a := NewObject(mt, map[string]Value{"name": String("Ada")})
	b := NewObject(other, map[string]Value{"name": String("Ada")})
	if r := a.Equal(b); r != Value(Bool(false)) {
		t.Fatalf("expected objects of different types to be unequal, got %v", r)
	}
}
