package cel

import (
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Object is a message-shaped value: a named type with an ordered set of
// fields, backed either by a descriptor-driven field table (built by
// Registry for plain structs/maps-of-maps) or directly by a real
// proto.Message via protoreflect, per SPEC_FULL.md §3.1. Field reads and
// has()-tests are scoped here; wire decoding is out of scope (spec.md §1).
type Object struct {
	typ    *Type
	desc   *MessageType
	fields map[string]Value // populated when msg == nil
	msg    protoreflect.Message
}

// NewObject builds an Object from a pre-resolved field table, used when
// the registry adapts a plain Go struct/map rather than a real
// proto.Message.
func NewObject(desc *MessageType, fields map[string]Value) *Object {
	return &Object{typ: newSimpleType(ObjectKind, desc.Name), desc: desc, fields: fields}
}

// NewProtoObject wraps a live proto.Message, reading fields through
// protoreflect so defaults, proto2 presence, and oneofs follow the
// message's own descriptor rather than a hand-built table.
func NewProtoObject(desc *MessageType, m proto.Message) *Object {
	return &Object{typ: newSimpleType(ObjectKind, desc.Name), desc: desc, msg: m.ProtoReflect()}
}

func (o *Object) Type() *Type   { return o.typ }
func (o *Object) Traits() Trait { return TraitIndexer | TraitFieldTester }
func (o *Object) String() string { return o.typ.Name }

func (o *Object) Equal(v Value) Value {
	if r, ok := propagate(o, v); ok {
		return r
	}
	ov, ok := v.(*Object)
	if !ok || ov.typ.Name != o.typ.Name {
		return Bool(false)
	}
	for _, f := range o.desc.Fields {
		a := o.field(f.Name)
		b := ov.field(f.Name)
		r := a.Equal(b)
		if isErrorOrUnknown(r) {
			return r
		}
		if !bool(r.(Bool)) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func (o *Object) ConvertToType(t *Type) Value {
	switch t.Kind {
	case ObjectKind:
		if t.Name == o.typ.Name {
			return o
		}
		return NewTypeConversionError(o.typ, t)
	case TypeKind:
		return TypeVal(o.typ)
	default:
		return NewTypeConversionError(o.typ, t)
	}
}

func (o *Object) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if o.msg != nil && rt.Kind() == reflect.Ptr {
		return o.msg.Interface(), nil
	}
	if rt.Kind() == reflect.Interface {
		return o, nil
	}
	return nil, NewTypeConversionError(o.typ, nil).asGoError()
}

// field reads a field by name, returning the type's zero/default value
// when a proto2 optional field is unset, per MessageType.defaultFor.
func (o *Object) field(name string) Value {
	fd, ok := o.desc.byName[name]
	if !ok {
		return NewNoSuchFieldError(name)
	}
	if o.msg != nil {
		return readProtoField(o.msg, fd)
	}
	if v, ok := o.fields[name]; ok {
		return v
	}
	return o.desc.defaultFor(fd)
}

// Get implements field selection via the Indexer trait (attributes.go
// also has a dedicated field-qualifier path; this is the generic one
// used when a field name arrives as a dynamic String index).
func (o *Object) Get(index Value) Value {
	name, ok := index.(String)
	if !ok {
		return NewNoSuchOverloadError("index", o, index)
	}
	return o.field(string(name))
}

// IsSet implements the has() macro: true when a repeated/map field is
// non-empty, or a proto2 optional/oneof-member scalar/message field is
// explicitly present. proto3 scalar fields without presence tracking
// report true iff non-default, matching cel-java's has() semantics for
// proto3 (spec.md §4.2).
func (o *Object) IsSet(name string) Value {
	fd, ok := o.desc.byName[name]
	if !ok {
		return NewNoSuchFieldError(name)
	}
	if o.msg != nil {
		return Bool(o.msg.Has(fd.protoField))
	}
	v, ok := o.fields[name]
	if !ok {
		return Bool(false)
	}
	switch c := v.(type) {
	case *List:
		return Bool(c.Len() > 0)
	case *Map:
		return Bool(c.Len() > 0)
	}
	if fd.Proto3NoPresence {
		return Bool(!isZeroValue(v))
	}
	return Bool(true)
}

func isZeroValue(v Value) bool {
	switch t := v.(type) {
	case Bool:
		return !bool(t)
	case Int:
		return t == 0
	case Uint:
		return t == 0
	case Double:
		return t == 0
	case String:
		return t == ""
	case Bytes:
		return len(t) == 0
	case Null:
		return true
	default:
		return false
	}
}

func readProtoField(m protoreflect.Message, fd *FieldDescriptor) Value {
	v := m.Get(fd.protoField)
	return protoValueToValue(fd.protoField, v)
}
