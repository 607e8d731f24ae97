// registry.go adapts host-native data into the value algebra. The
// evaluator core never touches host types directly outside this file and
// wellknown.go: every attribute base, function argument, and activation
// binding enters through Registry.NativeToValue (or is already a Value).
package cel

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// FieldDescriptor describes one field of a MessageType: its declared CEL
// type, whether proto3 "no presence" rules apply to it, and — when the
// type was built from a real proto.Message — the protoreflect descriptor
// backing reads.
type FieldDescriptor struct {
	Name             string
	Type             *Type
	Proto3NoPresence bool
	protoField       protoreflect.FieldDescriptor
}

// MessageType is an object type's field table: ordered fields plus a
// name index. Unset fields of a table-backed object read as their type's
// zero value (defaultFor) and enum fields read as int. There is no
// wrapper-vs-primitive distinction: a wrapper-typed field of a
// proto-backed object reads as a message object, not a nullable scalar.
type MessageType struct {
	Name   string
	Fields []*FieldDescriptor
	byName map[string]*FieldDescriptor
}

// NewMessageType builds a MessageType from an explicit field list, used
// for registry entries not backed by a real proto.Message (a host Go
// struct or map registered as a named object type).
func NewMessageType(name string, fields []*FieldDescriptor) *MessageType {
	mt := &MessageType{Name: name, Fields: fields, byName: make(map[string]*FieldDescriptor, len(fields))}
	for _, f := range fields {
		mt.byName[f.Name] = f
	}
	return mt
}

// defaultFor returns a field's zero value, used when a field is absent
// from a literal's field map (proto3 default) rather than raising
// no_such_field.
func (mt *MessageType) defaultFor(fd *FieldDescriptor) Value {
	switch fd.Type.Kind {
	case BoolKind:
		return Bool(false)
	case IntKind:
		return Int(0)
	case UintKind:
		return Uint(0)
	case DoubleKind:
		return Double(0)
	case StringKind:
		return String("")
	case BytesKind:
		return Bytes(nil)
	case ListKind:
		return NewList(nil)
	case MapKind:
		m, _ := NewMap(nil, nil)
		return m
	default:
		return NullValue
	}
}

// Registry holds the set of known message types and provides conversion
// between host-native Go values and the value algebra.
type Registry struct {
	types map[string]*MessageType
}

// NewRegistry returns an empty Registry. Host code registers message
// types with RegisterMessage/RegisterProto before evaluating expressions
// that construct or select fields of them.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*MessageType)}
}

// RegisterMessage adds a descriptor-driven (non-proto) message type,
// e.g. one synthesized from a Go struct's fields.
func (r *Registry) RegisterMessage(mt *MessageType) { r.types[mt.Name] = mt }

// RegisterProto derives a MessageType from a proto.Message's descriptor
// and registers it under its fully-qualified proto name.
func (r *Registry) RegisterProto(m proto.Message) *MessageType {
	md := m.ProtoReflect().Descriptor()
	mt := messageTypeFromDescriptor(md)
	r.types[mt.Name] = mt
	return mt
}

// FindType looks up a previously registered message type by name.
func (r *Registry) FindType(name string) (*MessageType, bool) {
	mt, ok := r.types[name]
	return mt, ok
}

// NewObject constructs an Object literal for a registered type from a
// field-name -> Value map, rejecting unknown field names, per spec.md
// §4.2's CreateStruct semantics. Field values are stored as given; they
// are not converted to, or checked against, the field's declared type.
func (r *Registry) NewObject(typeName string, fields map[string]Value) (*Object, *Error) {
	mt, ok := r.types[typeName]
	if !ok {
		return nil, NewInvalidArgumentError("unknown message type: " + typeName)
	}
	for name := range fields {
		if _, ok := mt.byName[name]; !ok {
			return nil, NewNoSuchFieldError(name)
		}
	}
	return NewObject(mt, fields), nil
}

// NewProto wraps a live proto.Message whose type has already been
// registered (typically via RegisterProto) as an Object.
func (r *Registry) NewProto(m proto.Message) *Object {
	mt, ok := r.types[string(m.ProtoReflect().Descriptor().FullName())]
	if !ok {
		mt = r.RegisterProto(m)
	}
	return NewProtoObject(mt, m)
}

// NativeToValue recursively adapts a host Go value into the value
// algebra: well-known protobuf wrappers and scalars first, then
// proto.Message via protoreflect, then general Go primitives, slices,
// and maps via reflection, per SPEC_FULL.md §3.2.
func (r *Registry) NativeToValue(native interface{}) (Value, error) {
	if native == nil {
		return NullValue, nil
	}
	if v, ok := native.(Value); ok {
		return v, nil
	}
	if v, ok := adaptWellKnownNative(native); ok {
		return v, nil
	}
	if m, ok := native.(proto.Message); ok {
		return r.NewProto(m), nil
	}
	rv := reflect.ValueOf(native)
	return r.nativeReflectToValue(rv)
}

func (r *Registry) nativeReflectToValue(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return NullValue, nil
		}
		return r.nativeReflectToValue(rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Type() == reflect.TypeOf(byte(0)) {
			return Uint(rv.Uint()), nil
		}
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Double(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := r.nativeReflectToValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewList(elems), nil
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface()) })
		ks := make([]Value, 0, len(keys))
		vs := make([]Value, 0, len(keys))
		for _, k := range keys {
			kv, err := r.nativeReflectToValue(k)
			if err != nil {
				return nil, err
			}
			vv, err := r.nativeReflectToValue(rv.MapIndex(k))
			if err != nil {
				return nil, err
			}
			ks = append(ks, kv)
			vs = append(vs, vv)
		}
		m, cerr := NewMap(ks, vs)
		if cerr != nil {
			return nil, cerr.asGoError()
		}
		return m, nil
	case reflect.Struct:
		return r.structToValue(rv)
	default:
		return nil, NewInternalError(fmt.Sprintf("cannot adapt native kind %s", rv.Kind())).asGoError()
	}
}

// structToValue adapts a plain Go struct into an Object, synthesizing a
// MessageType from its exported fields on first use (and caching it)
// when no descriptor was pre-registered for the struct's type name.
func (r *Registry) structToValue(rv reflect.Value) (Value, error) {
	rt := rv.Type()
	name := rt.PkgPath() + "." + rt.Name()
	mt, ok := r.types[name]
	if !ok {
		fields := make([]*FieldDescriptor, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if sf.PkgPath != "" {
				continue // unexported
			}
			fields = append(fields, &FieldDescriptor{Name: sf.Name, Type: guessType(sf.Type)})
		}
		mt = NewMessageType(name, fields)
		r.types[name] = mt
	}
	values := make(map[string]Value, len(mt.Fields))
	for _, fd := range mt.Fields {
		fv, err := r.nativeReflectToValue(rv.FieldByName(fd.Name))
		if err != nil {
			return nil, err
		}
		values[fd.Name] = fv
	}
	return NewObject(mt, values), nil
}

func guessType(rt reflect.Type) *Type {
	switch rt.Kind() {
	case reflect.Bool:
		return BoolType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntType
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return UintType
	case reflect.Float32, reflect.Float64:
		return DoubleType
	case reflect.String:
		return StringType
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return BytesType
		}
		return ListTypeDyn
	case reflect.Map:
		return MapTypeDyn
	default:
		return newSimpleType(ObjectKind, rt.String())
	}
}

// FromJSON parses raw JSON and adapts it to a Value using gjson, mapping
// JSON null/bool/string directly, JSON numbers to Double (matching
// google.protobuf.Value's json_value mapping, since JSON has no integer/
// float distinction), JSON arrays to List, and JSON objects to Map.
func (r *Registry) FromJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, NewInvalidArgumentError("invalid JSON").asGoError()
	}
	return jsonResultToValue(gjson.ParseBytes(data)), nil
}

func jsonResultToValue(res gjson.Result) Value {
	switch res.Type {
	case gjson.Null:
		return NullValue
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Double(res.Float())
	case gjson.String:
		return String(res.String())
	default:
		if res.IsArray() {
			var elems []Value
			res.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, jsonResultToValue(v))
				return true
			})
			return NewList(elems)
		}
		if res.IsObject() {
			var keys, vals []Value
			res.ForEach(func(k, v gjson.Result) bool {
				keys = append(keys, String(k.String()))
				vals = append(vals, jsonResultToValue(v))
				return true
			})
			m, err := NewMap(keys, vals)
			if err != nil {
				return err
			}
			return m
		}
		return NullValue
	}
}

// -----------------------------------------------------------------------
// protoreflect bridging
// -----------------------------------------------------------------------

func messageTypeFromDescriptor(md protoreflect.MessageDescriptor) *MessageType {
	fds := md.Fields()
	fields := make([]*FieldDescriptor, 0, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		fields = append(fields, &FieldDescriptor{
			Name:             string(fd.Name()),
			Type:             protoFieldType(fd),
			Proto3NoPresence: !fd.HasPresence() && !fd.IsList() && !fd.IsMap(),
			protoField:       fd,
		})
	}
	return NewMessageType(string(md.FullName()), fields)
}

func protoFieldType(fd protoreflect.FieldDescriptor) *Type {
	if fd.IsMap() {
		return &Type{Kind: MapKind, Name: "map", KeyType: protoFieldType(fd.MapKey()), ValType: protoFieldType(fd.MapValue())}
	}
	if fd.IsList() {
		return &Type{Kind: ListKind, Name: "list", ElemType: protoKindType(fd)}
	}
	return protoKindType(fd)
}

func protoKindType(fd protoreflect.FieldDescriptor) *Type {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return BoolType
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return IntType
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return UintType
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return DoubleType
	case protoreflect.StringKind:
		return StringType
	case protoreflect.BytesKind:
		return BytesType
	case protoreflect.EnumKind:
		return IntType
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return newSimpleType(ObjectKind, string(fd.Message().FullName()))
	default:
		return newSimpleType(ObjectKind, "unknown")
	}
}

// protoValueToValue converts one protoreflect.Value read off a message
// into the value algebra, given the field descriptor it came from.
func protoValueToValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) Value {
	if fd.IsMap() {
		mv := v.Map()
		var keys, vals []Value
		mv.Range(func(mk protoreflect.MapKey, mval protoreflect.Value) bool {
			keys = append(keys, protoScalarToValue(fd.MapKey(), mk.Value()))
			vals = append(vals, protoScalarToValue(fd.MapValue(), mval))
			return true
		})
		m, err := NewMap(keys, vals)
		if err != nil {
			return err
		}
		return m
	}
	if fd.IsList() {
		lv := v.List()
		elems := make([]Value, lv.Len())
		for i := 0; i < lv.Len(); i++ {
			elems[i] = protoScalarToValue(fd, lv.Get(i))
		}
		return NewList(elems)
	}
	return protoScalarToValue(fd, v)
}

func protoScalarToValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return Bool(v.Bool())
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return Int(v.Int())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return Uint(v.Uint())
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return Double(v.Float())
	case protoreflect.StringKind:
		return String(v.String())
	case protoreflect.BytesKind:
		return Bytes(v.Bytes())
	case protoreflect.EnumKind:
		return Int(v.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		sub := v.Message()
		mt := messageTypeFromDescriptor(sub.Descriptor())
		return NewProtoObject(mt, sub.Interface())
	default:
		return NewInternalError("unsupported proto field kind")
	}
}
