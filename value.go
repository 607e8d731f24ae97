// Package cel implements the evaluator core of the Common Expression
// Language: a typed value algebra, an attribute resolution pipeline over
// heterogeneous host data, and a tree-walking interpreter that plans a
// checked or unchecked AST into a directly executable form.
//
// The package never parses source text and never type-checks an
// expression; both are external collaborators. It consumes an AST built
// from the node kinds in ast.go, an optional set of type-check
// annotations, and a Registry/Dispatcher pair describing the host's data
// and functions, and produces one Value per Eval call.
package cel

import "reflect"

// Kind discriminates the closed set of value variants spec.md defines.
type Kind int

const (
	BoolKind Kind = iota
	IntKind
	UintKind
	DoubleKind
	StringKind
	BytesKind
	DurationKind
	TimestampKind
	NullKind
	ListKind
	MapKind
	ObjectKind
	TypeKind
	ErrorKind
	UnknownKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case DoubleKind:
		return "double"
	case StringKind:
		return "string"
	case BytesKind:
		return "bytes"
	case DurationKind:
		return "duration"
	case TimestampKind:
		return "timestamp"
	case NullKind:
		return "null_type"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	case ObjectKind:
		return "object"
	case TypeKind:
		return "type"
	case ErrorKind:
		return "error"
	case UnknownKind:
		return "unknown"
	default:
		return "unknown_kind"
	}
}

// Type is a value's type descriptor. Object types carry a Name (the
// qualified message type name); List/Map types carry element/key/value
// descriptors when known (both may be nil for a dynamically-typed
// container).
type Type struct {
	Kind     Kind
	Name     string
	ElemType *Type
	KeyType  *Type
	ValType  *Type
}

func newSimpleType(k Kind, name string) *Type { return &Type{Kind: k, Name: name} }

var (
	BoolType      = newSimpleType(BoolKind, "bool")
	IntType       = newSimpleType(IntKind, "int")
	UintType      = newSimpleType(UintKind, "uint")
	DoubleType    = newSimpleType(DoubleKind, "double")
	StringType    = newSimpleType(StringKind, "string")
	BytesType     = newSimpleType(BytesKind, "bytes")
	DurationType  = newSimpleType(DurationKind, "google.protobuf.Duration")
	TimestampType = newSimpleType(TimestampKind, "google.protobuf.Timestamp")
	NullType      = newSimpleType(NullKind, "null_type")
	ListTypeDyn   = newSimpleType(ListKind, "list")
	MapTypeDyn    = newSimpleType(MapKind, "map")
	TypeTypeDesc  = newSimpleType(TypeKind, "type")
	ErrorType     = newSimpleType(ErrorKind, "error")
	UnknownType   = newSimpleType(UnknownKind, "unknown")
)

// String renders the type's CEL-visible name, e.g. "list(int)".
func (t *Type) String() string {
	switch t.Kind {
	case ListKind:
		if t.ElemType != nil {
			return "list(" + t.ElemType.String() + ")"
		}
		return "list(dyn)"
	case MapKind:
		if t.KeyType != nil && t.ValType != nil {
			return "map(" + t.KeyType.String() + ", " + t.ValType.String() + ")"
		}
		return "map(dyn, dyn)"
	default:
		return t.Name
	}
}

// Value is the universal runtime carrier: every operator input and output
// in the evaluator is a Value, including error and unknown (spec.md §3).
type Value interface {
	// Type returns the value's type descriptor.
	Type() *Type
	// Traits reports which capability interfaces this value implements.
	Traits() Trait
	// Equal implements CEL `==`. Returns a Bool, or an Error/Unknown value
	// when either operand is one (spec.md §3 error/unknown propagation).
	Equal(other Value) Value
	// ConvertToType implements the `T(v)` conversion family. Converting to
	// the value's own type is identity; unsupported conversions return a
	// type_conversion Error.
	ConvertToType(t *Type) Value
	// ConvertToNative extracts a host Go value from Value, coercing to rt
	// when possible and returning an error otherwise.
	ConvertToNative(rt reflect.Type) (interface{}, error)
	// String renders a debug representation; never used for CEL string().
	String() string
}

func hasTrait(v Value, bit Trait) bool { return v.Traits().Has(bit) }

// isErrorOrUnknown reports whether v is one of the two sentinel variants
// that dominate ordinary operator evaluation.
func isErrorOrUnknown(v Value) bool {
	k := v.Type().Kind
	return k == ErrorKind || k == UnknownKind
}

// propagate implements the standard "error wins over unknown, both win
// over everything else" rule used by nearly every binary operator.
// The &&/|| nodes apply their short-circuit checks first and call this
// only when those do not decide the result.
func propagate(a, b Value) (Value, bool) {
	aErr, bErr := a.Type().Kind == ErrorKind, b.Type().Kind == ErrorKind
	if aErr {
		return a, true
	}
	if bErr {
		return b, true
	}
	aUnk, bUnk := a.Type().Kind == UnknownKind, b.Type().Kind == UnknownKind
	if aUnk && bUnk {
		return mergeUnknown(a.(*Unknown), b.(*Unknown)), true
	}
	if aUnk {
		return a, true
	}
	if bUnk {
		return b, true
	}
	return nil, false
}

// Null is the singleton null value.
type Null struct{}

var NullValue = Null{}

func (Null) Type() *Type      { return NullType }
func (Null) Traits() Trait    { return 0 }
func (Null) String() string   { return "null" }
func (n Null) Equal(o Value) Value {
	if r, ok := propagate(n, o); ok {
		return r
	}
	return Bool(o.Type().Kind == NullKind)
}
func (n Null) ConvertToType(t *Type) Value {
	switch t.Kind {
	case NullKind:
		return n
	case TypeKind:
		return TypeVal(NullType)
	case StringKind:
		return String("null")
	default:
		return NewTypeConversionError(NullType, t)
	}
}
func (Null) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if rt.Kind() == reflect.Ptr || rt.Kind() == reflect.Interface {
		return nil, nil
	}
	return nil, NewTypeConversionError(NullType, nil).asGoError()
}

// Bool is the boolean value variant.
type Bool bool

func (Bool) Type() *Type   { return BoolType }
func (Bool) Traits() Trait { return TraitNegater | TraitComparer }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Equal(o Value) Value {
	if r, ok := propagate(b, o); ok {
		return r
	}
	ob, ok := o.(Bool)
	return Bool(ok && bool(b) == bool(ob))
}
func (b Bool) ConvertToType(t *Type) Value {
	switch t.Kind {
	case BoolKind:
		return b
	case StringKind:
		return String(b.String())
	case TypeKind:
		return TypeVal(BoolType)
	default:
		return NewTypeConversionError(BoolType, t)
	}
}
func (b Bool) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(BoolKind, b, rt); ok {
		return v, err
	}
	switch rt.Kind() {
	case reflect.Bool, reflect.Interface:
		return bool(b), nil
	default:
		return nil, NewTypeConversionError(BoolType, nil).asGoError()
	}
}
func (b Bool) Negate() Value { return !b }
func (b Bool) Compare(o Value) Value {
	if r, ok := propagate(b, o); ok {
		return r
	}
	ob, ok := o.(Bool)
	if !ok {
		return NewNoSuchOverloadError("compare", b, o)
	}
	switch {
	case bool(b) == bool(ob):
		return Int(0)
	case !bool(b) && bool(ob):
		return Int(-1)
	default:
		return Int(1)
	}
}
