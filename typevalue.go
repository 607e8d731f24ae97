package cel

import "reflect"

// TypeValue is the "type" value variant: a Value whose payload is itself
// a *Type descriptor, produced by the type() builtin and by converting a
// value to type (spec.md §3, §6).
type TypeValue struct {
	Val *Type
}

// TypeVal wraps a *Type into a Value.
func TypeVal(t *Type) *TypeValue { return &TypeValue{Val: t} }

func (t *TypeValue) Type() *Type   { return TypeTypeDesc }
func (t *TypeValue) Traits() Trait { return 0 }
func (t *TypeValue) String() string { return t.Val.String() }

func (t *TypeValue) Equal(o Value) Value {
	if r, ok := propagate(t, o); ok {
		return r
	}
	ot, ok := o.(*TypeValue)
	return Bool(ok && ot.Val.Kind == t.Val.Kind && ot.Val.Name == t.Val.Name)
}

func (t *TypeValue) ConvertToType(to *Type) Value {
	switch to.Kind {
	case TypeKind:
		return TypeVal(TypeTypeDesc)
	case StringKind:
		return String(t.Val.String())
	default:
		return NewTypeConversionError(TypeTypeDesc, to)
	}
}

func (t *TypeValue) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if rt.Kind() == reflect.Interface {
		return t.Val, nil
	}
	return nil, NewTypeConversionError(TypeTypeDesc, nil).asGoError()
}
