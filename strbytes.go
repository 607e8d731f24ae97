package cel

import (
	"bytes"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// -----------------------------------------------------------------------
// String (UTF-8)
// -----------------------------------------------------------------------

type String string

func (String) Type() *Type { return StringType }
func (String) Traits() Trait {
	return TraitAdder | TraitComparer | TraitSizer | TraitMatcher | TraitReceiver
}
func (s String) String() string { return string(s) }

func (s String) Equal(o Value) Value {
	if r, ok := propagate(s, o); ok {
		return r
	}
	os, ok := o.(String)
	return Bool(ok && s == os)
}

func (s String) ConvertToType(t *Type) Value {
	switch t.Kind {
	case StringKind:
		return s
	case BytesKind:
		return Bytes(s)
	case IntKind:
		n, err := strconv.ParseInt(string(s), 10, 64)
		if err != nil {
			return NewTypeConversionError(StringType, IntType)
		}
		return Int(n)
	case UintKind:
		n, err := strconv.ParseUint(string(s), 10, 64)
		if err != nil {
			return NewTypeConversionError(StringType, UintType)
		}
		return Uint(n)
	case DoubleKind:
		f, err := strconv.ParseFloat(string(s), 64)
		if err != nil {
			return NewTypeConversionError(StringType, DoubleType)
		}
		return Double(f)
	case BoolKind:
		b, err := strconv.ParseBool(string(s))
		if err != nil {
			return NewTypeConversionError(StringType, BoolType)
		}
		return Bool(b)
	case DurationKind:
		return parseDuration(string(s))
	case TimestampKind:
		return parseTimestamp(string(s))
	case TypeKind:
		return TypeVal(StringType)
	default:
		return NewTypeConversionError(StringType, t)
	}
}

func (s String) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(StringKind, s, rt); ok {
		return v, err
	}
	switch rt.Kind() {
	case reflect.String, reflect.Interface:
		return string(s), nil
	default:
		return nil, NewTypeConversionError(StringType, nil).asGoError()
	}
}

func (s String) Add(o Value) Value {
	if r, ok := propagate(s, o); ok {
		return r
	}
	os, ok := o.(String)
	if !ok {
		return NewNoSuchOverloadError("add", s, o)
	}
	return s + os
}

func (s String) Compare(o Value) Value {
	if r, ok := propagate(s, o); ok {
		return r
	}
	os, ok := o.(String)
	if !ok {
		return NewNoSuchOverloadError("compare", s, o)
	}
	return Int(strings.Compare(string(s), string(os)))
}

// Size returns the code-point count, not the byte length (spec.md §4.1).
func (s String) Size() Value { return Int(utf8.RuneCountInString(string(s))) }

func (s String) Match(pattern Value) Value {
	p, ok := pattern.(String)
	if !ok {
		return NewNoSuchOverloadError("matches", s, pattern)
	}
	re, err := regexp.Compile(string(p))
	if err != nil {
		return NewInvalidArgumentError("invalid regexp: " + err.Error())
	}
	return Bool(re.MatchString(string(s)))
}

func (s String) Receive(function, overload string, args []Value) Value {
	if len(args) != 1 {
		return NewNoSuchOverloadError(function, s)
	}
	arg, ok := args[0].(String)
	if !ok {
		return NewNoSuchOverloadError(function, s, args[0])
	}
	switch function {
	case "contains":
		return Bool(strings.Contains(string(s), string(arg)))
	case "startsWith":
		return Bool(strings.HasPrefix(string(s), string(arg)))
	case "endsWith":
		return Bool(strings.HasSuffix(string(s), string(arg)))
	case "matches":
		return s.Match(arg)
	default:
		return NewNoSuchOverloadError(function, s, args[0])
	}
}

// -----------------------------------------------------------------------
// Bytes
// -----------------------------------------------------------------------

type Bytes []byte

func (Bytes) Type() *Type   { return BytesType }
func (Bytes) Traits() Trait { return TraitAdder | TraitComparer | TraitSizer }
func (b Bytes) String() string { return string(b) }

func (b Bytes) Equal(o Value) Value {
	if r, ok := propagate(b, o); ok {
		return r
	}
	ob, ok := o.(Bytes)
	return Bool(ok && bytes.Equal(b, ob))
}

func (b Bytes) ConvertToType(t *Type) Value {
	switch t.Kind {
	case BytesKind:
		return b
	case StringKind:
		if !utf8.Valid(b) {
			return NewTypeConversionError(BytesType, StringType)
		}
		return String(b)
	case TypeKind:
		return TypeVal(BytesType)
	default:
		return NewTypeConversionError(BytesType, t)
	}
}

func (b Bytes) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(BytesKind, b, rt); ok {
		return v, err
	}
	if rt.Kind() == reflect.Slice || rt.Kind() == reflect.Interface {
		return []byte(b), nil
	}
	return nil, NewTypeConversionError(BytesType, nil).asGoError()
}

func (b Bytes) Add(o Value) Value {
	if r, ok := propagate(b, o); ok {
		return r
	}
	ob, ok := o.(Bytes)
	if !ok {
		return NewNoSuchOverloadError("add", b, o)
	}
	out := make(Bytes, 0, len(b)+len(ob))
	out = append(out, b...)
	out = append(out, ob...)
	return out
}

func (b Bytes) Compare(o Value) Value {
	if r, ok := propagate(b, o); ok {
		return r
	}
	ob, ok := o.(Bytes)
	if !ok {
		return NewNoSuchOverloadError("compare", b, o)
	}
	return Int(bytes.Compare(b, ob))
}

func (b Bytes) Size() Value { return Int(len(b)) }
