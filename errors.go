package cel

import (
	"fmt"
	"reflect"
)

// ErrorKindTag enumerates the error kinds spec.md §7 defines. Distinct
// from Kind (the value-variant discriminant): every ErrorKindTag value
// still reports Value.Type().Kind == ErrorKind.
type ErrorKindTag int

const (
	NoSuchOverload ErrorKindTag = iota
	NoSuchField
	NoSuchAttribute
	DivideByZero
	Overflow
	RangeErr
	TypeConversion
	DuplicateKey
	InvalidArgument
	Interrupted
	Internal
)

func (k ErrorKindTag) String() string {
	switch k {
	case NoSuchOverload:
		return "no_such_overload"
	case NoSuchField:
		return "no_such_field"
	case NoSuchAttribute:
		return "no_such_attribute"
	case DivideByZero:
		return "divide_by_zero"
	case Overflow:
		return "overflow"
	case RangeErr:
		return "range"
	case TypeConversion:
		return "type_conversion"
	case DuplicateKey:
		return "duplicate_key"
	case InvalidArgument:
		return "invalid_argument"
	case Interrupted:
		return "interrupted"
	case Internal:
		return "internal"
	default:
		return "unknown_error_kind"
	}
}

// Error is the error value variant (spec.md §7). It is a first-class
// Value: it flows through operators exactly like any other value, per
// the propagation rules in value.go.
type Error struct {
	Kind    ErrorKindTag
	Message string
	NodeID  int64 // 0 when no originating node is known
}

func (e *Error) Type() *Type   { return ErrorType }
func (e *Error) Traits() Trait { return 0 }
func (e *Error) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
func (e *Error) Error() string { return e.String() }
func (e *Error) asGoError() error { return e }

// Equal on an error always returns the error itself (spec.md §3:
// "Equality between an error and any value yields the error").
func (e *Error) Equal(Value) Value { return e }

func (e *Error) ConvertToType(*Type) Value { return e }
func (e *Error) ConvertToNative(reflect.Type) (interface{}, error) {
	return nil, e
}

// withNode returns a copy of e carrying nodeID, used by the planner/
// interpreter to attach the AST node an error originated from without
// mutating a shared sentinel.
func (e *Error) withNode(nodeID int64) *Error {
	c := *e
	c.NodeID = nodeID
	return &c
}

func newError(kind ErrorKindTag, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNoSuchOverloadError(op string, args ...Value) *Error {
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = a.Type().String()
	}
	return newError(NoSuchOverload, "no such overload: %s(%v)", op, types)
}

func NewNoSuchFieldError(field string) *Error {
	return newError(NoSuchField, "no such field: %s", field)
}

func NewNoSuchAttributeError(name string) *Error {
	return newError(NoSuchAttribute, "no such attribute: %s", name)
}

func NewDivideByZeroError() *Error {
	return newError(DivideByZero, "divide by zero")
}

func NewOverflowError(op string) *Error {
	return newError(Overflow, "return error for overflow during %s", op)
}

func NewRangeError(value interface{}, toType string) *Error {
	return newError(RangeErr, "range error converting %v to %s", value, toType)
}

func NewTypeConversionError(from, to *Type) *Error {
	if to == nil {
		return newError(TypeConversion, "type conversion error from '%s'", from)
	}
	return newError(TypeConversion, "type conversion error from '%s' to '%s'", from, to)
}

func NewDuplicateKeyError(key interface{}) *Error {
	return newError(DuplicateKey, "duplicate key %v in map literal", key)
}

func NewInvalidArgumentError(msg string) *Error {
	return newError(InvalidArgument, "%s", msg)
}

func NewInterruptedError() *Error {
	return newError(Interrupted, "operation interrupted")
}

func NewInternalError(msg string) *Error {
	return newError(Internal, "%s", msg)
}

// IsError reports whether v is the Error variant.
func IsError(v Value) bool { return v.Type().Kind == ErrorKind }

// IsUnknown reports whether v is the Unknown variant.
func IsUnknown(v Value) bool { return v.Type().Kind == UnknownKind }
