package cel

import (
	"reflect"
	"time"
)

// -----------------------------------------------------------------------
// Duration (a length of time, not an instant)
// -----------------------------------------------------------------------

type Duration time.Duration

func (Duration) Type() *Type { return DurationType }
func (Duration) Traits() Trait {
	return TraitAdder | TraitSubtractor | TraitNegater | TraitComparer
}
func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) Equal(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Duration)
	return Bool(ok && d == od)
}

func (d Duration) ConvertToType(t *Type) Value {
	switch t.Kind {
	case DurationKind:
		return d
	case StringKind:
		return String(d.String())
	case IntKind:
		return Int(time.Duration(d).Nanoseconds())
	case TypeKind:
		return TypeVal(DurationType)
	default:
		return NewTypeConversionError(DurationType, t)
	}
}

func (d Duration) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(DurationKind, d, rt); ok {
		return v, err
	}
	switch {
	case rt == reflect.TypeOf(time.Duration(0)), rt.Kind() == reflect.Interface:
		return time.Duration(d), nil
	default:
		return nil, NewTypeConversionError(DurationType, nil).asGoError()
	}
}

func (d Duration) Add(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	switch v := o.(type) {
	case Duration:
		return Duration(time.Duration(d) + time.Duration(v))
	case Timestamp:
		return Timestamp(time.Time(v).Add(time.Duration(d)))
	default:
		return NewNoSuchOverloadError("add", d, o)
	}
}

func (d Duration) Subtract(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Duration)
	if !ok {
		return NewNoSuchOverloadError("subtract", d, o)
	}
	return Duration(time.Duration(d) - time.Duration(od))
}

func (d Duration) Negate() Value { return Duration(-time.Duration(d)) }

func (d Duration) Compare(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Duration)
	if !ok {
		return NewNoSuchOverloadError("compare", d, o)
	}
	switch {
	case d < od:
		return Int(-1)
	case d > od:
		return Int(1)
	default:
		return Int(0)
	}
}

// parseDuration implements the duration(s) builtin. It accepts Go's
// duration grammar ("1h30m", "300ms", ...), the only unambiguous
// stdlib-native grammar for a length of time (spec.md §6).
func parseDuration(s string) Value {
	d, err := time.ParseDuration(s)
	if err != nil {
		return NewRangeError(s, "duration")
	}
	return Duration(d)
}

// -----------------------------------------------------------------------
// Timestamp (an instant, RFC3339 on the wire)
// -----------------------------------------------------------------------

type Timestamp time.Time

func (Timestamp) Type() *Type { return TimestampType }
func (Timestamp) Traits() Trait {
	return TraitAdder | TraitSubtractor | TraitComparer
}
func (t Timestamp) String() string { return time.Time(t).UTC().Format(time.RFC3339Nano) }

func (t Timestamp) Equal(o Value) Value {
	if r, ok := propagate(t, o); ok {
		return r
	}
	ot, ok := o.(Timestamp)
	return Bool(ok && time.Time(t).Equal(time.Time(ot)))
}

func (t Timestamp) ConvertToType(to *Type) Value {
	switch to.Kind {
	case TimestampKind:
		return t
	case StringKind:
		return String(t.String())
	case IntKind:
		return Int(time.Time(t).Unix())
	case TypeKind:
		return TypeVal(TimestampType)
	default:
		return NewTypeConversionError(TimestampType, to)
	}
}

func (t Timestamp) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(TimestampKind, t, rt); ok {
		return v, err
	}
	switch {
	case rt == reflect.TypeOf(time.Time{}), rt.Kind() == reflect.Interface:
		return time.Time(t), nil
	default:
		return nil, NewTypeConversionError(TimestampType, nil).asGoError()
	}
}

// Add supports timestamp + duration (spec.md's duration/timestamp
// arithmetic); timestamp + timestamp has no meaning and is rejected.
func (t Timestamp) Add(o Value) Value {
	if r, ok := propagate(t, o); ok {
		return r
	}
	od, ok := o.(Duration)
	if !ok {
		return NewNoSuchOverloadError("add", t, o)
	}
	return Timestamp(time.Time(t).Add(time.Duration(od)))
}

// Subtract supports timestamp - duration -> timestamp and
// timestamp - timestamp -> duration.
func (t Timestamp) Subtract(o Value) Value {
	if r, ok := propagate(t, o); ok {
		return r
	}
	switch v := o.(type) {
	case Duration:
		return Timestamp(time.Time(t).Add(-time.Duration(v)))
	case Timestamp:
		return Duration(time.Time(t).Sub(time.Time(v)))
	default:
		return NewNoSuchOverloadError("subtract", t, o)
	}
}

func (t Timestamp) Compare(o Value) Value {
	if r, ok := propagate(t, o); ok {
		return r
	}
	ot, ok := o.(Timestamp)
	if !ok {
		return NewNoSuchOverloadError("compare", t, o)
	}
	switch {
	case time.Time(t).Before(time.Time(ot)):
		return Int(-1)
	case time.Time(t).After(time.Time(ot)):
		return Int(1)
	default:
		return Int(0)
	}
}

// parseTimestamp implements the timestamp(s) builtin, per spec.md §6's
// "explicit range errors" requirement for out-of-grammar input.
func parseTimestamp(s string) Value {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return NewRangeError(s, "timestamp")
	}
	return Timestamp(t)
}
