// wellknown.go bridges the value algebra to the protobuf well-known
// types. Real host data arriving from a protobuf-based system (gRPC
// requests, stored records) carries timestamps, durations and nullable
// scalars as *timestamppb.Timestamp, *durationpb.Duration and
// *wrapperspb.*Value rather than plain Go primitives; adapting them here
// means a host never has to unwrap them by hand before handing data to
// the registry. Message wire decoding itself stays out of scope
// (spec.md §1) — only these three well-known families (timestamps,
// durations, scalar wrappers) are recognized.
package cel

import (
	"reflect"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	typeOfDurationPB  = reflect.TypeOf((*durationpb.Duration)(nil))
	typeOfTimestampPB = reflect.TypeOf((*timestamppb.Timestamp)(nil))
	typeOfInt64PB     = reflect.TypeOf((*wrapperspb.Int64Value)(nil))
	typeOfUInt64PB    = reflect.TypeOf((*wrapperspb.UInt64Value)(nil))
	typeOfDoublePB    = reflect.TypeOf((*wrapperspb.DoubleValue)(nil))
	typeOfBoolPB      = reflect.TypeOf((*wrapperspb.BoolValue)(nil))
	typeOfStringPB    = reflect.TypeOf((*wrapperspb.StringValue)(nil))
	typeOfBytesPB     = reflect.TypeOf((*wrapperspb.BytesValue)(nil))
)

// adaptWellKnownNative recognizes protobuf well-known-type host values
// during Registry.NativeToValue (see registry.go). Returns ok=false when
// native isn't one of the recognized families.
func adaptWellKnownNative(native interface{}) (Value, bool) {
	switch v := native.(type) {
	case *timestamppb.Timestamp:
		if v == nil {
			return NullValue, true
		}
		return Timestamp(v.AsTime()), true
	case *durationpb.Duration:
		if v == nil {
			return NullValue, true
		}
		return Duration(v.AsDuration()), true
	case *wrapperspb.Int64Value:
		if v == nil {
			return NullValue, true
		}
		return Int(v.Value), true
	case *wrapperspb.UInt64Value:
		if v == nil {
			return NullValue, true
		}
		return Uint(v.Value), true
	case *wrapperspb.DoubleValue:
		if v == nil {
			return NullValue, true
		}
		return Double(v.Value), true
	case *wrapperspb.BoolValue:
		if v == nil {
			return NullValue, true
		}
		return Bool(v.Value), true
	case *wrapperspb.StringValue:
		if v == nil {
			return NullValue, true
		}
		return String(v.Value), true
	case *wrapperspb.BytesValue:
		if v == nil {
			return NullValue, true
		}
		return Bytes(v.Value), true
	default:
		return nil, false
	}
}

// wellKnownNative is the ConvertToNative counterpart: it lets Duration/
// Timestamp (and, from numeric.go/strbytes.go/value.go, the scalar
// variants) produce a protobuf well-known-type when the host asks for
// one by reflect.Type, without every value file importing all of
// google.golang.org/protobuf/types/known/*.
func wellKnownNative(k Kind, v Value, rt reflect.Type) (interface{}, bool, error) {
	switch {
	case rt == typeOfDurationPB && k == DurationKind:
		return durationpb.New(time.Duration(v.(Duration))), true, nil
	case rt == typeOfTimestampPB && k == TimestampKind:
		return timestamppb.New(time.Time(v.(Timestamp))), true, nil
	case rt == typeOfInt64PB && k == IntKind:
		return wrapperspb.Int64(int64(v.(Int))), true, nil
	case rt == typeOfUInt64PB && k == UintKind:
		return wrapperspb.UInt64(uint64(v.(Uint))), true, nil
	case rt == typeOfDoublePB && k == DoubleKind:
		return wrapperspb.Double(float64(v.(Double))), true, nil
	case rt == typeOfBoolPB && k == BoolKind:
		return wrapperspb.Bool(bool(v.(Bool))), true, nil
	case rt == typeOfStringPB && k == StringKind:
		return wrapperspb.String(string(v.(String))), true, nil
	case rt == typeOfBytesPB && k == BytesKind:
		return wrapperspb.Bytes([]byte(v.(Bytes))), true, nil
	default:
		return nil, false, nil
	}
}
