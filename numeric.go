package cel

import (
	"math"
	"reflect"
	"strconv"
)

// -----------------------------------------------------------------------
// Int (signed 64-bit, checked arithmetic)
// -----------------------------------------------------------------------

type Int int64

func (Int) Type() *Type { return IntType }
func (Int) Traits() Trait {
	return TraitAdder | TraitSubtractor | TraitMultiplier | TraitDivider |
		TraitModder | TraitNegater | TraitComparer
}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (i Int) Equal(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	return Bool(ok && i == oi)
}

func (i Int) ConvertToType(t *Type) Value {
	switch t.Kind {
	case IntKind:
		return i
	case UintKind:
		if i < 0 {
			return NewRangeError(int64(i), "uint")
		}
		return Uint(i)
	case DoubleKind:
		return Double(float64(i))
	case StringKind:
		return String(i.String())
	case TypeKind:
		return TypeVal(IntType)
	default:
		return NewTypeConversionError(IntType, t)
	}
}

func (i Int) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(IntKind, i, rt); ok {
		return v, err
	}
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Interface:
		return int64(i), nil
	default:
		return nil, NewTypeConversionError(IntType, nil).asGoError()
	}
}

func (i Int) Add(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	if !ok {
		return NewNoSuchOverloadError("add", i, o)
	}
	sum := int64(i) + int64(oi)
	if (oi > 0 && sum < int64(i)) || (oi < 0 && sum > int64(i)) {
		return NewOverflowError("add_int64")
	}
	return Int(sum)
}

func (i Int) Subtract(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	if !ok {
		return NewNoSuchOverloadError("subtract", i, o)
	}
	diff := int64(i) - int64(oi)
	if (oi < 0 && diff < int64(i)) || (oi > 0 && diff > int64(i)) {
		return NewOverflowError("subtract_int64")
	}
	return Int(diff)
}

func (i Int) Multiply(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	if !ok {
		return NewNoSuchOverloadError("multiply", i, o)
	}
	x, y := int64(i), int64(oi)
	if x == 0 || y == 0 {
		return Int(0)
	}
	product := x * y
	if product/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return NewOverflowError("multiply_int64")
	}
	return Int(product)
}

func (i Int) Divide(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	if !ok {
		return NewNoSuchOverloadError("divide", i, o)
	}
	if oi == 0 {
		return NewDivideByZeroError()
	}
	if int64(i) == math.MinInt64 && int64(oi) == -1 {
		return NewOverflowError("divide_int64")
	}
	return Int(int64(i) / int64(oi))
}

func (i Int) Modulo(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	if !ok {
		return NewNoSuchOverloadError("modulo", i, o)
	}
	if oi == 0 {
		return NewDivideByZeroError()
	}
	if int64(i) == math.MinInt64 && int64(oi) == -1 {
		return NewOverflowError("modulo_int64")
	}
	return Int(int64(i) % int64(oi))
}

func (i Int) Negate() Value {
	if int64(i) == math.MinInt64 {
		return NewOverflowError("negate_int64")
	}
	return Int(-int64(i))
}

func (i Int) Compare(o Value) Value {
	if r, ok := propagate(i, o); ok {
		return r
	}
	oi, ok := o.(Int)
	if !ok {
		return NewNoSuchOverloadError("compare", i, o)
	}
	switch {
	case i < oi:
		return Int(-1)
	case i > oi:
		return Int(1)
	default:
		return Int(0)
	}
}

// -----------------------------------------------------------------------
// Uint (unsigned 64-bit, checked arithmetic, distinct from Int)
// -----------------------------------------------------------------------

type Uint uint64

func (Uint) Type() *Type { return UintType }
func (Uint) Traits() Trait {
	return TraitAdder | TraitSubtractor | TraitMultiplier | TraitDivider |
		TraitModder | TraitComparer
}
func (u Uint) String() string { return strconv.FormatUint(uint64(u), 10) }

func (u Uint) Equal(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	return Bool(ok && u == ou)
}

func (u Uint) ConvertToType(t *Type) Value {
	switch t.Kind {
	case UintKind:
		return u
	case IntKind:
		if u > math.MaxInt64 {
			return NewRangeError(uint64(u), "int")
		}
		return Int(u)
	case DoubleKind:
		return Double(float64(u))
	case StringKind:
		return String(u.String())
	case TypeKind:
		return TypeVal(UintType)
	default:
		return NewTypeConversionError(UintType, t)
	}
}

func (u Uint) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(UintKind, u, rt); ok {
		return v, err
	}
	switch rt.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Interface:
		return uint64(u), nil
	default:
		return nil, NewTypeConversionError(UintType, nil).asGoError()
	}
}

func (u Uint) Add(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	if !ok {
		return NewNoSuchOverloadError("add", u, o)
	}
	sum := u + ou
	if sum < u {
		return NewOverflowError("add_uint64")
	}
	return sum
}

func (u Uint) Subtract(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	if !ok {
		return NewNoSuchOverloadError("subtract", u, o)
	}
	if ou > u {
		return NewOverflowError("subtract_uint64")
	}
	return u - ou
}

func (u Uint) Multiply(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	if !ok {
		return NewNoSuchOverloadError("multiply", u, o)
	}
	if u == 0 || ou == 0 {
		return Uint(0)
	}
	product := u * ou
	if product/ou != u {
		return NewOverflowError("multiply_uint64")
	}
	return product
}

func (u Uint) Divide(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	if !ok {
		return NewNoSuchOverloadError("divide", u, o)
	}
	if ou == 0 {
		return NewDivideByZeroError()
	}
	return u / ou
}

func (u Uint) Modulo(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	if !ok {
		return NewNoSuchOverloadError("modulo", u, o)
	}
	if ou == 0 {
		return NewDivideByZeroError()
	}
	return u % ou
}

func (u Uint) Compare(o Value) Value {
	if r, ok := propagate(u, o); ok {
		return r
	}
	ou, ok := o.(Uint)
	if !ok {
		return NewNoSuchOverloadError("compare", u, o)
	}
	switch {
	case u < ou:
		return Int(-1)
	case u > ou:
		return Int(1)
	default:
		return Int(0)
	}
}

// -----------------------------------------------------------------------
// Double (IEEE-754 binary64)
// -----------------------------------------------------------------------

type Double float64

func (Double) Type() *Type { return DoubleType }
func (Double) Traits() Trait {
	return TraitAdder | TraitSubtractor | TraitMultiplier | TraitDivider | TraitNegater | TraitComparer
}
func (d Double) String() string { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

// Equal follows plain IEEE-754 equality: NaN != NaN. See SPEC_FULL.md §5,
// grounded on DoubleT.java's equal() (`d == other.d`).
func (d Double) Equal(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Double)
	return Bool(ok && float64(d) == float64(od))
}

func (d Double) ConvertToType(t *Type) Value {
	switch t.Kind {
	case DoubleKind:
		return d
	case IntKind:
		n, err := doubleToInt64(float64(d))
		if err != nil {
			return err
		}
		return Int(n)
	case UintKind:
		n, err := doubleToUint64(float64(d))
		if err != nil {
			return err
		}
		return Uint(n)
	case StringKind:
		return String(d.String())
	case TypeKind:
		return TypeVal(DoubleType)
	default:
		return NewTypeConversionError(DoubleType, t)
	}
}

func (d Double) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if v, ok, err := wellKnownNative(DoubleKind, d, rt); ok {
		return v, err
	}
	switch rt.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Interface:
		return float64(d), nil
	default:
		return nil, NewTypeConversionError(DoubleType, nil).asGoError()
	}
}

func (d Double) Add(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Double)
	if !ok {
		return NewNoSuchOverloadError("add", d, o)
	}
	return d + od
}

func (d Double) Subtract(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Double)
	if !ok {
		return NewNoSuchOverloadError("subtract", d, o)
	}
	return d - od
}

func (d Double) Multiply(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Double)
	if !ok {
		return NewNoSuchOverloadError("multiply", d, o)
	}
	return d * od
}

// Divide follows spec.md §4.1: double division by zero yields ±∞, not an
// error (IEEE-754 semantics, unlike integer division).
func (d Double) Divide(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Double)
	if !ok {
		return NewNoSuchOverloadError("divide", d, o)
	}
	return d / od
}

func (d Double) Negate() Value { return -d }

// Compare implements a total order where NaN compares greater than every
// other double and equal to itself (spec.md §3 NaN note; SPEC_FULL.md §5;
// grounded on DoubleT.java's compare() -> Double.compare()). This is
// distinct from Equal, which stays IEEE.
func (d Double) Compare(o Value) Value {
	if r, ok := propagate(d, o); ok {
		return r
	}
	od, ok := o.(Double)
	if !ok {
		return NewNoSuchOverloadError("compare", d, o)
	}
	a, b := float64(d), float64(od)
	switch {
	case a < b:
		return Int(-1)
	case a > b:
		return Int(1)
	case a == b:
		return Int(0)
	}
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return Int(0)
	case aNaN:
		return Int(1)
	default:
		return Int(-1)
	}
}

// maxInt64Float/minInt64Float are the float64 renderings of the int64
// bounds; maxInt64Float rounds up to 2^63 because MaxInt64 itself is not
// exactly representable in binary64.
var (
	minInt64Float  = float64(math.MinInt64)
	maxInt64Float  = float64(math.MaxInt64)
	maxUint64Float = 18446744073709551616.0 // 2^64; MaxUint64 itself is not exactly representable
)

func doubleToInt64(d float64) (int64, *Error) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, NewRangeError(d, "int")
	}
	r := math.Round(d)
	if r <= minInt64Float || r >= maxInt64Float {
		return 0, NewRangeError(d, "int")
	}
	return int64(r), nil
}

func doubleToUint64(d float64) (uint64, *Error) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, NewRangeError(d, "uint")
	}
	r := math.Round(d)
	if r < 0 || r >= maxUint64Float {
		return 0, NewRangeError(d, "uint")
	}
	return uint64(r), nil
}
