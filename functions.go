package cel

// RegisterStandardFunctions installs the built-in function library spec.md
// §4.1/§6 requires: arithmetic (delegating to the value algebra's own
// checked-overflow operators), comparisons, string member functions,
// size/in/type, and the duration()/timestamp() constructors. Grounded on
// the teacher's RegisterNative sequence in NewInterpreter (interpreter.go)
// — one call per builtin, each wrapping a small closure over the already-
// implemented value-algebra method.
func RegisterStandardFunctions(d *Dispatcher) {
	registerArithmetic(d)
	registerComparisons(d)
	registerStringOps(d)
	registerContainerOps(d)
	registerConversions(d)
}

func registerArithmetic(d *Dispatcher) {
	binary := func(id, fn string, trait Trait, op func(a, b Value) Value) {
		d.Add(id, fn, 2, trait, func(args []Value) Value { return op(args[0], args[1]) })
	}
	binary("add_int64", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_uint64", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_double", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_string", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_bytes", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_list", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_duration_duration", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_duration_timestamp", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })
	binary("add_timestamp_duration", "_+_", TraitAdder, func(a, b Value) Value { return a.(Adder).Add(b) })

	binary("subtract_int64", "_-_", TraitSubtractor, func(a, b Value) Value { return a.(Subtractor).Subtract(b) })
	binary("subtract_uint64", "_-_", TraitSubtractor, func(a, b Value) Value { return a.(Subtractor).Subtract(b) })
	binary("subtract_double", "_-_", TraitSubtractor, func(a, b Value) Value { return a.(Subtractor).Subtract(b) })
	binary("subtract_duration_duration", "_-_", TraitSubtractor, func(a, b Value) Value { return a.(Subtractor).Subtract(b) })
	binary("subtract_timestamp_duration", "_-_", TraitSubtractor, func(a, b Value) Value { return a.(Subtractor).Subtract(b) })
	binary("subtract_timestamp_timestamp", "_-_", TraitSubtractor, func(a, b Value) Value { return a.(Subtractor).Subtract(b) })

	binary("multiply_int64", "_*_", TraitMultiplier, func(a, b Value) Value { return a.(Multiplier).Multiply(b) })
	binary("multiply_uint64", "_*_", TraitMultiplier, func(a, b Value) Value { return a.(Multiplier).Multiply(b) })
	binary("multiply_double", "_*_", TraitMultiplier, func(a, b Value) Value { return a.(Multiplier).Multiply(b) })

	binary("divide_int64", "_/_", TraitDivider, func(a, b Value) Value { return a.(Divider).Divide(b) })
	binary("divide_uint64", "_/_", TraitDivider, func(a, b Value) Value { return a.(Divider).Divide(b) })
	binary("divide_double", "_/_", TraitDivider, func(a, b Value) Value { return a.(Divider).Divide(b) })

	binary("modulo_int64", "_%_", TraitModder, func(a, b Value) Value { return a.(Modder).Modulo(b) })
	binary("modulo_uint64", "_%_", TraitModder, func(a, b Value) Value { return a.(Modder).Modulo(b) })

	d.Add("negate_int64", "-_", 1, TraitNegater, func(args []Value) Value { return args[0].(Negater).Negate() })
	d.Add("negate_double", "-_", 1, TraitNegater, func(args []Value) Value { return args[0].(Negater).Negate() })
	d.Add("negate_duration", "-_", 1, TraitNegater, func(args []Value) Value { return args[0].(Negater).Negate() })
}

func registerComparisons(d *Dispatcher) {
	lift := func(id string, want func(cmp int64) bool) overloadFn {
		return func(args []Value) Value {
			c, ok := args[0].(Comparer)
			if !ok {
				return NewNoSuchOverloadError(id, args...)
			}
			r := c.Compare(args[1])
			if isErrorOrUnknown(r) {
				return r
			}
			return Bool(want(int64(r.(Int))))
		}
	}
	for _, suffix := range []string{"int64", "uint64", "double", "string", "bytes", "bool", "duration", "timestamp"} {
		d.Add("less_"+suffix, "_<_", 2, TraitComparer, lift("_<_", func(c int64) bool { return c < 0 }))
		d.Add("less_equals_"+suffix, "_<=_", 2, TraitComparer, lift("_<=_", func(c int64) bool { return c <= 0 }))
		d.Add("greater_"+suffix, "_>_", 2, TraitComparer, lift("_>_", func(c int64) bool { return c > 0 }))
		d.Add("greater_equals_"+suffix, "_>=_", 2, TraitComparer, lift("_>=_", func(c int64) bool { return c >= 0 }))
	}
	d.Add("equals", "_==_", 2, 0, func(args []Value) Value { return args[0].Equal(args[1]) })
	d.Add("not_equals", "_!=_", 2, 0, func(args []Value) Value {
		r := args[0].Equal(args[1])
		if isErrorOrUnknown(r) {
			return r
		}
		return Bool(!bool(r.(Bool)))
	})
}

func registerStringOps(d *Dispatcher) {
	d.Add("string_contains_string", "contains", 2, TraitReceiver, func(args []Value) Value {
		return args[0].(Receiver).Receive("contains", "string_contains_string", args[1:])
	})
	d.Add("string_starts_with_string", "startsWith", 2, TraitReceiver, func(args []Value) Value {
		return args[0].(Receiver).Receive("startsWith", "string_starts_with_string", args[1:])
	})
	d.Add("string_ends_with_string", "endsWith", 2, TraitReceiver, func(args []Value) Value {
		return args[0].(Receiver).Receive("endsWith", "string_ends_with_string", args[1:])
	})
	d.Add("matches_string", "matches", 2, TraitMatcher, func(args []Value) Value {
		return args[0].(Matcher).Match(args[1])
	})
}

func registerContainerOps(d *Dispatcher) {
	d.Add("size_string", "size", 1, TraitSizer, func(args []Value) Value { return args[0].(Sizer).Size() })
	d.Add("size_bytes", "size", 1, TraitSizer, func(args []Value) Value { return args[0].(Sizer).Size() })
	d.Add("size_list", "size", 1, TraitSizer, func(args []Value) Value { return args[0].(Sizer).Size() })
	d.Add("size_map", "size", 1, TraitSizer, func(args []Value) Value { return args[0].(Sizer).Size() })

	d.Add("in_list", "@in", 2, 0, func(args []Value) Value {
		c, ok := args[1].(Container)
		if !ok {
			return NewNoSuchOverloadError("@in", args...)
		}
		return c.Contains(args[0])
	})
	d.Add("in_map", "@in", 2, 0, func(args []Value) Value {
		c, ok := args[1].(Container)
		if !ok {
			return NewNoSuchOverloadError("@in", args...)
		}
		return c.Contains(args[0])
	})
}

func registerConversions(d *Dispatcher) {
	conv := func(id string, t *Type) overloadFn {
		return func(args []Value) Value { return args[0].ConvertToType(t) }
	}
	d.Add("to_int", "int", 1, 0, conv("to_int", IntType))
	d.Add("to_uint", "uint", 1, 0, conv("to_uint", UintType))
	d.Add("to_double", "double", 1, 0, conv("to_double", DoubleType))
	d.Add("to_string", "string", 1, 0, conv("to_string", StringType))
	d.Add("to_bytes", "bytes", 1, 0, conv("to_bytes", BytesType))
	d.Add("to_bool", "bool", 1, 0, conv("to_bool", BoolType))
	d.Add("to_dyn", "dyn", 1, 0, func(args []Value) Value { return args[0] })

	d.Add("string_to_duration", "duration", 1, 0, func(args []Value) Value {
		return args[0].ConvertToType(DurationType)
	})
	d.Add("string_to_timestamp", "timestamp", 1, 0, func(args []Value) Value {
		return args[0].ConvertToType(TimestampType)
	})

	d.Add("type", "type", 1, 0, func(args []Value) Value { return TypeVal(args[0].Type()) })
}
