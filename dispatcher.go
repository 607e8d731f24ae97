package cel

// overloadFn is one concrete overload implementation. args has already
// been evaluated (and is never itself error/unknown-dominant by the time
// strict dispatch calls it — that's handled by propagate/Contains-style
// helpers in the value algebra, or short-circuited before dispatch for
// &&/||/?:/has, per spec.md §4.4).
type overloadFn func(args []Value) Value

// overload pairs an implementation with the trait(s) its receiver (the
// first argument) must advertise, letting DispatchName reject a call before
// invoking an implementation that would just panic on a type assertion.
type overload struct {
	id       string
	function string
	arity    int
	requires Trait
	fn       overloadFn
}

// Dispatcher is the overload-id / function-name -> implementation table
// spec.md §4.4 describes: "Functions are registered by a stable overload
// id... and optionally by a non-strict function name." Grounded on the
// teacher's native map[string]NativeImpl + RegisterNative table
// (interpreter.go), generalized to the two distinct keys CEL dispatch
// needs (a checker-resolved id, or a runtime name requiring trait-guarded
// overload search).
type Dispatcher struct {
	byID   map[string]*overload
	byName map[string][]*overload
}

// NewDispatcher returns an empty table; use RegisterStandardFunctions to
// install the built-in library (functions.go).
func NewDispatcher() *Dispatcher {
	return &Dispatcher{byID: make(map[string]*overload), byName: make(map[string][]*overload)}
}

// Add registers one overload under its id and, if non-empty, its
// function name.
func (d *Dispatcher) Add(id, function string, arity int, requires Trait, fn overloadFn) {
	o := &overload{id: id, function: function, arity: arity, requires: requires, fn: fn}
	d.byID[id] = o
	if function != "" {
		d.byName[function] = append(d.byName[function], o)
	}
}

// DispatchID invokes the overload the checker resolved by id. Missing id
// is an internal error (the checker promised this id exists), not
// no_such_overload.
func (d *Dispatcher) DispatchID(id string, args []Value) Value {
	o, ok := d.byID[id]
	if !ok {
		return NewInternalError("unresolved overload id: " + id)
	}
	return d.invoke(o, args)
}

// DispatchName performs runtime overload resolution by function name:
// "argument value types plus required traits; the first matching
// overload wins; no match -> no_such_overload" (spec.md §4.4).
func (d *Dispatcher) DispatchName(function string, args []Value) Value {
	for _, o := range d.byName[function] {
		if o.arity != len(args) {
			continue
		}
		if o.requires != 0 && (len(args) == 0 || !hasTrait(args[0], o.requires)) {
			continue
		}
		return d.invoke(o, args)
	}
	return NewNoSuchOverloadError(function, args...)
}

func (d *Dispatcher) invoke(o *overload, args []Value) Value {
	if dominant, ok := propagateArgs(args); ok {
		return dominant
	}
	return o.fn(args)
}

// propagateArgs folds the error/unknown dominance rule (error beats
// unknown, unknowns merge by node-id union) across an arbitrary-arity
// argument list, reusing the pairwise rule in value.go's propagate.
func propagateArgs(args []Value) (Value, bool) {
	var acc Value
	haveAcc := false
	for _, a := range args {
		if !isErrorOrUnknown(a) {
			continue
		}
		if !haveAcc {
			acc, haveAcc = a, true
			continue
		}
		if merged, ok := propagate(acc, a); ok {
			acc = merged
		}
	}
	return acc, haveAcc
}
