package cel

// interpretable is the planned, directly evaluable form of one AST node
// (spec.md §4.5: "constructed once at plan time; reusable across many
// activations; must be safe to evaluate concurrently with distinct
// activations"). Every concrete type below is built only by planner.go.
type interpretable interface {
	ID() int64
	Eval(act Activation) Value
	Cost() cost
}

// -----------------------------------------------------------------------
// constInterpretable
// -----------------------------------------------------------------------

type constInterpretable struct {
	id  int64
	val Value
}

func (n *constInterpretable) ID() int64            { return n.id }
func (n *constInterpretable) Eval(Activation) Value { return n.val }
func (n *constInterpretable) Cost() cost           { return zeroCost }

// -----------------------------------------------------------------------
// attrInterpretable
// -----------------------------------------------------------------------

type attrInterpretable struct {
	id   int64
	attr *namespacedAttribute
}

func (n *attrInterpretable) ID() int64 { return n.id }
func (n *attrInterpretable) Eval(act Activation) Value {
	return n.attr.resolve(act, n.id)
}
func (n *attrInterpretable) Cost() cost { return unitCost }

// -----------------------------------------------------------------------
// callInterpretable — strict function dispatch (everything except
// &&, ||, ?:, has(), type() by-name shortcuts handled below).
// -----------------------------------------------------------------------

type callInterpretable struct {
	id         int64
	dispatcher *Dispatcher
	overloadID string // non-empty when checker-resolved
	function   string
	target     interpretable // nil for a free function
	args       []interpretable
	cst        cost
}

func (n *callInterpretable) ID() int64   { return n.id }
func (n *callInterpretable) Cost() cost { return n.cst }

func (n *callInterpretable) Eval(act Activation) Value {
	args := make([]Value, 0, len(n.args)+1)
	if n.target != nil {
		args = append(args, n.target.Eval(act))
	}
	for _, a := range n.args {
		args = append(args, a.Eval(act))
	}
	if n.overloadID != "" {
		return n.dispatcher.DispatchID(n.overloadID, args)
	}
	return n.dispatcher.DispatchName(n.function, args)
}

// -----------------------------------------------------------------------
// andInterpretable / orInterpretable — non-strict, never go through the
// dispatcher (spec.md §4.4).
// -----------------------------------------------------------------------

type andInterpretable struct {
	id   int64
	l, r interpretable
	cst  cost
}

func (n *andInterpretable) ID() int64   { return n.id }
func (n *andInterpretable) Cost() cost { return n.cst }
func (n *andInterpretable) Eval(act Activation) Value {
	lv := n.l.Eval(act)
	if b, ok := lv.(Bool); ok && !bool(b) {
		return Bool(false)
	}
	rv := n.r.Eval(act)
	if b, ok := rv.(Bool); ok && !bool(b) {
		return Bool(false)
	}
	if r, ok := propagate(lv, rv); ok {
		return r
	}
	lb, lok := lv.(Bool)
	rb, rok := rv.(Bool)
	if !lok || !rok {
		return NewNoSuchOverloadError("_&&_", lv, rv)
	}
	return Bool(bool(lb) && bool(rb))
}

type orInterpretable struct {
	id   int64
	l, r interpretable
	cst  cost
}

func (n *orInterpretable) ID() int64   { return n.id }
func (n *orInterpretable) Cost() cost { return n.cst }
func (n *orInterpretable) Eval(act Activation) Value {
	lv := n.l.Eval(act)
	if b, ok := lv.(Bool); ok && bool(b) {
		return Bool(true)
	}
	rv := n.r.Eval(act)
	if b, ok := rv.(Bool); ok && bool(b) {
		return Bool(true)
	}
	if r, ok := propagate(lv, rv); ok {
		return r
	}
	lb, lok := lv.(Bool)
	rb, rok := rv.(Bool)
	if !lok || !rok {
		return NewNoSuchOverloadError("_||_", lv, rv)
	}
	return Bool(bool(lb) || bool(rb))
}

// exhaustiveAndInterpretable / exhaustiveOrInterpretable — installed by
// the exhaustiveEval decorator in place of the short-circuit nodes above:
// both operands always evaluate. A literal false (for &&) or true (for ||)
// left operand, the answer short-circuit would have given, still wins;
// otherwise error/unknown dominance applies before the right operand can
// absorb anything, so `1/0 != 0 && false` yields the error (spec.md §4.6).
type exhaustiveAndInterpretable struct {
	id   int64
	l, r interpretable
	cst  cost
}

func (n *exhaustiveAndInterpretable) ID() int64   { return n.id }
func (n *exhaustiveAndInterpretable) Cost() cost { return n.cst }
func (n *exhaustiveAndInterpretable) Eval(act Activation) Value {
	lv, rv := n.l.Eval(act), n.r.Eval(act)
	if b, ok := lv.(Bool); ok && !bool(b) {
		return Bool(false)
	}
	if r, ok := propagate(lv, rv); ok {
		return r
	}
	lb, lok := lv.(Bool)
	rb, rok := rv.(Bool)
	if !lok || !rok {
		return NewNoSuchOverloadError("_&&_", lv, rv)
	}
	return Bool(bool(lb) && bool(rb))
}

type exhaustiveOrInterpretable struct {
	id   int64
	l, r interpretable
	cst  cost
}

func (n *exhaustiveOrInterpretable) ID() int64   { return n.id }
func (n *exhaustiveOrInterpretable) Cost() cost { return n.cst }
func (n *exhaustiveOrInterpretable) Eval(act Activation) Value {
	lv, rv := n.l.Eval(act), n.r.Eval(act)
	if b, ok := lv.(Bool); ok && bool(b) {
		return Bool(true)
	}
	if r, ok := propagate(lv, rv); ok {
		return r
	}
	lb, lok := lv.(Bool)
	rb, rok := rv.(Bool)
	if !lok || !rok {
		return NewNoSuchOverloadError("_||_", lv, rv)
	}
	return Bool(bool(lb) || bool(rb))
}

// -----------------------------------------------------------------------
// condInterpretable — ternary `?:`
// -----------------------------------------------------------------------

type condInterpretable struct {
	id                int64
	guard, t, f       interpretable
	cst               cost
	evalBothArms      bool // set by exhaustiveEval
}

func (n *condInterpretable) ID() int64   { return n.id }
func (n *condInterpretable) Cost() cost { return n.cst }
func (n *condInterpretable) Eval(act Activation) Value {
	gv := n.guard.Eval(act)
	if !n.evalBothArms {
		b, ok := gv.(Bool)
		if !ok {
			return firstNonBoolError(gv)
		}
		if bool(b) {
			return n.t.Eval(act)
		}
		return n.f.Eval(act)
	}
	tv, fv := n.t.Eval(act), n.f.Eval(act)
	b, ok := gv.(Bool)
	if !ok {
		return firstNonBoolError(gv)
	}
	if bool(b) {
		return tv
	}
	return fv
}

func firstNonBoolError(v Value) Value {
	if isErrorOrUnknown(v) {
		return v
	}
	return NewNoSuchOverloadError("_?_:_", v)
}

// -----------------------------------------------------------------------
// hasInterpretable — has(e.f), compiled to a field-presence test
// (spec.md §4.5).
// -----------------------------------------------------------------------

type hasInterpretable struct {
	id   int64
	attr *namespacedAttribute
}

func (n *hasInterpretable) ID() int64 { return n.id }
func (n *hasInterpretable) Cost() cost { return unitCost }
func (n *hasInterpretable) Eval(act Activation) Value {
	return n.attr.resolve(act, n.id)
}

// -----------------------------------------------------------------------
// typeInterpretable — type(e) built-in shortcut.
// -----------------------------------------------------------------------

type typeInterpretable struct {
	id  int64
	arg interpretable
	cst cost
}

func (n *typeInterpretable) ID() int64   { return n.id }
func (n *typeInterpretable) Cost() cost { return n.cst }
func (n *typeInterpretable) Eval(act Activation) Value {
	v := n.arg.Eval(act)
	if isErrorOrUnknown(v) {
		return v
	}
	return TypeVal(v.Type())
}

// -----------------------------------------------------------------------
// listInterpretable / mapInterpretable / structInterpretable
// -----------------------------------------------------------------------

type listInterpretable struct {
	id   int64
	elts []interpretable
	cst  cost
}

func (n *listInterpretable) ID() int64   { return n.id }
func (n *listInterpretable) Cost() cost { return n.cst }
func (n *listInterpretable) Eval(act Activation) Value {
	elems := make([]Value, len(n.elts))
	for i, e := range n.elts {
		v := e.Eval(act)
		if isErrorOrUnknown(v) {
			return v
		}
		elems[i] = v
	}
	return NewList(elems)
}

type mapInterpretable struct {
	id       int64
	keys, vs []interpretable
	cst      cost
}

func (n *mapInterpretable) ID() int64   { return n.id }
func (n *mapInterpretable) Cost() cost { return n.cst }
func (n *mapInterpretable) Eval(act Activation) Value {
	keys := make([]Value, len(n.keys))
	vals := make([]Value, len(n.vs))
	for i := range n.keys {
		k := n.keys[i].Eval(act)
		if isErrorOrUnknown(k) {
			return k
		}
		v := n.vs[i].Eval(act)
		if isErrorOrUnknown(v) {
			return v
		}
		keys[i], vals[i] = k, v
	}
	m, err := NewMap(keys, vals)
	if err != nil {
		return err
	}
	return m
}

type structInterpretable struct {
	id       int64
	registry *Registry
	typeName string
	fields   []string
	vs       []interpretable
	cst      cost
}

func (n *structInterpretable) ID() int64   { return n.id }
func (n *structInterpretable) Cost() cost { return n.cst }
func (n *structInterpretable) Eval(act Activation) Value {
	values := make(map[string]Value, len(n.fields))
	for i, name := range n.fields {
		v := n.vs[i].Eval(act)
		if isErrorOrUnknown(v) {
			return v
		}
		values[name] = v
	}
	obj, err := n.registry.NewObject(n.typeName, values)
	if err != nil {
		return err
	}
	return obj
}

// -----------------------------------------------------------------------
// comprehensionInterpretable — macro-expanded fold loop.
// -----------------------------------------------------------------------

type comprehensionInterpretable struct {
	id                                    int64
	iterVar, accuVar                      string
	iterRange, accuInit, loopCond, loopStep, result interpretable
	cst                                   cost
	interrupt                             <-chan struct{}
}

func (n *comprehensionInterpretable) ID() int64   { return n.id }
func (n *comprehensionInterpretable) Cost() cost { return n.cst }

func (n *comprehensionInterpretable) Eval(act Activation) Value {
	rangeVal := n.iterRange.Eval(act)
	if isErrorOrUnknown(rangeVal) {
		return rangeVal
	}
	iterable, ok := rangeVal.(Iterable)
	if !ok {
		return NewNoSuchOverloadError("comprehension range", rangeVal)
	}
	accuFrame := NewChildActivation(act, map[string]Value{n.accuVar: n.accuInit.Eval(act)})
	it := iterable.Iterator()
	for it.HasNext() {
		if n.interrupt != nil {
			select {
			case <-n.interrupt:
				return NewInterruptedError()
			default:
			}
		}
		accuVal, _ := accuFrame.ResolveName(n.accuVar)
		if isErrorOrUnknown(accuVal) {
			return accuVal
		}
		cond := n.loopCond.Eval(accuFrame)
		if isErrorOrUnknown(cond) {
			return cond
		}
		if b, ok := cond.(Bool); !ok || !bool(b) {
			break
		}
		elem := it.Next()
		iterFrame := NewChildActivation(accuFrame, map[string]Value{n.iterVar: elem})
		next := n.loopStep.Eval(iterFrame)
		accuFrame = NewChildActivation(act, map[string]Value{n.accuVar: next})
	}
	return n.result.Eval(accuFrame)
}
