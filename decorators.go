package cel

// Decorator rewrites one planned node, given its already-decorated
// children (planner.go applies the decorator chain at every node as it
// is built, which yields the bottom-up order spec.md §4.6 describes).
type Decorator func(interpretable) interpretable

// -----------------------------------------------------------------------
// optimize
// -----------------------------------------------------------------------

// OptimizeDecorator implements spec.md §4.6's optimize pass: (a)
// constant-fold any subtree whose every immediate child is already
// constant (sound by induction, since a fully-constant grandchild was
// already folded into one constInterpretable on its own bottom-up pass);
// (b) specialize `x in [a, b, c]` into a precomputed set lookup when the
// list is entirely constant; (c) constant string/bytes concatenation is
// subsumed by (a) — `"a" + "b"` is a callInterpretable whose two children
// are already constInterpretable, so the general fold handles it without
// a separate case.
func OptimizeDecorator() Decorator {
	return func(i interpretable) interpretable {
		if _, isConst := i.(*constInterpretable); isConst {
			return i
		}
		if c, ok := i.(*callInterpretable); ok {
			if specialized, ok := specializeConstInList(c); ok {
				return specialized
			}
		}
		if allConstantChildren(i) {
			return &constInterpretable{id: i.ID(), val: i.Eval(emptyActivation{})}
		}
		return i
	}
}

// specializeConstInList rewrites `x in [a, b, c]` (all-constant list) into
// a lookup against a precomputed constSet, avoiding an O(n) linear scan
// per eval call.
func specializeConstInList(c *callInterpretable) (interpretable, bool) {
	if c.overloadID != "in_list" && c.function != "@in" {
		return nil, false
	}
	if len(c.args) != 2 {
		return nil, false
	}
	// The list operand is either still a listInterpretable of constants or,
	// since children are decorated first, already folded into a constant *List.
	var elems []Value
	switch lst := c.args[1].(type) {
	case *constInterpretable:
		l, ok := lst.val.(*List)
		if !ok {
			return nil, false
		}
		elems = l.Elements()
	case *listInterpretable:
		for _, e := range lst.elts {
			ce, ok := e.(*constInterpretable)
			if !ok {
				return nil, false
			}
			elems = append(elems, ce.val)
		}
	default:
		return nil, false
	}
	set := make(map[mapKey]struct{}, len(elems))
	for _, v := range elems {
		mk, err := toMapKey(v)
		if err != nil {
			return nil, false // non-hashable element type; fall back to linear scan
		}
		set[mk] = struct{}{}
	}
	return &constSetInInterpretable{id: c.id, elem: c.args[0], set: set, cst: c.cst}, true
}

type constSetInInterpretable struct {
	id   int64
	elem interpretable
	set  map[mapKey]struct{}
	cst  cost
}

func (n *constSetInInterpretable) ID() int64   { return n.id }
func (n *constSetInInterpretable) Cost() cost { return n.cst }
func (n *constSetInInterpretable) Eval(act Activation) Value {
	v := n.elem.Eval(act)
	if isErrorOrUnknown(v) {
		return v
	}
	mk, err := toMapKey(v)
	if err != nil {
		return Bool(false)
	}
	_, ok := n.set[mk]
	return Bool(ok)
}

// nodeChildren returns i's immediate interpretable children, for the
// constant-fold reachability check. Leaf nodes (const, attribute) and
// nodes whose semantics depend on more than "evaluate every child and
// combine" (comprehension) report ok=false.
func nodeChildren(i interpretable) ([]interpretable, bool) {
	switch n := i.(type) {
	case *callInterpretable:
		cs := make([]interpretable, 0, len(n.args)+1)
		if n.target != nil {
			cs = append(cs, n.target)
		}
		cs = append(cs, n.args...)
		return cs, true
	case *listInterpretable:
		return n.elts, true
	case *mapInterpretable:
		cs := make([]interpretable, 0, len(n.keys)+len(n.vs))
		cs = append(cs, n.keys...)
		cs = append(cs, n.vs...)
		return cs, true
	case *structInterpretable:
		return n.vs, true
	case *andInterpretable:
		return []interpretable{n.l, n.r}, true
	case *orInterpretable:
		return []interpretable{n.l, n.r}, true
	case *condInterpretable:
		return []interpretable{n.guard, n.t, n.f}, true
	case *typeInterpretable:
		return []interpretable{n.arg}, true
	case *fieldGetInterpretable:
		return []interpretable{n.operand}, true
	case *indexGetInterpretable:
		return []interpretable{n.operand, n.key}, true
	default:
		return nil, false
	}
}

func allConstantChildren(i interpretable) bool {
	cs, ok := nodeChildren(i)
	if !ok || len(cs) == 0 {
		return false
	}
	for _, c := range cs {
		if _, isConst := c.(*constInterpretable); !isConst {
			return false
		}
	}
	return true
}

// emptyActivation has no bindings; used only to evaluate a subtree that
// OptimizeDecorator has already proven is built entirely from constants
// (and therefore never resolves an identifier).
type emptyActivation struct{}

func (emptyActivation) ResolveName(string) (Value, bool) { return nil, false }
func (emptyActivation) Parent() Activation               { return nil }

// -----------------------------------------------------------------------
// exhaustiveEval
// -----------------------------------------------------------------------

// ExhaustiveEvalDecorator implements spec.md §4.6: rewrite `&&`/`||` to
// always evaluate both operands (a literal false/true left operand still
// decides the result; a right operand no longer absorbs a left-hand error
// or unknown) and the ternary to always evaluate both arms. The
// replacement nodes are ordinary interpretables, so a TrackStateDecorator
// applied afterward records the exhaustive arm's value exactly as it
// would for any other node — this decorator does not itself touch state.
func ExhaustiveEvalDecorator() Decorator {
	return func(i interpretable) interpretable {
		switch n := i.(type) {
		case *andInterpretable:
			return &exhaustiveAndInterpretable{id: n.id, l: n.l, r: n.r, cst: n.cst}
		case *orInterpretable:
			return &exhaustiveOrInterpretable{id: n.id, l: n.l, r: n.r, cst: n.cst}
		case *condInterpretable:
			return &condInterpretable{id: n.id, guard: n.guard, t: n.t, f: n.f, cst: n.cst, evalBothArms: true}
		default:
			return i
		}
	}
}

// -----------------------------------------------------------------------
// trackState
// -----------------------------------------------------------------------

// TrackStateDecorator implements spec.md §4.6: wrap every node so that,
// after it evaluates, its result is stored into state keyed by node id.
// Idempotent with ExhaustiveEvalDecorator when applied after it in the
// decorator list (per Planner.Plan's ordering).
func TrackStateDecorator(state *EvalState) Decorator {
	return func(i interpretable) interpretable {
		return &trackStateInterpretable{inner: i, state: state}
	}
}

type trackStateInterpretable struct {
	inner interpretable
	state *EvalState
}

func (n *trackStateInterpretable) ID() int64   { return n.inner.ID() }
func (n *trackStateInterpretable) Cost() cost { return n.inner.Cost() }
func (n *trackStateInterpretable) Eval(act Activation) Value {
	v := n.inner.Eval(act)
	n.state.SetValue(n.inner.ID(), v)
	return v
}
