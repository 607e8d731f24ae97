package cel

// Planner lowers an AST (ast.go) into an interpretable tree, per spec.md
// §4.5. Grounded on the teacher's private JIT-emitter pass
// (`newEmitter` in interpreter_ops.go): a planning stage that runs once,
// ahead of any Eval call, producing a form with no further tree-walking
// overhead beyond the interpretable dispatch itself.
type Planner struct {
	Dispatcher *Dispatcher
	Registry   *Registry
	Container  string // namespace prefix for identifier candidate search
	Checked    *CheckedTypes
	Interrupt  <-chan struct{}

	decorators []Decorator
}

// NewPlanner returns a Planner wired to dispatcher/registry. Container is
// the namespace prefix used for identifier candidate search (spec.md
// §4.3); pass "" when the expression has no package/container context.
func NewPlanner(dispatcher *Dispatcher, registry *Registry, container string) *Planner {
	return &Planner{Dispatcher: dispatcher, Registry: registry, Container: container}
}

// Plan lowers root into an interpretable tree. Decorators run at each
// node as it is constructed, children first, which gives the bottom-up
// application order spec.md §4.6 requires without a separate rewrite
// pass: by the time a parent node is built, every child already passed
// through the full decorator chain.
func (p *Planner) Plan(root Node, decorators ...Decorator) interpretable {
	p.decorators = decorators
	return p.lower(root)
}

// lower dispatches on node kind and decorates the result before
// returning it to the (possibly absent) caller that embeds it as a
// child, per the bottom-up ordering described above.
func (p *Planner) lower(n Node) interpretable {
	return p.applyDecorators(p.lowerNode(n))
}

func (p *Planner) applyDecorators(i interpretable) interpretable {
	for _, d := range p.decorators {
		i = d(i)
	}
	return i
}

func (p *Planner) lowerNode(n Node) interpretable {
	switch node := n.(type) {
	case *ConstNode:
		return &constInterpretable{id: node.id, val: node.Value}
	case *IdentNode:
		return &attrInterpretable{id: node.id, attr: newIdentAttribute(p.Container, node.Name)}
	case *SelectNode:
		return p.lowerSelect(node)
	case *IndexNode:
		return p.lowerIndex(node)
	case *CallNode:
		return p.lowerCall(node)
	case *CreateListNode:
		return p.lowerList(node)
	case *CreateMapNode:
		return p.lowerMap(node)
	case *CreateStructNode:
		return p.lowerStruct(node)
	case *ComprehensionNode:
		return p.lowerComprehension(node)
	default:
		return &constInterpretable{id: n.ID(), val: NewInternalError("unknown AST node kind")}
	}
}

// attrOf attempts to lower n directly into a mergeable namespacedAttribute
// (spec.md §4.5: "if e itself is an attribute, merge into one namespaced
// attribute (enables subsumption)"). Returns ok=false for any node shape
// that isn't an identifier/select/const-index chain rooted at one.
func (p *Planner) attrOf(n Node) (*namespacedAttribute, bool) {
	switch node := n.(type) {
	case *IdentNode:
		return newIdentAttribute(p.Container, node.Name), true
	case *SelectNode:
		base, ok := p.attrOf(node.Operand)
		if !ok {
			return nil, false
		}
		return base.addQualifier(qualifier{kind: qualField, name: node.Field, testOnly: node.TestOnly}), true
	case *IndexNode:
		base, ok := p.attrOf(node.Operand)
		if !ok {
			return nil, false
		}
		if c, ok := node.Key.(*ConstNode); ok {
			return base.addQualifier(qualifier{kind: qualConst, constKey: c.Value}), true
		}
		return base.addQualifier(qualifier{kind: qualDynamic, dynamic: p.lower(node.Key)}), true
	default:
		return nil, false
	}
}

func (p *Planner) lowerSelect(node *SelectNode) interpretable {
	if attr, ok := p.attrOf(node); ok {
		if node.TestOnly {
			return &hasInterpretable{id: node.id, attr: attr}
		}
		return &attrInterpretable{id: node.id, attr: attr}
	}
	operand := p.lower(node.Operand)
	return &fieldGetInterpretable{id: node.id, operand: operand, field: node.Field, testOnly: node.TestOnly}
}

func (p *Planner) lowerIndex(node *IndexNode) interpretable {
	if attr, ok := p.attrOf(node); ok {
		return &attrInterpretable{id: node.id, attr: attr}
	}
	operand := p.lower(node.Operand)
	key := p.lower(node.Key)
	return &indexGetInterpretable{id: node.id, operand: operand, key: key}
}

func (p *Planner) lowerCall(node *CallNode) interpretable {
	switch node.Function {
	case "_&&_":
		l, r := p.lower(node.Args[0]), p.lower(node.Args[1])
		return &andInterpretable{id: node.id, l: l, r: r, cst: shortCircuitCost(l.Cost(), r.Cost())}
	case "_||_":
		l, r := p.lower(node.Args[0]), p.lower(node.Args[1])
		return &orInterpretable{id: node.id, l: l, r: r, cst: shortCircuitCost(l.Cost(), r.Cost())}
	case "_?_:_":
		g, t, f := p.lower(node.Args[0]), p.lower(node.Args[1]), p.lower(node.Args[2])
		armCost := cost{min: minU64(t.Cost().min, f.Cost().min), max: satAdd(t.Cost().max, f.Cost().max)}
		return &condInterpretable{id: node.id, guard: g, t: t, f: f, cst: g.Cost().add(armCost)}
	case "type":
		if node.Target == nil && len(node.Args) == 1 {
			arg := p.lower(node.Args[0])
			return &typeInterpretable{id: node.id, arg: arg, cst: arg.Cost().add(unitCost)}
		}
	}
	args := make([]interpretable, len(node.Args))
	total := zeroCost
	if node.Target != nil {
		t := p.lower(node.Target)
		total = total.add(t.Cost())
		call := &callInterpretable{id: node.id, dispatcher: p.Dispatcher, function: node.Function, target: t}
		for i, a := range node.Args {
			args[i] = p.lower(a)
			total = total.add(args[i].Cost())
		}
		call.args = args
		call.overloadID = p.overloadIDFor(node)
		call.cst = total.add(unitCost)
		return call
	}
	for i, a := range node.Args {
		args[i] = p.lower(a)
		total = total.add(args[i].Cost())
	}
	return &callInterpretable{
		id: node.id, dispatcher: p.Dispatcher, function: node.Function,
		args: args, overloadID: p.overloadIDFor(node), cst: total.add(unitCost),
	}
}

func (p *Planner) overloadIDFor(node *CallNode) string {
	if node.OverloadID != "" {
		return node.OverloadID
	}
	if p.Checked != nil {
		if id, ok := p.Checked.OverloadIDs[node.ID()]; ok {
			return id
		}
	}
	return ""
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func (p *Planner) lowerList(node *CreateListNode) interpretable {
	elts := make([]interpretable, len(node.Elements))
	total := zeroCost
	for i, e := range node.Elements {
		elts[i] = p.lower(e)
		total = total.add(elts[i].Cost())
	}
	return &listInterpretable{id: node.id, elts: elts, cst: total.add(unitCost)}
}

func (p *Planner) lowerMap(node *CreateMapNode) interpretable {
	keys := make([]interpretable, len(node.Entries))
	vals := make([]interpretable, len(node.Entries))
	total := zeroCost
	for i, e := range node.Entries {
		keys[i] = p.lower(e.Key)
		vals[i] = p.lower(e.Value)
		total = total.add(keys[i].Cost()).add(vals[i].Cost())
	}
	return &mapInterpretable{id: node.id, keys: keys, vs: vals, cst: total.add(unitCost)}
}

func (p *Planner) lowerStruct(node *CreateStructNode) interpretable {
	typeName := node.TypeName
	if p.Checked != nil {
		if t, ok := p.Checked.StructTypes[node.ID()]; ok {
			typeName = t
		}
	}
	fields := make([]string, len(node.Entries))
	vs := make([]interpretable, len(node.Entries))
	total := zeroCost
	for i, e := range node.Entries {
		fields[i] = e.Field
		vs[i] = p.lower(e.Value)
		total = total.add(vs[i].Cost())
	}
	return &structInterpretable{id: node.id, registry: p.Registry, typeName: typeName, fields: fields, vs: vs, cst: total.add(unitCost)}
}

func (p *Planner) lowerComprehension(node *ComprehensionNode) interpretable {
	iterRange := p.lower(node.IterRange)
	accuInit := p.lower(node.AccuInit)
	loopCond := p.lower(node.LoopCond)
	loopStep := p.lower(node.LoopStep)
	result := p.lower(node.Result)

	tail := accuInit.Cost().add(result.Cost())
	body := loopCond.Cost().add(loopStep.Cost())

	_, rangeIsList := node.IterRange.(*CreateListNode)
	var rangeCost cost
	if rangeIsList {
		n := uint64(len(node.IterRange.(*CreateListNode).Elements))
		rangeCost = cost{n, n}
	} else {
		rangeCost = cost{0, 0} // max is recomputed from rangeIsDynamic below
	}
	cst := comprehensionCost(rangeCost, body, tail, !rangeIsList)

	return &comprehensionInterpretable{
		id: node.id, iterVar: node.IterVar, accuVar: node.AccuVar,
		iterRange: iterRange, accuInit: accuInit, loopCond: loopCond, loopStep: loopStep, result: result,
		cst: cst, interrupt: p.Interrupt,
	}
}

// -----------------------------------------------------------------------
// Fallback field/index get (non-attribute-mergeable operand, e.g.
// selecting a field off a call result).
// -----------------------------------------------------------------------

type fieldGetInterpretable struct {
	id       int64
	operand  interpretable
	field    string
	testOnly bool
}

func (n *fieldGetInterpretable) ID() int64   { return n.id }
func (n *fieldGetInterpretable) Cost() cost { return n.operand.Cost().add(unitCost) }
func (n *fieldGetInterpretable) Eval(act Activation) Value {
	base := n.operand.Eval(act)
	if isErrorOrUnknown(base) {
		return base
	}
	if n.testOnly {
		ft, ok := base.(FieldTester)
		if !ok {
			idx, ok := base.(Indexer)
			if !ok {
				return NewNoSuchOverloadError("select", base)
			}
			return Bool(!IsError(idx.Get(String(n.field))))
		}
		return ft.IsSet(n.field)
	}
	idx, ok := base.(Indexer)
	if !ok {
		return NewNoSuchOverloadError("select", base)
	}
	return idx.Get(String(n.field))
}

type indexGetInterpretable struct {
	id             int64
	operand, key   interpretable
}

func (n *indexGetInterpretable) ID() int64   { return n.id }
func (n *indexGetInterpretable) Cost() cost { return n.operand.Cost().add(n.key.Cost()).add(unitCost) }
func (n *indexGetInterpretable) Eval(act Activation) Value {
	base := n.operand.Eval(act)
	if isErrorOrUnknown(base) {
		return base
	}
	key := n.key.Eval(act)
	if isErrorOrUnknown(key) {
		return key
	}
	idx, ok := base.(Indexer)
	if !ok {
		return NewNoSuchOverloadError("index", base, key)
	}
	return idx.Get(key)
}
