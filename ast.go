package cel

// Node is the input AST contract spec.md §6 defines: a tree of nodes,
// each identified by a stable 64-bit id, with a closed set of kinds.
// This package never parses source text — a caller (parser/checker, out
// of scope per spec.md §1) builds this tree directly.
type Node interface {
	ID() int64
}

type baseNode struct{ id int64 }

func (b baseNode) ID() int64 { return b.id }

// ConstNode is a literal constant. Payload is any Value (most commonly a
// scalar), evaluated as-is.
type ConstNode struct {
	baseNode
	Value Value
}

func NewConstNode(id int64, v Value) *ConstNode { return &ConstNode{baseNode{id}, v} }

// IdentNode references a bare identifier, resolved through the
// namespaced-attribute search (spec.md §4.3).
type IdentNode struct {
	baseNode
	Name string
}

func NewIdentNode(id int64, name string) *IdentNode { return &IdentNode{baseNode{id}, name} }

// SelectNode is a field select (`operand.field`). TestOnly encodes the
// has() macro: `has(e.f)` compiles to Select(e, f, testOnly=true).
type SelectNode struct {
	baseNode
	Operand  Node
	Field    string
	TestOnly bool
}

func NewSelectNode(id int64, operand Node, field string, testOnly bool) *SelectNode {
	return &SelectNode{baseNode{id}, operand, field, testOnly}
}

// IndexNode is `operand[key]`; key may itself be any node (constant or
// dynamic), per spec.md §4.5's const-qualifier vs attribute-qualifier
// planner distinction.
type IndexNode struct {
	baseNode
	Operand Node
	Key     Node
}

func NewIndexNode(id int64, operand, key Node) *IndexNode { return &IndexNode{baseNode{id}, operand, key} }

// CallNode is a function call. Target is non-nil for a receiver-style
// call (`a.f(b)`); OverloadID is set when a type checker has already
// resolved the call, leaving Function empty-use optional (the planner
// prefers OverloadID when present, per spec.md §4.4).
type CallNode struct {
	baseNode
	Function   string
	OverloadID string
	Target     Node // nil for a free function call
	Args       []Node
}

func NewCallNode(id int64, function string, target Node, args []Node) *CallNode {
	return &CallNode{baseNode{id}, function, "", target, args}
}

// CreateListNode builds a list literal in source order.
type CreateListNode struct {
	baseNode
	Elements []Node
}

func NewCreateListNode(id int64, elements []Node) *CreateListNode {
	return &CreateListNode{baseNode{id}, elements}
}

// MapEntry is one key/value pair of a CreateMapNode, in source order.
type MapEntry struct {
	Key   Node
	Value Node
}

// CreateMapNode builds a map literal; duplicate keys are a duplicate_key
// error at eval time (spec.md §5's ordering rule).
type CreateMapNode struct {
	baseNode
	Entries []MapEntry
}

func NewCreateMapNode(id int64, entries []MapEntry) *CreateMapNode {
	return &CreateMapNode{baseNode{id}, entries}
}

// FieldEntry is one field initializer of a CreateStructNode.
type FieldEntry struct {
	Field string
	Value Node
}

// CreateStructNode builds a message literal of the named type.
type CreateStructNode struct {
	baseNode
	TypeName string
	Entries  []FieldEntry
}

func NewCreateStructNode(id int64, typeName string, entries []FieldEntry) *CreateStructNode {
	return &CreateStructNode{baseNode{id}, typeName, entries}
}

// ComprehensionNode is the macro-expanded fold loop spec.md §4.5/§6
// describes: an accumulator seeded by AccuInit, updated by LoopStep once
// per IterRange element bound to IterVar, continuing while LoopCond
// holds, and finally transformed by Result.
type ComprehensionNode struct {
	baseNode
	IterVar   string
	IterRange Node
	AccuVar   string
	AccuInit  Node
	LoopCond  Node
	LoopStep  Node
	Result    Node
}

func NewComprehensionNode(id int64, iterVar string, iterRange Node, accuVar string, accuInit, loopCond, loopStep, result Node) *ComprehensionNode {
	return &ComprehensionNode{baseNode{id}, iterVar, iterRange, accuVar, accuInit, loopCond, loopStep, result}
}

// CheckedTypes is the optional type-check annotation map spec.md §6
// describes: node id -> resolved overload id (for Call) or resolved
// type name (for CreateStruct). A nil map means "unchecked" and the
// planner falls back to runtime name dispatch everywhere.
type CheckedTypes struct {
	OverloadIDs map[int64]string
	StructTypes map[int64]string
}
