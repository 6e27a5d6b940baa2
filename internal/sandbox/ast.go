package sandbox

// NodeKind identifies the syntactic kind of a parsed node. The validator's
// allow-list is expressed in terms of these kinds.
type NodeKind string

const (
	KindLiteral   NodeKind = "literal"
	KindName      NodeKind = "name"
	KindList      NodeKind = "list display"
	KindTuple     NodeKind = "tuple display"
	KindSet       NodeKind = "set display"
	KindDict      NodeKind = "dict display"
	KindUnary     NodeKind = "unary operator"
	KindBinary    NodeKind = "binary operator"
	KindBoolOp    NodeKind = "boolean operator"
	KindCompare   NodeKind = "comparison"
	KindCall      NodeKind = "call"
	KindAttribute NodeKind = "attribute access"
	KindSubscript NodeKind = "subscript"
	KindSlice     NodeKind = "slice"
	KindAssign    NodeKind = "assignment"
	KindExprStmt  NodeKind = "expression statement"
	KindProgram   NodeKind = "statement sequence"
)

// Node is a node of the parsed syntax tree. Trees are built fresh for every
// answer and never shared across evaluations.
type Node interface {
	NodeKind() NodeKind
}

type (
	// LiteralNode holds a constant: number, string, bytes, bool or None.
	LiteralNode struct {
		Val Value
	}

	// NameNode is a bare identifier reference.
	NameNode struct {
		Ident string
	}

	// ListNode, TupleNode and SetNode are container displays.
	ListNode  struct{ Elems []Node }
	TupleNode struct{ Elems []Node }
	SetNode   struct{ Elems []Node }

	// DictNode is a dict display; Keys and Vals are parallel.
	DictNode struct {
		Keys []Node
		Vals []Node
	}

	// UnaryNode is a prefix operator application: "-", "+", "~" or "not".
	UnaryNode struct {
		Op string
		X  Node
	}

	// BinaryNode is an arithmetic or bitwise operator application.
	BinaryNode struct {
		Op   string
		L, R Node
	}

	// BoolOpNode is a short-circuiting "and"/"or" chain.
	BoolOpNode struct {
		Op   string
		Vals []Node
	}

	// CompareNode is a possibly chained comparison: a < b <= c.
	CompareNode struct {
		First Node
		Ops   []string
		Rest  []Node
	}

	// CallNode is a call expression. The validator requires the callee to be
	// either a bare name in the call allow-list or an attribute reference
	// whose method name is allow-listed; any other callee is rejected.
	CallNode struct {
		Callee Node
		Args   []Node
	}

	// AttributeNode is "recv.name". It is only legal as the callee of a
	// CallNode; a bare attribute reference never validates.
	AttributeNode struct {
		Recv Node
		Name string
	}

	// SubscriptNode is "recv[index]"; Index may be a SliceNode.
	SubscriptNode struct {
		Recv  Node
		Index Node
	}

	// SliceNode is "low:high:step" inside a subscript; any part may be nil.
	SliceNode struct {
		Low, High, Step Node
	}

	// AssignNode is a statement-mode assignment. Target is a NameNode or a
	// SubscriptNode (indexed or sliced).
	AssignNode struct {
		Target Node
		Value  Node
	}

	// ExprStmtNode wraps an expression used as a statement, such as a call
	// to a mutating method.
	ExprStmtNode struct {
		X Node
	}

	// ProgramNode is the statement sequence produced in statement mode.
	ProgramNode struct {
		Stmts []Node
	}
)

func (*LiteralNode) NodeKind() NodeKind   { return KindLiteral }
func (*NameNode) NodeKind() NodeKind      { return KindName }
func (*ListNode) NodeKind() NodeKind      { return KindList }
func (*TupleNode) NodeKind() NodeKind     { return KindTuple }
func (*SetNode) NodeKind() NodeKind       { return KindSet }
func (*DictNode) NodeKind() NodeKind      { return KindDict }
func (*UnaryNode) NodeKind() NodeKind     { return KindUnary }
func (*BinaryNode) NodeKind() NodeKind    { return KindBinary }
func (*BoolOpNode) NodeKind() NodeKind    { return KindBoolOp }
func (*CompareNode) NodeKind() NodeKind   { return KindCompare }
func (*CallNode) NodeKind() NodeKind      { return KindCall }
func (*AttributeNode) NodeKind() NodeKind { return KindAttribute }
func (*SubscriptNode) NodeKind() NodeKind { return KindSubscript }
func (*SliceNode) NodeKind() NodeKind     { return KindSlice }
func (*AssignNode) NodeKind() NodeKind    { return KindAssign }
func (*ExprStmtNode) NodeKind() NodeKind  { return KindExprStmt }
func (*ProgramNode) NodeKind() NodeKind   { return KindProgram }
