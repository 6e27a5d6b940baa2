package sandbox

import "fmt"

// Validate walks every node of the tree and accepts it only if each node
// kind, called function, method name and free identifier is on the mode's
// allow-list. The walk is complete and pre-order: a disallowed descendant is
// never hidden by an accepted ancestor. Validation is pure.
func Validate(tree Node, mode Mode) error {
	return validateNode(tree, PolicyFor(mode))
}

func validateNode(n Node, p Policy) error {
	if !p.Nodes[n.NodeKind()] {
		return &Error{Kind: SyntaxRejected, Reason: fmt.Sprintf("disallowed syntax element: %s", n.NodeKind())}
	}
	switch x := n.(type) {
	case *LiteralNode:
		return nil
	case *NameNode:
		if !p.AllowsName(x.Ident) {
			return &Error{Kind: NameRejected, Reason: fmt.Sprintf("disallowed name: %s", x.Ident)}
		}
		return nil
	case *ListNode:
		return validateAll(x.Elems, p)
	case *TupleNode:
		return validateAll(x.Elems, p)
	case *SetNode:
		return validateAll(x.Elems, p)
	case *DictNode:
		if err := validateAll(x.Keys, p); err != nil {
			return err
		}
		return validateAll(x.Vals, p)
	case *UnaryNode:
		return validateNode(x.X, p)
	case *BinaryNode:
		if err := validateNode(x.L, p); err != nil {
			return err
		}
		return validateNode(x.R, p)
	case *BoolOpNode:
		return validateAll(x.Vals, p)
	case *CompareNode:
		if err := validateNode(x.First, p); err != nil {
			return err
		}
		return validateAll(x.Rest, p)
	case *CallNode:
		return validateCall(x, p)
	case *SubscriptNode:
		if err := validateNode(x.Recv, p); err != nil {
			return err
		}
		return validateNode(x.Index, p)
	case *SliceNode:
		for _, part := range []Node{x.Low, x.High, x.Step} {
			if part == nil {
				continue
			}
			if err := validateNode(part, p); err != nil {
				return err
			}
		}
		return nil
	case *AssignNode:
		if err := validateNode(x.Target, p); err != nil {
			return err
		}
		return validateNode(x.Value, p)
	case *ExprStmtNode:
		return validateNode(x.X, p)
	case *ProgramNode:
		return validateAll(x.Stmts, p)
	}
	// AttributeNode lands here: bare attribute access is never permitted.
	// The legal form, a method call, is unpacked by validateCall before the
	// attribute node itself is ever visited.
	return &Error{Kind: SyntaxRejected, Reason: fmt.Sprintf("disallowed syntax element: %s", n.NodeKind())}
}

// validateCall enforces the callee rules: a bare name on the call allow-list,
// or an attribute reference whose method name is allow-listed. Calling
// through any other expression is rejected outright, which closes off
// attribute-based escapes.
func validateCall(c *CallNode, p Policy) error {
	switch callee := c.Callee.(type) {
	case *NameNode:
		if !p.Calls[callee.Ident] {
			return &Error{Kind: CallRejected, Reason: fmt.Sprintf("disallowed call: %s()", callee.Ident)}
		}
	case *AttributeNode:
		if !p.Methods[callee.Name] {
			return &Error{Kind: CallRejected, Reason: fmt.Sprintf("disallowed call: .%s()", callee.Name)}
		}
		if err := validateNode(callee.Recv, p); err != nil {
			return err
		}
	default:
		return &Error{Kind: CallRejected, Reason: "only direct calls to built-in functions are allowed"}
	}
	return validateAll(c.Args, p)
}

func validateAll(nodes []Node, p Policy) error {
	for _, n := range nodes {
		if err := validateNode(n, p); err != nil {
			return err
		}
	}
	return nil
}
