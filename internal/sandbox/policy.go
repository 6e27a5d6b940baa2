package sandbox

// Policy is the closed-world allow-list the validator enforces: permitted
// node kinds, callable names, identifiers and method names. Policies are
// package-level constants built once at startup and never mutated.
type Policy struct {
	Nodes   map[NodeKind]bool
	Calls   map[string]bool
	Names   map[string]bool
	Methods map[string]bool
}

// Mode selects which policy applies: a single expression, or the short
// statement sequences mutation items run. Both modes share one allow-list
// core so the statement grammar can never silently grow past the expression
// grammar plus the curated statement additions.
type Mode int

const (
	// ModeExpression permits a single pure expression.
	ModeExpression Mode = iota
	// ModeStatements additionally permits assignment statements (including
	// indexed and sliced targets), expression statements and calls to the
	// mutating methods of the supplied containers.
	ModeStatements
)

// allowedCalls is the closed set of pure built-in functions.
var allowedCalls = map[string]bool{
	"len": true, "sum": true, "min": true, "max": true, "sorted": true,
	"range": true, "set": true, "dict": true, "list": true, "tuple": true,
	"bytes": true, "bytearray": true,
}

// allowedNames is the fixed identifier vocabulary: every builtin plus the
// union of all variable names any quiz item may bind. Environments are
// checked against this set at the API boundary as well.
var allowedNames = func() map[string]bool {
	m := map[string]bool{}
	for name := range allowedCalls {
		m[name] = true
	}
	for _, name := range []string{"x", "s", "a", "b", "t", "d", "nums", "s1", "s2", "r", "ba", "fs"} {
		m[name] = true
	}
	return m
}()

// pureMethods are side-effect-free methods callable in either mode.
var pureMethods = map[string]bool{
	// str
	"strip": true, "lstrip": true, "rstrip": true,
	"lower": true, "upper": true, "capitalize": true, "title": true,
	"replace": true, "split": true, "startswith": true, "endswith": true,
	"count": true, "find": true, "index": true, "encode": true,
	// bytes / bytearray
	"decode": true,
	// list / dict / set
	"copy": true, "get": true,
	"union": true, "intersection": true, "difference": true, "issubset": true,
}

// mutatingMethods are legal only in statement mode, where the checker hands
// the snippet a fresh copy of a mutable binding.
var mutatingMethods = map[string]bool{
	// list / bytearray
	"append": true, "extend": true, "insert": true, "remove": true,
	"pop": true, "clear": true, "sort": true, "reverse": true,
	// set
	"add": true, "discard": true,
	// dict
	"update": true, "setdefault": true,
}

var expressionNodes = map[NodeKind]bool{
	KindLiteral: true, KindName: true,
	KindList: true, KindTuple: true, KindSet: true, KindDict: true,
	KindUnary: true, KindBinary: true, KindBoolOp: true, KindCompare: true,
	KindCall: true, KindSubscript: true, KindSlice: true,
}

var statementNodes = func() map[NodeKind]bool {
	m := map[NodeKind]bool{
		KindAssign: true, KindExprStmt: true, KindProgram: true,
	}
	for k := range expressionNodes {
		m[k] = true
	}
	return m
}()

var expressionPolicy = Policy{
	Nodes:   expressionNodes,
	Calls:   allowedCalls,
	Names:   allowedNames,
	Methods: pureMethods,
}

var statementPolicy = Policy{
	Nodes: statementNodes,
	Calls: allowedCalls,
	Names: allowedNames,
	Methods: func() map[string]bool {
		m := map[string]bool{}
		for k := range pureMethods {
			m[k] = true
		}
		for k := range mutatingMethods {
			m[k] = true
		}
		return m
	}(),
}

// PolicyFor returns the allow-list for the given mode.
func PolicyFor(mode Mode) Policy {
	if mode == ModeStatements {
		return statementPolicy
	}
	return expressionPolicy
}

// AllowsName reports whether ident is in the permitted identifier vocabulary.
func (p Policy) AllowsName(ident string) bool { return p.Names[ident] }
