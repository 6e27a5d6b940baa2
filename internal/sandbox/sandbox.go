// Package sandbox accepts an untrusted text snippet, restricts it to an
// allow-listed subset of Python's expression grammar, and evaluates it
// against a caller-supplied variable environment. It is the single trust
// boundary between free-text quiz answers and the process: nothing outside
// the allow-listed builtins and the supplied environment is reachable from
// a snippet, and every failure comes back as a classified *Error rather
// than a fault.
package sandbox

import "strings"

// Sandbox evaluates snippets under one set of limits. The zero value is not
// usable; call New.
type Sandbox struct {
	limits Limits
}

// New returns a Sandbox with the given limits. Zero fields fall back to
// DefaultLimits.
func New(limits Limits) *Sandbox {
	if limits.MaxSteps <= 0 {
		limits.MaxSteps = DefaultLimits.MaxSteps
	}
	if limits.MaxElems <= 0 {
		limits.MaxElems = DefaultLimits.MaxElems
	}
	return &Sandbox{limits: limits}
}

// Eval validates and evaluates text as a single expression against env,
// returning its value. This is the expression-mode entry point; env is
// read-only and the snippet cannot mutate the caller's bindings. Every
// returned error is a *Error.
func (sb *Sandbox) Eval(text string, env map[string]Value) (Value, error) {
	tree, err := prepare(text, env, ModeExpression)
	if err != nil {
		return nil, err
	}
	return evalExpr(tree, evalContext(env), sb.limits)
}

// Run validates and executes text as a statement sequence against env, then
// returns the final value of the named binding. Statements may mutate the
// mutable values bound in env in place; the caller passes copies it is
// prepared to see modified.
func (sb *Sandbox) Run(text string, env map[string]Value, binding string) (Value, error) {
	tree, err := prepare(text, env, ModeStatements)
	if err != nil {
		return nil, err
	}
	ctx := evalContext(env)
	if err := evalProgram(tree.(*ProgramNode), ctx, sb.limits); err != nil {
		return nil, err
	}
	v, ok := ctx[binding]
	if !ok {
		return nil, runtimeErrf("name '%s' is not defined", binding)
	}
	return v, nil
}

// Eval is the package-level expression-mode entry point with default limits.
func Eval(text string, env map[string]Value) (Value, error) {
	return New(DefaultLimits).Eval(text, env)
}

// Run is the package-level statement-mode entry point with default limits.
func Run(text string, env map[string]Value, binding string) (Value, error) {
	return New(DefaultLimits).Run(text, env, binding)
}

// prepare rejects blank input, checks the environment against the permitted
// vocabulary, parses the snippet fresh and validates it for the mode.
func prepare(text string, env map[string]Value, mode Mode) (Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Kind: EmptyInput, Reason: "empty expression"}
	}
	p := PolicyFor(mode)
	for k := range env {
		if !p.AllowsName(k) {
			return nil, &Error{Kind: NameRejected, Reason: "disallowed environment variable name: " + k}
		}
	}

	var (
		tree Node
		err  error
	)
	if mode == ModeStatements {
		tree, err = parseStatements(text)
	} else {
		tree, err = parseExpr(text)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(tree, mode); err != nil {
		return nil, err
	}
	return tree, nil
}

// evalContext builds the execution context: the boolean/None constants
// resolve as literals in the grammar, so the context is exactly the caller's
// bindings. Builtins dispatch by name and never appear as values.
func evalContext(env map[string]Value) map[string]Value {
	ctx := make(map[string]Value, len(env))
	for k, v := range env {
		ctx[k] = v
	}
	return ctx
}
